package localcmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/skillsenselab/llmkit/chat"
)

// buildCmd prepares the command with the prompt on stdin and stderr
// captured. The process runs in its own group so cancellation kills the
// entire tree: SIGTERM first, SIGKILL after the grace period.
func (p *Provider) buildCmd(ctx context.Context, req chat.Request) (*exec.Cmd, *bytes.Buffer) {
	c := exec.CommandContext(ctx, p.cfg.Binary, p.renderArgs(req)...) //nolint:gosec // running configured commands is the purpose of this package
	c.Dir = p.cfg.Dir
	c.Env = mergeEnv(p.cfg.Env)
	c.Stdin = strings.NewReader(renderPrompt(req))

	stderr := &bytes.Buffer{}
	c.Stderr = stderr

	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Don't let exec.CommandContext kill with SIGKILL immediately
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = p.cfg.GracePeriod

	return c, stderr
}

// exitError shapes a command failure, folding in captured stderr when
// there is any.
func exitError(binary string, err error, stderr *bytes.Buffer) error {
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return fmt.Errorf("localcmd: %s: %w: %s", binary, err, msg)
	}
	return fmt.Errorf("localcmd: %s: %w", binary, err)
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
