// Package localcmd implements a ChatProvider backed by a local command.
// The rendered prompt is written to the command's stdin and the completion
// streams back from stdout, one chunk per output line. It adapts any model
// runner with a pipe interface (llama.cpp's llama-cli, wrapper scripts)
// without requiring an HTTP server.
//
// Cancellation sends SIGTERM to the process group, then SIGKILL after the
// configured grace period.
package localcmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillsenselab/llmkit/chat"
	"github.com/skillsenselab/llmkit/provider"
)

// Name is the dialect name configuration uses to select this provider.
const Name = "localcmd"

// Config configures a local command provider.
type Config struct {
	// Name identifies this provider instance. Defaults to the binary's
	// base name.
	Name string `yaml:"name" mapstructure:"name"`

	// Binary is the executable path or name (resolved via PATH). Required.
	Binary string `yaml:"binary" mapstructure:"binary"`

	// Args are the command-line arguments. The placeholder "{model}" is
	// replaced with the effective model name.
	Args []string `yaml:"args" mapstructure:"args"`

	// Model is the default model substituted into Args.
	Model string `yaml:"model" mapstructure:"model"`

	// Dir is the working directory. If empty, uses the current directory.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Env is additional environment variables (key=value), merged with
	// the parent environment.
	Env []string `yaml:"env" mapstructure:"env"`

	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`

	// Timeout bounds a buffered Complete call. Zero means no timeout.
	// Streaming calls are bounded by the caller's context instead.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Provider runs a local command per request.
type Provider struct {
	cfg Config
}

var _ provider.ChatProvider = (*Provider)(nil)

// New creates a local command provider.
func New(cfg Config) (*Provider, error) {
	if cfg.Binary == "" {
		return nil, errors.New("localcmd: binary is required")
	}
	if cfg.Name == "" {
		cfg.Name = filepath.Base(cfg.Binary)
	}
	if cfg.GracePeriod == 0 {
		cfg.GracePeriod = 5 * time.Second
	}
	return &Provider{cfg: cfg}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return p.cfg.Name }

// IsAvailable reports whether the binary resolves to an executable.
func (p *Provider) IsAvailable(_ context.Context) bool {
	_, err := exec.LookPath(p.cfg.Binary)
	return err == nil
}

// Stream starts the command and delivers its stdout line by line. The
// channel closes when the command exits, fails, or the context ends.
func (p *Provider) Stream(ctx context.Context, req chat.Request) (<-chan chat.Chunk, error) {
	cmd, stderr := p.buildCmd(ctx, req)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("localcmd: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("localcmd: start %s: %w", p.cfg.Binary, err)
	}

	ch := make(chan chat.Chunk)
	go p.readLines(ctx, cmd, stdout, stderr, ch)
	return ch, nil
}

// Complete runs the command to completion and returns buffered stdout.
// Trailing newlines are trimmed, shell substitution style.
func (p *Provider) Complete(ctx context.Context, req chat.Request) (*chat.Response, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	cmd, stderr := p.buildCmd(ctx, req)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("localcmd: killed by context: %w", ctx.Err())
		}
		return nil, exitError(p.cfg.Binary, err, stderr)
	}

	return &chat.Response{
		Content:  strings.TrimRight(stdout.String(), "\n"),
		Model:    p.effectiveModel(req),
		Provider: p.cfg.Name,
	}, nil
}

// readLines forwards stdout lines as chunks, then reports the exit status.
// Sends are select-guarded on ctx so an abandoned consumer never leaves
// this goroutine blocked; the command itself dies with the context.
func (p *Provider) readLines(ctx context.Context, cmd *exec.Cmd, stdout io.Reader, stderr *bytes.Buffer, ch chan<- chat.Chunk) {
	defer close(ch)

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if !send(ctx, ch, chat.Chunk{Content: scanner.Text() + "\n"}) {
			_ = cmd.Wait()
			return
		}
	}
	scanErr := scanner.Err()

	err := cmd.Wait()
	switch {
	case ctx.Err() != nil:
		// Cancelled or abandoned: nothing more to report.
	case err != nil:
		send(ctx, ch, chat.Chunk{Err: exitError(p.cfg.Binary, err, stderr)})
	case scanErr != nil:
		send(ctx, ch, chat.Chunk{Err: fmt.Errorf("localcmd: read stdout: %w", scanErr)})
	default:
		send(ctx, ch, chat.Chunk{Done: true})
	}
}

func (p *Provider) effectiveModel(req chat.Request) string {
	if req.Model != "" {
		return req.Model
	}
	return p.cfg.Model
}

// renderArgs substitutes the effective model into the arg template.
func (p *Provider) renderArgs(req chat.Request) []string {
	if len(p.cfg.Args) == 0 {
		return nil
	}
	model := p.effectiveModel(req)
	args := make([]string, len(p.cfg.Args))
	for i, a := range p.cfg.Args {
		args[i] = strings.ReplaceAll(a, "{model}", model)
	}
	return args
}

// renderPrompt flattens a chat request into plain text for stdin. A lone
// user message passes through verbatim; anything richer becomes a
// role-prefixed transcript.
func renderPrompt(req chat.Request) string {
	if req.SystemPrompt == "" && len(req.Messages) == 1 && req.Messages[0].Role == chat.RoleUser {
		return req.Messages[0].Content
	}

	var b strings.Builder
	if req.SystemPrompt != "" {
		b.WriteString(chat.RoleSystem + ": " + req.SystemPrompt + "\n")
	}
	for _, m := range req.Messages {
		b.WriteString(m.Role + ": " + m.Content + "\n")
	}
	return b.String()
}

func send(ctx context.Context, ch chan<- chat.Chunk, chunk chat.Chunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
