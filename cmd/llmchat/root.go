package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillsenselab/llmkit/chat"
)

var rootCmd = &cobra.Command{
	Use:   "llmchat \"prompt\"",
	Short: "Stream a completion from the configured providers",
	Long: `llmchat streams a completion for a prompt straight to stdout.

Providers come from config.yml, the same file the gateway daemon reads.
Failover, retries and circuit breaking behave exactly as they do in the
daemon; a single provider can be pinned with --provider.`,
	Example: `  # Automatic provider selection with failover
  llmchat "Explain the context package in two sentences"

  # Pin a provider and fail instead of falling back
  llmchat --provider ollama --no-failover "Write a haiku about Go"

  # Override model and sampling
  llmchat --model llama3.2 --temperature 0.2 "Summarize this diff"`,
	Args:         cobra.ExactArgs(1),
	RunE:         runChat,
	SilenceUsage: true,
}

// Execute runs the root command with a context that ends on Ctrl-C, so an
// in-flight stream cancels cleanly instead of being killed mid-chunk.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config.yml (default: conventional locations)")
	rootCmd.Flags().String("provider", "", "pin a provider by name (default: automatic selection)")
	rootCmd.Flags().String("model", "", "override the provider's default model")
	rootCmd.Flags().Bool("no-failover", false, "fail instead of trying other providers")
	rootCmd.Flags().Int("max-tokens", 0, "limit the response length (0 = provider default)")
	rootCmd.Flags().Float64("temperature", 0, "sampling temperature, 0 to 2")
	rootCmd.Flags().Duration("timeout", 5*time.Minute, "overall request timeout")
	rootCmd.Flags().String("system", "", "system prompt prepended to the conversation")
}

func runChat(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cl, registry, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer registry.Close(context.Background())

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	req := chat.UserPrompt(args[0])
	req.Provider, _ = cmd.Flags().GetString("provider")
	req.Model, _ = cmd.Flags().GetString("model")
	req.SystemPrompt, _ = cmd.Flags().GetString("system")
	req.NoFailover, _ = cmd.Flags().GetBool("no-failover")
	req.MaxTokens, _ = cmd.Flags().GetInt("max-tokens")
	if cmd.Flags().Changed("temperature") {
		req.Temperature, _ = cmd.Flags().GetFloat64("temperature")
	}

	chunks, err := cl.StreamChat(ctx, req)
	if err != nil {
		return err
	}

	wrote := false
	for chunk := range chunks {
		if chunk.Err != nil {
			if wrote {
				fmt.Println()
			}
			return chunk.Err
		}
		if chunk.Content != "" {
			fmt.Print(chunk.Content)
			wrote = true
		}
	}
	if wrote {
		fmt.Println()
	}
	return nil
}
