package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillsenselab/llmkit/util"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show configured providers and their reachability",
	Long: `providers prints one row per configured provider with its dialect,
model, a live availability probe, and the circuit breaker state.`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

// probeTimeout bounds the availability probe across all providers.
const probeTimeout = 5 * time.Second

func runProviders(cmd *cobra.Command, _ []string) error {
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

	ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
	defer cancel()

	breakers := cl.Metrics().Breakers
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIALECT\tMODEL\tAVAILABLE\tBREAKER")
	// BuildRegistry registers one provider per entry in order, so the
	// registry and the config entries line up index for index.
	for i, p := range registry.All() {
		entry := cfg.Providers[i]
		model := util.Coalesce(entry.Model, "(default)")
		available := "no"
		if p.IsAvailable(ctx) {
			available = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Name(), entry.Dialect, model, available, breakers[p.Name()].State)
	}
	return w.Flush()
}
