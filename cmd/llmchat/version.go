package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillsenselab/llmkit/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Run: func(_ *cobra.Command, _ []string) {
		info := version.GetVersionInfo()
		fmt.Printf("llmchat version %s\n", version.GetFullVersion())
		if info.GitBranch != "" {
			fmt.Printf("Branch: %s\n", info.GitBranch)
		}
		fmt.Printf("Go version: %s\n", info.GoVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
