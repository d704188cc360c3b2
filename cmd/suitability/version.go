package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"suitability-mcp/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "suitability %s\n", version.Info())
	},
}
