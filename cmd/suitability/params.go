package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"suitability-mcp/internal/mcpserver/tools"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the effective scoring parameters as JSON",
	Long:  `Print the scoring tables and constants after defaults and the config file's scoring section are merged.`,
	RunE:  runParams,
}

func runParams(cmd *cobra.Command, args []string) error {
	// Parameters do not depend on the metric source.
	a, err := open(cmd.Context(), map[string]any{"metrics_backend": "file", "snapshot_file": "-", "enable_caching": false})
	if err != nil {
		return err
	}
	defer a.Close()
	_, out, err := tools.ScoringParams(cmd.Context(), a.Deps, tools.ScoringParamsInput{})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
