package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"suitability-mcp/internal/mcpserver/tools"
	"suitability-mcp/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rank candidate districts",
	Long:  `Load district metrics for a window, score every district and print the ranking.`,
	Args:  cobra.NoArgs,
	RunE:  runScore,
}

var (
	scoreSnapshot string
	scoreOutput   string
	scoreAll      bool
	scoreInput    tools.ScoreDistrictsInput
)

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreSnapshot, "snapshot", "", "Score a JSON snapshot file instead of the configured backend")
	f.StringVarP(&scoreOutput, "output", "o", "table", "Output format: table|json")
	f.BoolVar(&scoreAll, "all", false, "Include districts outside the analysis scope")
	f.StringVar(&scoreInput.From, "from", "", "Window start, RFC3339")
	f.StringVar(&scoreInput.To, "to", "", "Window end (exclusive), RFC3339")
	f.StringVar(&scoreInput.CompetitorPolicy, "competitor-policy", "", "name_keyed|legacy_volume")
	f.StringVar(&scoreInput.RiskPolicy, "risk-policy", "", "competitor_only|net_profit_gated")
	f.StringVar(&scoreInput.Strategy, "strategy", "", "four_factor|three_factor")
	f.StringVar(&scoreInput.RevenueSource, "revenue-source", "", "projected_revenue|demand_competitor_ratio")
	f.IntVarP(&scoreInput.Limit, "limit", "n", 0, "Maximum ranked districts (default max_results)")
}

func runScore(cmd *cobra.Command, args []string) error {
	if scoreOutput != "table" && scoreOutput != "json" {
		return fmt.Errorf("unknown output format %q", scoreOutput)
	}
	overrides := map[string]any{}
	if scoreSnapshot != "" {
		overrides["metrics_backend"] = "file"
		overrides["snapshot_file"] = scoreSnapshot
	}
	a, err := open(cmd.Context(), overrides)
	if err != nil {
		return err
	}
	defer a.Close()

	in := scoreInput
	in.IncludeOutOfScope = scoreAll
	res, out, err := tools.ScoreDistricts(cmd.Context(), a.Deps, in)
	if err != nil {
		return err
	}
	if res != nil && res.IsError {
		return fmt.Errorf("%v", res.StructuredContent)
	}

	w := cmd.OutOrStdout()
	if scoreOutput == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return renderTable(w, out)
}

var riskColors = map[scoring.RiskLevel]*color.Color{
	scoring.RiskLow:        color.New(color.FgGreen),
	scoring.RiskMedium:     color.New(color.FgYellow),
	scoring.RiskMediumHigh: color.New(color.FgHiYellow),
	scoring.RiskHigh:       color.New(color.FgRed, color.Bold),
}

func riskLabel(level scoring.RiskLevel) string {
	if c, ok := riskColors[level]; ok {
		return c.Sprint(string(level))
	}
	return string(level)
}

// renderTable writes districts in output order followed by a summary line.
func renderTable(w io.Writer, out tools.ScoreDistrictsOutput) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "District", "Score", "Risk", "Tier", "Competitors", "Customers/mo", "Net/mo", "Payback"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range out.Districts {
		rank, score := "-", "-"
		if d.SuitabilityScore != nil {
			rank = strconv.Itoa(d.Rank)
			score = strconv.Itoa(*d.SuitabilityScore)
		}
		payback := "never"
		if d.PaybackMonths != nil {
			payback = strconv.Itoa(*d.PaybackMonths) + " mo"
		}
		data = append(data, []string{
			rank,
			d.DistrictName,
			score,
			riskLabel(d.RiskLevel),
			string(d.Tier),
			strconv.Itoa(d.CorrectedCompetitors),
			strconv.Itoa(d.ProjectedMonthlyCustomers),
			strconv.FormatFloat(d.NetMonthlyProfit, 'f', 0, 64),
			payback,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	s := out.Summary
	if _, err := fmt.Fprintf(w, "Window %s to %s: %d candidates of %d districts, %d out of scope, %d capped by small market guard\n",
		out.Window.From, out.Window.To, s.Candidates, s.Districts, s.OutOfScope, s.SmallMarketCapped); err != nil {
		return err
	}
	if out.Truncated {
		_, err := fmt.Fprintf(w, "Showing top %d; raise --limit for more\n", len(out.Ranking))
		return err
	}
	return nil
}
