// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Scoring tools: ranked candidate list and single-district detail.

package tools

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	serr "suitability-mcp/internal/errors"
	"suitability-mcp/internal/provider"
	"suitability-mcp/internal/scoring"
)

// ScoringInput holds the window and strategy arguments shared by scoring tools.
type ScoringInput struct {
	From             string
	To               string
	CompetitorPolicy string
	RiskPolicy       string
	Strategy         string
	RevenueSource    string
}

type WindowOutput struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func windowOutput(w provider.Window) WindowOutput {
	return WindowOutput{From: w.From.Format(time.RFC3339), To: w.To.Format(time.RFC3339)}
}

// run loads the snapshot for the input window and scores it.
func run(ctx context.Context, deps Dependencies, tool string, in ScoringInput) (provider.Window, scoring.Report, *mcp.CallToolResult) {
	if !deps.Limiter.Allow(tool) {
		return provider.Window{}, scoring.Report{}, toolError(serr.NewRateLimited(tool))
	}
	sel, err := scoring.ParseSelection(in.CompetitorPolicy, in.RiskPolicy, in.Strategy, in.RevenueSource)
	if err != nil {
		return provider.Window{}, scoring.Report{}, callError(serr.CodeInvalidInput, err.Error(), "see server_info for strategy names")
	}
	w, err := provider.ParseWindow(in.From, in.To, deps.now(), deps.Config.WindowMonths)
	if err != nil {
		return provider.Window{}, scoring.Report{}, callError(serr.CodeInvalidInput, err.Error(), "use RFC3339 timestamps with from before to")
	}
	snap, err := deps.Provider.Snapshot(ctx, w)
	if err != nil {
		deps.Logger.Warn("snapshot failed", zap.String("tool", tool), zap.String("window", w.Key()), zap.Error(err))
		return w, scoring.Report{}, providerError(err)
	}
	return w, deps.Engine.Score(snap.Districts, sel), nil
}

func providerError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, provider.ErrInvalidSnapshot):
		return toolError(serr.NewInvalidSnapshot(err))
	case errors.Is(err, context.DeadlineExceeded):
		return toolError(serr.NewTimeout("snapshot query timed out"))
	default:
		return toolError(serr.NewProviderUnavailable(err))
	}
}

// ScoreDistricts tool

type ScoreDistrictsInput struct {
	From              string `json:"from,omitempty" jsonschema:"window start, RFC3339; defaults to the configured number of months back"`
	To                string `json:"to,omitempty" jsonschema:"window end (exclusive), RFC3339; defaults to the start of next month"`
	CompetitorPolicy  string `json:"competitor_policy,omitempty" jsonschema:"name_keyed (default) or legacy_volume"`
	RiskPolicy        string `json:"risk_policy,omitempty" jsonschema:"competitor_only (default) or net_profit_gated"`
	Strategy          string `json:"strategy,omitempty" jsonschema:"four_factor (default) or three_factor"`
	RevenueSource     string `json:"revenue_source,omitempty" jsonschema:"projected_revenue (default) or demand_competitor_ratio"`
	Limit             int    `json:"limit,omitempty" jsonschema:"maximum ranked districts to return"`
	IncludeOutOfScope bool   `json:"include_out_of_scope,omitempty" jsonschema:"append districts outside the analysis scope (unscored)"`
}

type ScoreDistrictsOutput struct {
	Window    WindowOutput            `json:"window"`
	Selection scoring.Selection       `json:"selection"`
	Summary   scoring.Summary         `json:"summary"`
	Maxima    scoring.Maxima          `json:"maxima"`
	Ranking   []scoring.Ranked        `json:"ranking"`
	Districts []scoring.DistrictScore `json:"districts"`
	Truncated bool                    `json:"truncated"`
}

func ScoreDistricts(ctx context.Context, deps Dependencies, input ScoreDistrictsInput) (*mcp.CallToolResult, ScoreDistrictsOutput, error) {
	w, report, res := run(ctx, deps, "score_districts", ScoringInput{
		From: input.From, To: input.To,
		CompetitorPolicy: input.CompetitorPolicy, RiskPolicy: input.RiskPolicy,
		Strategy: input.Strategy, RevenueSource: input.RevenueSource,
	})
	if res != nil {
		return res, ScoreDistrictsOutput{}, nil
	}
	limit := clampLimit(deps.Config, input.Limit)

	out := ScoreDistrictsOutput{
		Window:    windowOutput(w),
		Selection: report.Selection,
		Summary:   report.Summary,
		Maxima:    report.Maxima,
		Ranking:   report.Ranking,
		Districts: make([]scoring.DistrictScore, 0, len(report.Ranking)),
	}
	if len(out.Ranking) > limit {
		out.Ranking = out.Ranking[:limit]
		out.Truncated = true
	}
	byID := make(map[int64]scoring.DistrictScore, len(report.Results))
	for _, r := range report.Results {
		byID[r.DistrictID] = r
	}
	for _, r := range out.Ranking {
		out.Districts = append(out.Districts, byID[r.DistrictID])
	}
	if input.IncludeOutOfScope {
		for _, r := range report.Results {
			if !r.InAnalysisScope {
				out.Districts = append(out.Districts, r)
			}
		}
	}
	return nil, out, nil
}

// DistrictDetail tool

type DistrictDetailInput struct {
	From             string `json:"from,omitempty" jsonschema:"window start, RFC3339; defaults to the configured number of months back"`
	To               string `json:"to,omitempty" jsonschema:"window end (exclusive), RFC3339; defaults to the start of next month"`
	CompetitorPolicy string `json:"competitor_policy,omitempty" jsonschema:"name_keyed (default) or legacy_volume"`
	RiskPolicy       string `json:"risk_policy,omitempty" jsonschema:"competitor_only (default) or net_profit_gated"`
	Strategy         string `json:"strategy,omitempty" jsonschema:"four_factor (default) or three_factor"`
	RevenueSource    string `json:"revenue_source,omitempty" jsonschema:"projected_revenue (default) or demand_competitor_ratio"`
	DistrictID       int64  `json:"district_id,omitempty" jsonschema:"district id; takes precedence over district_name"`
	DistrictName     string `json:"district_name,omitempty" jsonschema:"district name, case-insensitive"`
}

type DistrictDetailOutput struct {
	Window     WindowOutput          `json:"window"`
	Selection  scoring.Selection     `json:"selection"`
	Maxima     scoring.Maxima        `json:"maxima"`
	Candidates int                   `json:"candidates"`
	District   scoring.DistrictScore `json:"district"`
}

func DistrictDetail(ctx context.Context, deps Dependencies, input DistrictDetailInput) (*mcp.CallToolResult, DistrictDetailOutput, error) {
	name := strings.TrimSpace(input.DistrictName)
	if input.DistrictID <= 0 && name == "" {
		return callError(serr.CodeInvalidInput, "district_id or district_name required", "provide one district selector"), DistrictDetailOutput{}, nil
	}
	w, report, res := run(ctx, deps, "district_detail", ScoringInput{
		From: input.From, To: input.To,
		CompetitorPolicy: input.CompetitorPolicy, RiskPolicy: input.RiskPolicy,
		Strategy: input.Strategy, RevenueSource: input.RevenueSource,
	})
	if res != nil {
		return res, DistrictDetailOutput{}, nil
	}
	for _, r := range report.Results {
		match := r.DistrictID == input.DistrictID
		if input.DistrictID <= 0 {
			match = strings.EqualFold(strings.TrimSpace(r.DistrictName), name)
		}
		if match {
			return nil, DistrictDetailOutput{
				Window:     windowOutput(w),
				Selection:  report.Selection,
				Maxima:     report.Maxima,
				Candidates: report.Summary.Candidates,
				District:   r,
			}, nil
		}
	}
	details := map[string]any{"district_id": input.DistrictID}
	if name != "" {
		details["district_name"] = name
	}
	return toolError(serr.NewNotFound("district", details)), DistrictDetailOutput{}, nil
}

// ScoringParams tool

type ScoringParamsInput struct{}

type ScoringParamsOutput struct {
	Params           scoring.Params    `json:"params"`
	DefaultSelection scoring.Selection `json:"default_selection"`
}

func ScoringParams(ctx context.Context, deps Dependencies, _ ScoringParamsInput) (*mcp.CallToolResult, ScoringParamsOutput, error) {
	return nil, ScoringParamsOutput{Params: deps.Engine.Params(), DefaultSelection: scoring.DefaultSelection()}, nil
}
