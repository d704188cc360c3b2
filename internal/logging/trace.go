// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Scoring observer that writes per-district traces to the logger.

package logging

import (
	"go.uber.org/zap"

	"suitability-mcp/internal/scoring"
)

// TraceObserver logs each scored district at debug level and each run at info.
type TraceObserver struct {
	logger *zap.Logger
}

func NewTraceObserver(logger *zap.Logger) *TraceObserver {
	return &TraceObserver{logger: WithComponent(logger, "scoring")}
}

func (t *TraceObserver) DistrictScored(d scoring.DistrictScore) {
	fields := []zap.Field{
		zap.Int64("district_id", d.DistrictID),
		zap.String("district", d.DistrictName),
		zap.String("tier", string(d.Tier)),
		zap.Int("corrected_competitors", d.CorrectedCompetitors),
		zap.String("risk_level", string(d.RiskLevel)),
		zap.Int("projected_customers", d.ProjectedMonthlyCustomers),
		zap.Float64("net_monthly_profit", d.NetMonthlyProfit),
	}
	if d.SuitabilityScore != nil {
		fields = append(fields, zap.Int("score", *d.SuitabilityScore), zap.Int("rank", d.Rank))
	}
	if b := d.Breakdown; b != nil {
		fields = append(fields,
			zap.String("strategy", string(b.Strategy)),
			zap.Float64("raw_score", b.RawScore),
			zap.Float64("risk_multiplier", b.RiskMultiplier),
			zap.Bool("small_market_capped", b.SmallMarketCapped),
		)
	}
	t.logger.Debug("district scored", fields...)
}

func (t *TraceObserver) RunCompleted(r scoring.Report) {
	t.logger.Info("scoring run completed",
		zap.Int("districts", r.Summary.Districts),
		zap.Int("candidates", r.Summary.Candidates),
		zap.Int("out_of_scope", r.Summary.OutOfScope),
		zap.Int("small_market_capped", r.Summary.SmallMarketCapped),
		zap.String("competitor_policy", string(r.Selection.CompetitorPolicy)),
		zap.String("risk_policy", string(r.Selection.RiskPolicy)),
		zap.String("strategy", string(r.Selection.Strategy)),
	)
}
