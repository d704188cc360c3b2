// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Named strategies chosen by each call site.

package scoring

import "fmt"

// CompetitorPolicy selects the competitor correction table.
type CompetitorPolicy string

const (
	// CompetitorNameKeyed is the canonical name-keyed multiplier table.
	CompetitorNameKeyed CompetitorPolicy = "name_keyed"
	// CompetitorLegacyVolume is the volume-gated table kept for comparison runs.
	CompetitorLegacyVolume CompetitorPolicy = "legacy_volume"
)

// RiskPolicy selects the risk classifier.
type RiskPolicy string

const (
	RiskCompetitorOnly RiskPolicy = "competitor_only"
	RiskNetProfitGated RiskPolicy = "net_profit_gated"
)

// WeightStrategy selects the scoring weight set.
type WeightStrategy string

const (
	// StrategyFourFactor falls back to three factors for districts without density.
	StrategyFourFactor  WeightStrategy = "four_factor"
	StrategyThreeFactor WeightStrategy = "three_factor"
)

// RevenueSource selects what fills the revenue component.
type RevenueSource string

const (
	RevenueProjected             RevenueSource = "projected_revenue"
	RevenueDemandCompetitorRatio RevenueSource = "demand_competitor_ratio"
)

// Selection is the set of strategies for one scoring call.
type Selection struct {
	CompetitorPolicy CompetitorPolicy `json:"competitorPolicy"`
	RiskPolicy       RiskPolicy       `json:"riskPolicy"`
	Strategy         WeightStrategy   `json:"strategy"`
	RevenueSource    RevenueSource    `json:"revenueSource"`
}

// DefaultSelection returns the canonical strategies.
func DefaultSelection() Selection {
	return Selection{
		CompetitorPolicy: CompetitorNameKeyed,
		RiskPolicy:       RiskCompetitorOnly,
		Strategy:         StrategyFourFactor,
		RevenueSource:    RevenueProjected,
	}
}

// withDefaults fills empty fields with the canonical strategies.
func (s Selection) withDefaults() Selection {
	d := DefaultSelection()
	if s.CompetitorPolicy == "" {
		s.CompetitorPolicy = d.CompetitorPolicy
	}
	if s.RiskPolicy == "" {
		s.RiskPolicy = d.RiskPolicy
	}
	if s.Strategy == "" {
		s.Strategy = d.Strategy
	}
	if s.RevenueSource == "" {
		s.RevenueSource = d.RevenueSource
	}
	return s
}

// ParseSelection validates strategy names; empty names take the defaults.
func ParseSelection(competitor, risk, strategy, revenue string) (Selection, error) {
	s := Selection{
		CompetitorPolicy: CompetitorPolicy(competitor),
		RiskPolicy:       RiskPolicy(risk),
		Strategy:         WeightStrategy(strategy),
		RevenueSource:    RevenueSource(revenue),
	}.withDefaults()
	switch s.CompetitorPolicy {
	case CompetitorNameKeyed, CompetitorLegacyVolume:
	default:
		return Selection{}, fmt.Errorf("unknown competitor policy %q", competitor)
	}
	switch s.RiskPolicy {
	case RiskCompetitorOnly, RiskNetProfitGated:
	default:
		return Selection{}, fmt.Errorf("unknown risk policy %q", risk)
	}
	switch s.Strategy {
	case StrategyFourFactor, StrategyThreeFactor:
	default:
		return Selection{}, fmt.Errorf("unknown weight strategy %q", strategy)
	}
	switch s.RevenueSource {
	case RevenueProjected, RevenueDemandCompetitorRatio:
	default:
		return Selection{}, fmt.Errorf("unknown revenue source %q", revenue)
	}
	return s, nil
}
