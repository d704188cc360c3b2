// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT

package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
}

func TestParamsValidateCollectsErrors(t *testing.T) {
	p := DefaultParams()
	p.DefaultCompetitorMultiplier = 0
	p.MarketShareBands = []ShareBand{{MaxCompetitors: 3, Share: 0.2}, {MaxCompetitors: 1, Share: 0.4}}
	p.Segments[0].Share = 0.9
	p.Risk.Multipliers.High = 1.5

	err := p.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "default_competitor_multiplier")
	assert.Contains(t, msg, "ascending")
	assert.Contains(t, msg, "segment shares")
	assert.Contains(t, msg, "non-increasing")
}

func TestParamsValidateRejectsNonFinite(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name   string
		mutate func(*Params)
		want   string
	}{
		{"nan four factor weight", func(p *Params) { p.Weights.FourFactor.Demand = nan }, "weights.four_factor.demand must be finite"},
		{"nan three factor weight", func(p *Params) { p.Weights.ThreeFactor.Revenue = nan }, "weights.three_factor.revenue must be finite"},
		{"negative weight", func(p *Params) {
			p.Weights.FourFactor.Demand = 0.7
			p.Weights.FourFactor.Revenue = -0.2
		}, "weights.four_factor must not be negative"},
		{"inf service price", func(p *Params) { p.Finance.AverageServicePrice = inf }, "finance.average_service_price must be finite"},
		{"nan rent", func(p *Params) { p.Finance.Rent = nan }, "finance.rent must be finite"},
		{"negative rent", func(p *Params) { p.Finance.Rent = -1 }, "finance values must be >= 0"},
		{"nan growth", func(p *Params) { p.Tiers.Central.GrowthMultiplier = nan }, "tiers.central.growth_multiplier must be finite"},
		{"nan band share", func(p *Params) { p.MarketShareBands[1].Share = nan }, "market_share_bands[1].share must be finite"},
		{"nan segment visits", func(p *Params) { p.Segments[2].Visits = nan }, "segments[2].visits must be finite"},
		{"nan risk multiplier", func(p *Params) { p.Risk.Multipliers.High = nan }, "risk.multipliers.high must be finite"},
		{"inf profit divisor", func(p *Params) { p.Risk.NetProfitGated.ProfitDivisor = inf }, "risk.net_profit_gated.profit_divisor must be finite"},
		{"nan competitor multiplier", func(p *Params) { p.CompetitorMultipliers["konak"] = nan }, "competitor_multipliers[konak] must be finite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWeightSetRenormalized(t *testing.T) {
	w := WeightSet{Demand: 45, Revenue: 30, CompetitorAdvantage: 15}.Renormalized()
	assert.InDelta(t, 0.5, w.Demand, 1e-9)
	assert.InDelta(t, 1.0/3, w.Revenue, 1e-9)
	assert.InDelta(t, 1.0/6, w.CompetitorAdvantage, 1e-9)

	zero := WeightSet{}
	assert.Equal(t, zero, zero.Renormalized())
}

func TestMonthlyFixedCost(t *testing.T) {
	assert.Equal(t, 130000.0, DefaultParams().MonthlyFixedCost())
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSelection(), sel)

	sel, err = ParseSelection("legacy_volume", "net_profit_gated", "three_factor", "demand_competitor_ratio")
	require.NoError(t, err)
	assert.Equal(t, Selection{
		CompetitorPolicy: CompetitorLegacyVolume,
		RiskPolicy:       RiskNetProfitGated,
		Strategy:         StrategyThreeFactor,
		RevenueSource:    RevenueDemandCompetitorRatio,
	}, sel)

	for _, bad := range [][4]string{
		{"nope", "", "", ""},
		{"", "nope", "", ""},
		{"", "", "nope", ""},
		{"", "", "", "nope"},
	} {
		_, err := ParseSelection(bad[0], bad[1], bad[2], bad[3])
		assert.Error(t, err, "%v", bad)
	}
}
