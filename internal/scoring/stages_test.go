// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Unit tests for the per-district pipeline stages.

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectCompetitorsNameKeyed(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name  string
		known int
		want  int
	}{
		{"Konak", 2, 12},
		{"Karşıyaka", 3, 24},
		{"Buca", 1, 5},
		{"Gaziemir", 2, 8},
		{"  konak ", 1, 6},
		{"KARŞIYAKA", 1, 8},
		{"KONAK", 1, 6},
		{"BUCA", 1, 5},
		{"Konak", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CorrectCompetitors(CompetitorNameKeyed, tt.name, tt.known, 0))
		})
	}
}

func TestCompetitorMultiplierFoldsTurkishCase(t *testing.T) {
	p := DefaultParams()
	p.CompetitorMultipliers = map[string]float64{"KARŞIYAKA": 8, "Işıklar": 3}
	assert.Equal(t, 8.0, p.CompetitorMultiplier(CompetitorNameKeyed, "karşıyaka", 0))
	assert.Equal(t, 3.0, p.CompetitorMultiplier(CompetitorNameKeyed, "IŞIKLAR", 0))
	assert.Equal(t, 8.0, p.CompetitorMultiplier(CompetitorLegacyVolume, "KARŞIYAKA", 0))
	assert.True(t, p.IsCentral(District{Name: "KARŞIYAKA"}))

	// Config loaders lowercase keys without Turkish rules.
	p.CompetitorMultipliers = map[string]float64{"karşiyaka": 9}
	assert.Equal(t, 9.0, p.CompetitorMultiplier(CompetitorNameKeyed, "Karşıyaka", 0))
	assert.Equal(t, 9.0, p.CompetitorMultiplier(CompetitorNameKeyed, "KARŞIYAKA", 0))
}

func TestCorrectCompetitorsDeterministic(t *testing.T) {
	p := DefaultParams()
	first := p.CorrectCompetitors(CompetitorNameKeyed, "Konak", 2, 10)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, p.CorrectCompetitors(CompetitorNameKeyed, "Konak", 2, 10))
	}
}

func TestCorrectCompetitorsLegacyVolume(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 16, p.CorrectCompetitors(CompetitorLegacyVolume, "Bornova", 2, 10))
	assert.Equal(t, 10, p.CorrectCompetitors(CompetitorLegacyVolume, "Buca", 2, 50))
	assert.Equal(t, 6, p.CorrectCompetitors(CompetitorLegacyVolume, "Buca", 2, 49.9))
}

func TestCompetitorMultiplierRounds(t *testing.T) {
	p := DefaultParams()
	p.CompetitorMultipliers = map[string]float64{"torbalı": 2.5}
	assert.Equal(t, 8, p.CorrectCompetitors(CompetitorNameKeyed, "Torbalı", 3, 0))
}

func TestClassifyTier(t *testing.T) {
	p := DefaultParams()

	tier, spec := p.ClassifyTier(District{Name: "Konak"}, 50)
	assert.Equal(t, TierCentral, tier)
	assert.Equal(t, 600, TierAdjustedDemand(spec, 50))

	tier, spec = p.ClassifyTier(District{Name: "Elsewhere", IsCentral: true}, 100)
	assert.Equal(t, TierCentral, tier)
	assert.Equal(t, 800, TierAdjustedDemand(spec, 100))

	tier, spec = p.ClassifyTier(District{Name: "Buca"}, 50)
	assert.Equal(t, TierMidVolume, tier)
	assert.Equal(t, 400, TierAdjustedDemand(spec, 50))
	assert.Equal(t, 500, TierAdjustedDemand(spec, 100))

	tier, spec = p.ClassifyTier(District{Name: "Buca"}, 49)
	assert.Equal(t, TierLowVolume, tier)
	assert.Equal(t, 250, TierAdjustedDemand(spec, 49))
	assert.Equal(t, 300, TierAdjustedDemand(spec, 100))
}

func TestAverageMonthlyAppointmentsGuardsMonths(t *testing.T) {
	assert.Equal(t, 50.0, AverageMonthlyAppointments(RawMetrics{AppointmentCount: 50, DistinctMonthCount: 0}))
	assert.Equal(t, 25.0, AverageMonthlyAppointments(RawMetrics{AppointmentCount: 50, DistinctMonthCount: 2}))
}

func TestMarketShareBands(t *testing.T) {
	p := DefaultParams()
	cases := map[int]float64{0: 0.35, 1: 0.35, 2: 0.25, 3: 0.25, 4: 0.15, 5: 0.15, 6: 0.08, 40: 0.08}
	for corrected, want := range cases {
		assert.Equal(t, want, p.MarketShare(corrected), "corrected=%d", corrected)
	}
}

func TestAverageVisits(t *testing.T) {
	assert.InDelta(t, 1.90, DefaultParams().AverageVisits(), 1e-9)
}

func TestProjectSegmentExample(t *testing.T) {
	p := DefaultParams()
	proj := p.Project(320, 0.25)
	assert.Equal(t, 80, proj.ProjectedMonthlyCustomers)
	assert.Equal(t, 152, proj.ProjectedMonthlyAppointments)
	assert.Equal(t, 228000.0, proj.ProjectedMonthlyRevenue)
	assert.Equal(t, 130000.0, proj.MonthlyFixedCost)
	assert.Equal(t, 98000.0, proj.NetMonthlyProfit)
	assert.Equal(t, 98000.0*12, proj.AnnualProfit)
	require.NotNil(t, proj.ROIPercent)
	assert.InDelta(t, 75.3846, *proj.ROIPercent, 1e-3)
	require.NotNil(t, proj.PaybackMonths)
	assert.Equal(t, 8, *proj.PaybackMonths)
}

func TestProjectZeroProfitHasNoPayback(t *testing.T) {
	p := DefaultParams()
	p.Finance = FinanceParams{AverageServicePrice: 1000, Rent: 152000, InitialInvestment: 500000}
	proj := p.Project(320, 0.25)
	assert.Equal(t, 0.0, proj.NetMonthlyProfit)
	assert.Nil(t, proj.PaybackMonths)
	require.NotNil(t, proj.ROIPercent)
	assert.Equal(t, 0.0, *proj.ROIPercent)
}

func TestProjectLossHasNoPayback(t *testing.T) {
	proj := DefaultParams().Project(250, 0.08)
	assert.Less(t, proj.NetMonthlyProfit, 0.0)
	assert.Nil(t, proj.PaybackMonths)
}

func TestProjectZeroCostHasNoROI(t *testing.T) {
	p := DefaultParams()
	p.Finance = FinanceParams{AverageServicePrice: 1500}
	proj := p.Project(400, 0.35)
	assert.Nil(t, proj.ROIPercent)
	require.NotNil(t, proj.PaybackMonths)
	assert.Equal(t, 0, *proj.PaybackMonths)
}

func TestClassifyRiskCompetitorOnly(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		corrected int
		want      RiskLevel
	}{
		{0, RiskLow}, {2, RiskLow}, {3, RiskMedium}, {10, RiskMedium},
		{11, RiskMediumHigh}, {12, RiskMediumHigh}, {15, RiskMediumHigh}, {16, RiskHigh},
	}
	for _, c := range cases {
		level, score := p.ClassifyRisk(RiskCompetitorOnly, RiskInput{CorrectedCompetitors: c.corrected})
		assert.Equal(t, c.want, level, "corrected=%d", c.corrected)
		assert.Nil(t, score)
	}
}

func TestKonakExample(t *testing.T) {
	p := DefaultParams()
	corrected := p.CorrectCompetitors(CompetitorNameKeyed, "Konak", 2, 0)
	require.Equal(t, 12, corrected)
	level, _ := p.ClassifyRisk(RiskCompetitorOnly, RiskInput{CorrectedCompetitors: corrected})
	assert.Equal(t, RiskMediumHigh, level)
	assert.Equal(t, 0.85, p.RiskMultiplier(level))
}

func TestClassifyRiskNetProfitGated(t *testing.T) {
	p := DefaultParams()

	level, score := p.ClassifyRisk(RiskNetProfitGated, RiskInput{CorrectedCompetitors: 0, NetMonthlyProfit: -1, RawScore: 100})
	assert.Equal(t, RiskHigh, level)
	assert.Nil(t, score)

	// (100-90) + 2*5 - 100000/10000 = 10
	level, score = p.ClassifyRisk(RiskNetProfitGated, RiskInput{CorrectedCompetitors: 2, NetMonthlyProfit: 100000, RawScore: 90})
	assert.Equal(t, RiskLow, level)
	require.NotNil(t, score)
	assert.InDelta(t, 10, *score, 1e-9)

	// (100-50) + 2*5 - 0 = 60
	level, _ = p.ClassifyRisk(RiskNetProfitGated, RiskInput{CorrectedCompetitors: 2, RawScore: 50})
	assert.Equal(t, RiskMedium, level)

	level, _ = p.ClassifyRisk(RiskNetProfitGated, RiskInput{CorrectedCompetitors: 12, RawScore: 40})
	assert.Equal(t, RiskHigh, level)
}

func TestRiskMultiplierMonotonic(t *testing.T) {
	p := DefaultParams()
	for i := 1; i < len(RiskLevels); i++ {
		better, worse := RiskLevels[i-1], RiskLevels[i]
		assert.Less(t, better.Severity(), worse.Severity())
		assert.GreaterOrEqual(t, p.RiskMultiplier(better), p.RiskMultiplier(worse))
	}
}
