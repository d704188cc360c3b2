// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Type definitions for the district suitability engine.

package scoring

// District identifies a geographic unit being ranked.
type District struct {
	ID                int64    `json:"districtId" validate:"gt=0"`
	Name              string   `json:"districtName" validate:"required"`
	IsCentral         bool     `json:"isCentral"`
	InAnalysisScope   bool     `json:"inAnalysisScope"`
	PopulationDensity *float64 `json:"populationDensity" validate:"omitempty,gte=0"`
}

// RawMetrics are the per-window aggregates supplied by the metric provider.
type RawMetrics struct {
	AppointmentCount     int     `json:"appointmentCount" validate:"gte=0"`
	DistinctMonthCount   int     `json:"distinctMonthCount" validate:"gte=1"`
	CustomerCount        int     `json:"customerCount" validate:"gte=0"`
	KnownCompetitorCount int     `json:"knownCompetitorCount" validate:"gte=0"`
	MonthlyExpenseTotal  float64 `json:"monthlyExpenseTotal" validate:"gte=0"`
}

// Observation is one flat provider record: a district and its raw metrics.
type Observation struct {
	District
	RawMetrics
}

// Tier is the demand/centrality class of a district.
type Tier string

const (
	TierCentral   Tier = "central"
	TierMidVolume Tier = "mid_volume"
	TierLowVolume Tier = "low_volume"
)

// RiskLevel is an ordered risk class. Use Severity for ordering.
type RiskLevel string

const (
	RiskLow        RiskLevel = "low"
	RiskMedium     RiskLevel = "medium"
	RiskMediumHigh RiskLevel = "medium_high"
	RiskHigh       RiskLevel = "high"
)

// RiskLevels lists every level from best to worst.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskMediumHigh, RiskHigh}

// Severity returns the fixed position of the level, 0 (low) to 3 (high).
// Unknown levels are treated as high.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskMediumHigh:
		return 2
	default:
		return 3
	}
}

// Projection holds the demand and financial figures for one district.
type Projection struct {
	TierAdjustedDemand           int      `json:"tierAdjustedDemand"`
	MarketShare                  float64  `json:"marketShare"`
	ProjectedMonthlyCustomers    int      `json:"projectedMonthlyCustomers"`
	ProjectedMonthlyAppointments int      `json:"projectedMonthlyAppointments"`
	ProjectedMonthlyRevenue      float64  `json:"projectedMonthlyRevenue"`
	MonthlyFixedCost             float64  `json:"monthlyFixedCost"`
	NetMonthlyProfit             float64  `json:"netMonthlyProfit"`
	AnnualRevenue                float64  `json:"annualRevenue"`
	AnnualCost                   float64  `json:"annualCost"`
	AnnualProfit                 float64  `json:"annualProfit"`
	ROIPercent                   *float64 `json:"roiPercent"`
	PaybackMonths                *int     `json:"paybackMonths"`
}

// Breakdown explains how a suitability score was built.
type Breakdown struct {
	Strategy            WeightStrategy `json:"strategy"`
	Weights             WeightSet      `json:"weights"`
	DemandNorm          float64        `json:"demandNorm"`
	RevenueNorm         float64        `json:"revenueNorm"`
	DensityNorm         *float64       `json:"densityNorm"`
	CompetitorAdvantage float64        `json:"competitorAdvantage"`
	RawScore            float64        `json:"rawScore"`
	RiskMultiplier      float64        `json:"riskMultiplier"`
	PenalizedScore      float64        `json:"penalizedScore"`
	SmallMarketCapped   bool           `json:"smallMarketCapped"`
	RiskScore           *float64       `json:"riskScore,omitempty"`
}

// DistrictScore is the engine output for a single district.
type DistrictScore struct {
	DistrictID           int64     `json:"districtId"`
	DistrictName         string    `json:"districtName"`
	InAnalysisScope      bool      `json:"inAnalysisScope"`
	Tier                 Tier      `json:"tier"`
	CorrectedCompetitors int       `json:"correctedCompetitors"`
	RiskLevel            RiskLevel `json:"riskLevel"`
	AvgMonthlyExpense    float64   `json:"avgMonthlyExpense"`

	TierAdjustedDemand           int      `json:"tierAdjustedDemand"`
	MarketShare                  float64  `json:"marketShare"`
	ProjectedMonthlyCustomers    int      `json:"projectedMonthlyCustomers"`
	ProjectedMonthlyAppointments int      `json:"projectedMonthlyAppointments"`
	ProjectedMonthlyRevenue      float64  `json:"projectedMonthlyRevenue"`
	MonthlyFixedCost             float64  `json:"monthlyFixedCost"`
	NetMonthlyProfit             float64  `json:"netMonthlyProfit"`
	AnnualRevenue                float64  `json:"annualRevenue"`
	AnnualCost                   float64  `json:"annualCost"`
	AnnualProfit                 float64  `json:"annualProfit"`
	ROIPercent                   *float64 `json:"roiPercent"`
	PaybackMonths                *int     `json:"paybackMonths"`

	SuitabilityScore *int       `json:"suitabilityScore"`
	Rank             int        `json:"rank,omitempty"`
	Breakdown        *Breakdown `json:"breakdown,omitempty"`
}

func (d *DistrictScore) applyProjection(p Projection) {
	d.TierAdjustedDemand = p.TierAdjustedDemand
	d.MarketShare = p.MarketShare
	d.ProjectedMonthlyCustomers = p.ProjectedMonthlyCustomers
	d.ProjectedMonthlyAppointments = p.ProjectedMonthlyAppointments
	d.ProjectedMonthlyRevenue = p.ProjectedMonthlyRevenue
	d.MonthlyFixedCost = p.MonthlyFixedCost
	d.NetMonthlyProfit = p.NetMonthlyProfit
	d.AnnualRevenue = p.AnnualRevenue
	d.AnnualCost = p.AnnualCost
	d.AnnualProfit = p.AnnualProfit
	d.ROIPercent = p.ROIPercent
	d.PaybackMonths = p.PaybackMonths
}

// Ranked is one entry of the ranking.
type Ranked struct {
	Rank             int       `json:"rank"`
	DistrictID       int64     `json:"districtId"`
	DistrictName     string    `json:"districtName"`
	SuitabilityScore int       `json:"suitabilityScore"`
	RiskLevel        RiskLevel `json:"riskLevel"`
}

// Maxima are the clamped normalization denominators of a run.
type Maxima struct {
	Demand      float64 `json:"demand"`
	Revenue     float64 `json:"revenue"`
	Density     float64 `json:"density"`
	Competitors float64 `json:"competitors"`
}

// Summary aggregates a run.
type Summary struct {
	Districts         int `json:"districts"`
	Candidates        int `json:"candidates"`
	OutOfScope        int `json:"outOfScope"`
	SmallMarketCapped int `json:"smallMarketCapped"`
}

// Report is the full engine output for one snapshot.
type Report struct {
	Selection Selection       `json:"selection"`
	Maxima    Maxima          `json:"maxima"`
	Summary   Summary         `json:"summary"`
	Ranking   []Ranked        `json:"ranking"`
	Results   []DistrictScore `json:"results"`
}
