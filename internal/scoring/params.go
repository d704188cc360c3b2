// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Engine parameters: every table and constant the pipeline reads.

package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TierSpec is the growth multiplier and demand floor of a tier.
type TierSpec struct {
	GrowthMultiplier float64 `mapstructure:"growth_multiplier" json:"growthMultiplier"`
	DemandFloor      int     `mapstructure:"demand_floor" json:"demandFloor"`
}

// TierParams configures the tier classifier.
type TierParams struct {
	Central                  TierSpec `mapstructure:"central" json:"central"`
	MidVolume                TierSpec `mapstructure:"mid_volume" json:"midVolume"`
	LowVolume                TierSpec `mapstructure:"low_volume" json:"lowVolume"`
	MidVolumeMinAppointments float64  `mapstructure:"mid_volume_min_appointments" json:"midVolumeMinAppointments"`
}

// LegacyCompetitorTable is the volume-gated competitor correction table.
type LegacyCompetitorTable struct {
	Districts            []string `mapstructure:"districts" json:"districts"`
	NamedMultiplier      float64  `mapstructure:"named_multiplier" json:"namedMultiplier"`
	VolumeThreshold      float64  `mapstructure:"volume_threshold" json:"volumeThreshold"`
	HighVolumeMultiplier float64  `mapstructure:"high_volume_multiplier" json:"highVolumeMultiplier"`
	LowVolumeMultiplier  float64  `mapstructure:"low_volume_multiplier" json:"lowVolumeMultiplier"`
}

// ShareBand maps corrected competitor counts up to MaxCompetitors to a share.
type ShareBand struct {
	MaxCompetitors int     `mapstructure:"max_competitors" json:"maxCompetitors"`
	Share          float64 `mapstructure:"share" json:"share"`
}

// Segment is one customer segment of the visit mix.
type Segment struct {
	Name   string  `mapstructure:"name" json:"name"`
	Share  float64 `mapstructure:"share" json:"share"`
	Visits float64 `mapstructure:"visits" json:"visits"`
}

// FinanceParams are the price and cost assumptions.
type FinanceParams struct {
	AverageServicePrice float64 `mapstructure:"average_service_price" json:"averageServicePrice"`
	StaffCount          int     `mapstructure:"staff_count" json:"staffCount"`
	StaffSalary         float64 `mapstructure:"staff_salary" json:"staffSalary"`
	Rent                float64 `mapstructure:"rent" json:"rent"`
	OtherFixedCosts     float64 `mapstructure:"other_fixed_costs" json:"otherFixedCosts"`
	InitialInvestment   float64 `mapstructure:"initial_investment" json:"initialInvestment"`
}

// CompetitorRiskThresholds are the upper bounds of the competitor-only policy.
type CompetitorRiskThresholds struct {
	LowMax        int `mapstructure:"low_max" json:"lowMax"`
	MediumMax     int `mapstructure:"medium_max" json:"mediumMax"`
	MediumHighMax int `mapstructure:"medium_high_max" json:"mediumHighMax"`
}

// GatedRiskParams configure the net-profit-gated policy.
type GatedRiskParams struct {
	CompetitorWeight float64 `mapstructure:"competitor_weight" json:"competitorWeight"`
	ProfitDivisor    float64 `mapstructure:"profit_divisor" json:"profitDivisor"`
	LowMax           float64 `mapstructure:"low_max" json:"lowMax"`
	MediumMax        float64 `mapstructure:"medium_max" json:"mediumMax"`
}

// RiskMultipliers are the score penalties per level.
type RiskMultipliers struct {
	Low        float64 `mapstructure:"low" json:"low"`
	Medium     float64 `mapstructure:"medium" json:"medium"`
	MediumHigh float64 `mapstructure:"medium_high" json:"mediumHigh"`
	High       float64 `mapstructure:"high" json:"high"`
}

// RiskParams groups both risk policies and the penalty table.
type RiskParams struct {
	CompetitorOnly CompetitorRiskThresholds `mapstructure:"competitor_only" json:"competitorOnly"`
	NetProfitGated GatedRiskParams          `mapstructure:"net_profit_gated" json:"netProfitGated"`
	Multipliers    RiskMultipliers          `mapstructure:"multipliers" json:"multipliers"`
}

// SmallMarketGuard caps scores of low-volume districts.
type SmallMarketGuard struct {
	DemandThreshold int `mapstructure:"demand_threshold" json:"demandThreshold"`
	ScoreCap        int `mapstructure:"score_cap" json:"scoreCap"`
}

// WeightSet is the relative importance of each score component.
type WeightSet struct {
	Demand              float64 `mapstructure:"demand" json:"demand"`
	Revenue             float64 `mapstructure:"revenue" json:"revenue"`
	PopulationDensity   float64 `mapstructure:"population_density" json:"populationDensity"`
	CompetitorAdvantage float64 `mapstructure:"competitor_advantage" json:"competitorAdvantage"`
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Demand + w.Revenue + w.PopulationDensity + w.CompetitorAdvantage
}

// Renormalized scales the weights so that they sum to 1.
func (w WeightSet) Renormalized() WeightSet {
	s := w.Sum()
	if s <= 0 {
		return w
	}
	return WeightSet{
		Demand:              w.Demand / s,
		Revenue:             w.Revenue / s,
		PopulationDensity:   w.PopulationDensity / s,
		CompetitorAdvantage: w.CompetitorAdvantage / s,
	}
}

// WeightParams holds the two named weight sets.
type WeightParams struct {
	FourFactor  WeightSet `mapstructure:"four_factor" json:"fourFactor"`
	ThreeFactor WeightSet `mapstructure:"three_factor" json:"threeFactor"`
}

// Params is the complete engine configuration.
type Params struct {
	CompetitorMultipliers       map[string]float64    `mapstructure:"competitor_multipliers" json:"competitorMultipliers"`
	DefaultCompetitorMultiplier float64               `mapstructure:"default_competitor_multiplier" json:"defaultCompetitorMultiplier"`
	LegacyCompetitor            LegacyCompetitorTable `mapstructure:"legacy_competitor" json:"legacyCompetitor"`
	CentralDistricts            []string              `mapstructure:"central_districts" json:"centralDistricts"`
	Tiers                       TierParams            `mapstructure:"tiers" json:"tiers"`
	MarketShareBands            []ShareBand           `mapstructure:"market_share_bands" json:"marketShareBands"`
	OverflowMarketShare         float64               `mapstructure:"overflow_market_share" json:"overflowMarketShare"`
	Segments                    []Segment             `mapstructure:"segments" json:"segments"`
	Finance                     FinanceParams         `mapstructure:"finance" json:"finance"`
	Risk                        RiskParams            `mapstructure:"risk" json:"risk"`
	SmallMarket                 SmallMarketGuard      `mapstructure:"small_market" json:"smallMarket"`
	Weights                     WeightParams          `mapstructure:"weights" json:"weights"`
}

// DefaultParams returns the production tables.
func DefaultParams() Params {
	return Params{
		CompetitorMultipliers: map[string]float64{
			"karşıyaka": 8,
			"buca":      5,
			"konak":     6,
		},
		DefaultCompetitorMultiplier: 4,
		LegacyCompetitor: LegacyCompetitorTable{
			Districts:            []string{"Bornova", "Karşıyaka", "Konak"},
			NamedMultiplier:      8,
			VolumeThreshold:      50,
			HighVolumeMultiplier: 5,
			LowVolumeMultiplier:  3,
		},
		CentralDistricts: []string{"Bornova", "Karşıyaka", "Konak"},
		Tiers: TierParams{
			Central:                  TierSpec{GrowthMultiplier: 8, DemandFloor: 600},
			MidVolume:                TierSpec{GrowthMultiplier: 5, DemandFloor: 400},
			LowVolume:                TierSpec{GrowthMultiplier: 3, DemandFloor: 250},
			MidVolumeMinAppointments: 50,
		},
		MarketShareBands: []ShareBand{
			{MaxCompetitors: 1, Share: 0.35},
			{MaxCompetitors: 3, Share: 0.25},
			{MaxCompetitors: 5, Share: 0.15},
		},
		OverflowMarketShare: 0.08,
		Segments: []Segment{
			{Name: "single_visit", Share: 0.40, Visits: 1},
			{Name: "two_visits", Share: 0.35, Visits: 2},
			{Name: "three_visits", Share: 0.20, Visits: 3},
			{Name: "four_visits", Share: 0.05, Visits: 4},
		},
		Finance: FinanceParams{
			AverageServicePrice: 1500,
			StaffCount:          3,
			StaffSalary:         25000,
			Rent:                40000,
			OtherFixedCosts:     15000,
			InitialInvestment:   750000,
		},
		Risk: RiskParams{
			CompetitorOnly: CompetitorRiskThresholds{LowMax: 2, MediumMax: 10, MediumHighMax: 15},
			NetProfitGated: GatedRiskParams{CompetitorWeight: 5, ProfitDivisor: 10000, LowMax: 30, MediumMax: 60},
			Multipliers:    RiskMultipliers{Low: 1.0, Medium: 0.85, MediumHigh: 0.85, High: 0.65},
		},
		SmallMarket: SmallMarketGuard{DemandThreshold: 250, ScoreCap: 70},
		Weights: WeightParams{
			FourFactor:  WeightSet{Demand: 0.45, Revenue: 0.30, PopulationDensity: 0.125, CompetitorAdvantage: 0.125},
			ThreeFactor: WeightSet{Demand: 45, Revenue: 30, CompetitorAdvantage: 15},
		},
	}
}

// AverageVisits is the segment-weighted visit count per customer.
func (p Params) AverageVisits() float64 {
	total := 0.0
	for _, s := range p.Segments {
		total += s.Share * s.Visits
	}
	return total
}

// MonthlyFixedCost is staff plus rent plus other fixed costs.
func (p Params) MonthlyFixedCost() float64 {
	f := p.Finance
	return float64(f.StaffCount)*f.StaffSalary + f.Rent + f.OtherFixedCosts
}

// Validate rejects parameter sets the pipeline cannot apply consistently.
func (p Params) Validate() error {
	var errs []error
	for _, f := range p.floatFields() {
		if !finite(f.value) {
			errs = append(errs, fmt.Errorf("%s must be finite", f.name))
		}
	}
	if p.DefaultCompetitorMultiplier <= 0 {
		errs = append(errs, errors.New("default_competitor_multiplier must be > 0"))
	}
	for name, m := range p.CompetitorMultipliers {
		if m <= 0 {
			errs = append(errs, fmt.Errorf("competitor_multipliers[%s] must be > 0", name))
		}
	}
	for _, t := range []struct {
		name string
		spec TierSpec
	}{{"central", p.Tiers.Central}, {"mid_volume", p.Tiers.MidVolume}, {"low_volume", p.Tiers.LowVolume}} {
		if t.spec.GrowthMultiplier <= 0 {
			errs = append(errs, fmt.Errorf("tiers.%s.growth_multiplier must be > 0", t.name))
		}
		if t.spec.DemandFloor < 0 {
			errs = append(errs, fmt.Errorf("tiers.%s.demand_floor must be >= 0", t.name))
		}
	}
	prev := -1
	for i, b := range p.MarketShareBands {
		if b.MaxCompetitors <= prev {
			errs = append(errs, fmt.Errorf("market_share_bands[%d].max_competitors must be ascending", i))
		}
		if !(b.Share >= 0 && b.Share <= 1) {
			errs = append(errs, fmt.Errorf("market_share_bands[%d].share must be in [0,1]", i))
		}
		prev = b.MaxCompetitors
	}
	if !(p.OverflowMarketShare >= 0 && p.OverflowMarketShare <= 1) {
		errs = append(errs, errors.New("overflow_market_share must be in [0,1]"))
	}
	if len(p.Segments) == 0 {
		errs = append(errs, errors.New("segments must not be empty"))
	}
	shares := 0.0
	for i, s := range p.Segments {
		if !(s.Share >= 0) {
			errs = append(errs, fmt.Errorf("segments[%d].share must be >= 0", i))
		}
		if !(s.Visits >= 0) {
			errs = append(errs, fmt.Errorf("segments[%d].visits must be >= 0", i))
		}
		shares += s.Share
	}
	if len(p.Segments) > 0 && !(math.Abs(shares-1) <= 0.001) {
		errs = append(errs, fmt.Errorf("segment shares must sum to 1, got %.4f", shares))
	}
	f := p.Finance
	if !(f.AverageServicePrice >= 0 && f.StaffSalary >= 0 && f.Rent >= 0 && f.OtherFixedCosts >= 0 && f.InitialInvestment >= 0) || f.StaffCount < 0 {
		errs = append(errs, errors.New("finance values must be >= 0"))
	}
	th := p.Risk.CompetitorOnly
	if !(th.LowMax <= th.MediumMax && th.MediumMax <= th.MediumHighMax) {
		errs = append(errs, errors.New("risk.competitor_only thresholds must be non-decreasing"))
	}
	g := p.Risk.NetProfitGated
	if !(g.LowMax <= g.MediumMax) {
		errs = append(errs, errors.New("risk.net_profit_gated low_max must be <= medium_max"))
	}
	if !(g.ProfitDivisor > 0) {
		errs = append(errs, errors.New("risk.net_profit_gated.profit_divisor must be > 0"))
	}
	m := p.Risk.Multipliers
	if !(m.Low >= m.Medium && m.Medium >= m.MediumHigh && m.MediumHigh >= m.High) {
		errs = append(errs, errors.New("risk.multipliers must be non-increasing from low to high"))
	}
	if !(m.High >= 0 && m.Low <= 1) {
		errs = append(errs, errors.New("risk.multipliers must be in [0,1]"))
	}
	if p.SmallMarket.ScoreCap < 0 || p.SmallMarket.ScoreCap > 100 {
		errs = append(errs, errors.New("small_market.score_cap must be in [0,100]"))
	}
	for _, w := range []struct {
		name string
		set  WeightSet
	}{{"four_factor", p.Weights.FourFactor}, {"three_factor", p.Weights.ThreeFactor}} {
		if !(w.set.Demand >= 0 && w.set.Revenue >= 0 && w.set.PopulationDensity >= 0 && w.set.CompetitorAdvantage >= 0) {
			errs = append(errs, fmt.Errorf("weights.%s must not be negative", w.name))
		}
	}
	if !(math.Abs(p.Weights.FourFactor.Sum()-1) <= 0.001) {
		errs = append(errs, fmt.Errorf("weights.four_factor must sum to 1, got %.4f", p.Weights.FourFactor.Sum()))
	}
	if !(p.Weights.ThreeFactor.Sum() > 0) {
		errs = append(errs, errors.New("weights.three_factor must have a positive sum"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("scoring params: %w", errors.Join(errs...))
	}
	return nil
}

type floatField struct {
	name  string
	value float64
}

// floatFields lists every float the pipeline multiplies, divides or compares.
func (p Params) floatFields() []floatField {
	fields := []floatField{
		{"default_competitor_multiplier", p.DefaultCompetitorMultiplier},
		{"legacy_competitor.named_multiplier", p.LegacyCompetitor.NamedMultiplier},
		{"legacy_competitor.volume_threshold", p.LegacyCompetitor.VolumeThreshold},
		{"legacy_competitor.high_volume_multiplier", p.LegacyCompetitor.HighVolumeMultiplier},
		{"legacy_competitor.low_volume_multiplier", p.LegacyCompetitor.LowVolumeMultiplier},
		{"tiers.central.growth_multiplier", p.Tiers.Central.GrowthMultiplier},
		{"tiers.mid_volume.growth_multiplier", p.Tiers.MidVolume.GrowthMultiplier},
		{"tiers.low_volume.growth_multiplier", p.Tiers.LowVolume.GrowthMultiplier},
		{"tiers.mid_volume_min_appointments", p.Tiers.MidVolumeMinAppointments},
		{"overflow_market_share", p.OverflowMarketShare},
		{"finance.average_service_price", p.Finance.AverageServicePrice},
		{"finance.staff_salary", p.Finance.StaffSalary},
		{"finance.rent", p.Finance.Rent},
		{"finance.other_fixed_costs", p.Finance.OtherFixedCosts},
		{"finance.initial_investment", p.Finance.InitialInvestment},
		{"risk.net_profit_gated.competitor_weight", p.Risk.NetProfitGated.CompetitorWeight},
		{"risk.net_profit_gated.profit_divisor", p.Risk.NetProfitGated.ProfitDivisor},
		{"risk.net_profit_gated.low_max", p.Risk.NetProfitGated.LowMax},
		{"risk.net_profit_gated.medium_max", p.Risk.NetProfitGated.MediumMax},
		{"risk.multipliers.low", p.Risk.Multipliers.Low},
		{"risk.multipliers.medium", p.Risk.Multipliers.Medium},
		{"risk.multipliers.medium_high", p.Risk.Multipliers.MediumHigh},
		{"risk.multipliers.high", p.Risk.Multipliers.High},
	}
	for _, w := range []struct {
		name string
		set  WeightSet
	}{{"four_factor", p.Weights.FourFactor}, {"three_factor", p.Weights.ThreeFactor}} {
		fields = append(fields,
			floatField{"weights." + w.name + ".demand", w.set.Demand},
			floatField{"weights." + w.name + ".revenue", w.set.Revenue},
			floatField{"weights." + w.name + ".population_density", w.set.PopulationDensity},
			floatField{"weights." + w.name + ".competitor_advantage", w.set.CompetitorAdvantage},
		)
	}
	for name, m := range p.CompetitorMultipliers {
		fields = append(fields, floatField{"competitor_multipliers[" + name + "]", m})
	}
	for i, b := range p.MarketShareBands {
		fields = append(fields, floatField{fmt.Sprintf("market_share_bands[%d].share", i), b.Share})
	}
	for i, s := range p.Segments {
		fields = append(fields,
			floatField{fmt.Sprintf("segments[%d].share", i), s.Share},
			floatField{fmt.Sprintf("segments[%d].visits", i), s.Visits},
		)
	}
	return fields
}

// normalizeName folds a district name for table lookups. It lowercases with
// Turkish rules and then merges dotless ı into i, so the same name matches
// whether it was lowercased with Turkish or with Unicode default casing.
func normalizeName(name string) string {
	folded := cases.Lower(language.Turkish).String(strings.TrimSpace(name))
	return strings.ReplaceAll(folded, "ı", "i")
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
