// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Cross-candidate normalization, weighting and ranking.

package scoring

import (
	"math"
	"sort"
)

// candidate is the per-district working state between pipeline stages.
type candidate struct {
	obs        Observation
	corrected  int
	projection Projection
	// revenueValue fills the revenue component for the selected source.
	revenueValue float64
}

func computeMaxima(cands []candidate) Maxima {
	var m Maxima
	for _, c := range cands {
		if !c.obs.InAnalysisScope {
			continue
		}
		m.Demand = math.Max(m.Demand, float64(c.projection.ProjectedMonthlyCustomers))
		m.Revenue = math.Max(m.Revenue, c.revenueValue)
		if c.obs.PopulationDensity != nil {
			m.Density = math.Max(m.Density, *c.obs.PopulationDensity)
		}
		m.Competitors = math.Max(m.Competitors, float64(c.corrected))
	}
	m.Demand = atLeastOne(m.Demand)
	m.Revenue = atLeastOne(m.Revenue)
	m.Density = atLeastOne(m.Density)
	m.Competitors = atLeastOne(m.Competitors)
	return m
}

// normalize divides by a clamped maximum and clamps the result to [0,1].
func normalize(v, max float64) float64 {
	return clamp(v/atLeastOne(max), 0, 1)
}

// weightsFor picks the weight set for a district. The four-factor set falls
// back to the renormalized three-factor set when density is unknown.
func (p Params) weightsFor(strategy WeightStrategy, hasDensity bool) (WeightStrategy, WeightSet) {
	if strategy == StrategyThreeFactor || !hasDensity {
		three := p.Weights.ThreeFactor
		three.PopulationDensity = 0
		return StrategyThreeFactor, three.Renormalized()
	}
	return StrategyFourFactor, p.Weights.FourFactor
}

// rawScore computes the weighted 0-100 score before the risk penalty.
func (p Params) rawScore(c candidate, m Maxima, strategy WeightStrategy) Breakdown {
	hasDensity := c.obs.PopulationDensity != nil
	used, w := p.weightsFor(strategy, hasDensity)
	b := Breakdown{
		Strategy:            used,
		Weights:             w,
		DemandNorm:          normalize(float64(c.projection.ProjectedMonthlyCustomers), m.Demand),
		RevenueNorm:         normalize(c.revenueValue, m.Revenue),
		CompetitorAdvantage: 1 - normalize(float64(c.corrected), m.Competitors),
	}
	sum := w.Demand*b.DemandNorm + w.Revenue*b.RevenueNorm + w.CompetitorAdvantage*b.CompetitorAdvantage
	if used == StrategyFourFactor {
		d := normalize(*c.obs.PopulationDensity, m.Density)
		b.DensityNorm = &d
		sum += w.PopulationDensity * d
	}
	b.RawScore = sum * 100
	return b
}

// finalScore applies the penalty, the small-market guard, rounding and clamping.
func (p Params) finalScore(b *Breakdown, appointments int) int {
	b.PenalizedScore = b.RawScore * b.RiskMultiplier
	score := b.PenalizedScore
	if appointments < p.SmallMarket.DemandThreshold && score > float64(p.SmallMarket.ScoreCap) {
		score = float64(p.SmallMarket.ScoreCap)
		b.SmallMarketCapped = true
	}
	return int(clamp(math.Round(score), 0, 100))
}

// Rank orders scored districts by descending score; ties keep input order.
// Districts without a score are left out.
func Rank(results []DistrictScore) []Ranked {
	order := rankOrder(results)
	ranked := make([]Ranked, 0, len(order))
	for pos, idx := range order {
		r := results[idx]
		ranked = append(ranked, Ranked{
			Rank:             pos + 1,
			DistrictID:       r.DistrictID,
			DistrictName:     r.DistrictName,
			SuitabilityScore: *r.SuitabilityScore,
			RiskLevel:        r.RiskLevel,
		})
	}
	return ranked
}

// rankOrder returns the indices of scored results in rank order.
func rankOrder(results []DistrictScore) []int {
	idx := make([]int, 0, len(results))
	for i, r := range results {
		if r.SuitabilityScore != nil {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return *results[idx[a]].SuitabilityScore > *results[idx[b]].SuitabilityScore
	})
	return idx
}

func atLeastOne(x float64) float64 {
	if x < 1 || !finite(x) {
		return 1
	}
	return x
}

func clamp(x, lo, hi float64) float64 {
	if x < lo || math.IsNaN(x) {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
