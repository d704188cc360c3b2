// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Engine runs the full pipeline over one snapshot of observations.

package scoring

// Engine scores district snapshots. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	params   Params
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver installs an observability hook. Nil keeps events disabled.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine validates params and returns an engine.
func NewEngine(params Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{params: params, observer: NopObserver()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Params returns the parameters the engine was built with.
func (e *Engine) Params() Params { return e.params }

// Score runs every stage for the observations and ranks in-scope districts.
// Results keep input order; identical inputs give identical reports.
func (e *Engine) Score(observations []Observation, sel Selection) Report {
	sel = sel.withDefaults()
	p := e.params

	cands := make([]candidate, 0, len(observations))
	for _, o := range observations {
		cands = append(cands, p.prepare(o, sel))
	}
	maxima := computeMaxima(cands)

	report := Report{
		Selection: sel,
		Maxima:    maxima,
		Results:   make([]DistrictScore, 0, len(cands)),
	}
	for _, c := range cands {
		res := p.evaluate(c, maxima, sel)
		report.Summary.Districts++
		if res.InAnalysisScope {
			report.Summary.Candidates++
			if res.Breakdown != nil && res.Breakdown.SmallMarketCapped {
				report.Summary.SmallMarketCapped++
			}
		} else {
			report.Summary.OutOfScope++
		}
		report.Results = append(report.Results, res)
	}

	for pos, idx := range rankOrder(report.Results) {
		report.Results[idx].Rank = pos + 1
	}
	report.Ranking = Rank(report.Results)

	for _, r := range report.Results {
		e.observer.DistrictScored(r)
	}
	e.observer.RunCompleted(report)
	return report
}

// prepare runs the per-district stages that need no cross-candidate data.
func (p Params) prepare(o Observation, sel Selection) candidate {
	avg := AverageMonthlyAppointments(o.RawMetrics)
	corrected := p.CorrectCompetitors(sel.CompetitorPolicy, o.Name, o.KnownCompetitorCount, avg)
	_, spec := p.ClassifyTier(o.District, avg)
	demand := TierAdjustedDemand(spec, avg)
	proj := p.Project(demand, p.MarketShare(corrected))

	c := candidate{obs: o, corrected: corrected, projection: proj, revenueValue: proj.ProjectedMonthlyRevenue}
	if sel.RevenueSource == RevenueDemandCompetitorRatio {
		c.revenueValue = float64(o.AppointmentCount) / atLeastOne(float64(corrected))
	}
	return c
}

// evaluate classifies risk and, for in-scope districts, emits the score.
func (p Params) evaluate(c candidate, m Maxima, sel Selection) DistrictScore {
	o := c.obs
	avg := AverageMonthlyAppointments(o.RawMetrics)
	tier, _ := p.ClassifyTier(o.District, avg)

	res := DistrictScore{
		DistrictID:           o.ID,
		DistrictName:         o.Name,
		InAnalysisScope:      o.InAnalysisScope,
		Tier:                 tier,
		CorrectedCompetitors: c.corrected,
		AvgMonthlyExpense:    o.MonthlyExpenseTotal / float64(max(o.DistinctMonthCount, 1)),
	}
	res.applyProjection(c.projection)

	b := p.rawScore(c, m, sel.Strategy)
	level, riskScore := p.ClassifyRisk(sel.RiskPolicy, RiskInput{
		CorrectedCompetitors: c.corrected,
		NetMonthlyProfit:     c.projection.NetMonthlyProfit,
		RawScore:             b.RawScore,
	})
	res.RiskLevel = level
	if !o.InAnalysisScope {
		return res
	}
	b.RiskScore = riskScore
	b.RiskMultiplier = p.RiskMultiplier(level)
	score := p.finalScore(&b, o.AppointmentCount)
	res.SuitabilityScore = &score
	res.Breakdown = &b
	return res
}
