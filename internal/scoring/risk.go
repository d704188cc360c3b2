// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Risk classification policies and score penalties.

package scoring

// RiskInput carries what either risk policy may read.
type RiskInput struct {
	CorrectedCompetitors int
	NetMonthlyProfit     float64
	// RawScore is the weighted 0-100 score before the risk penalty.
	RawScore float64
}

// ClassifyRisk applies the selected policy. The returned score is only set by
// the net-profit-gated policy when the composite formula was evaluated.
func (p Params) ClassifyRisk(policy RiskPolicy, in RiskInput) (RiskLevel, *float64) {
	if policy == RiskNetProfitGated {
		return p.classifyGated(in)
	}
	return p.classifyByCompetitors(in.CorrectedCompetitors), nil
}

func (p Params) classifyByCompetitors(corrected int) RiskLevel {
	th := p.Risk.CompetitorOnly
	switch {
	case corrected <= th.LowMax:
		return RiskLow
	case corrected <= th.MediumMax:
		return RiskMedium
	case corrected <= th.MediumHighMax:
		return RiskMediumHigh
	default:
		return RiskHigh
	}
}

func (p Params) classifyGated(in RiskInput) (RiskLevel, *float64) {
	if in.NetMonthlyProfit < 0 {
		return RiskHigh, nil
	}
	g := p.Risk.NetProfitGated
	score := (100 - in.RawScore) + float64(in.CorrectedCompetitors)*g.CompetitorWeight - in.NetMonthlyProfit/g.ProfitDivisor
	switch {
	case score <= g.LowMax:
		return RiskLow, &score
	case score <= g.MediumMax:
		return RiskMedium, &score
	default:
		return RiskHigh, &score
	}
}

// RiskMultiplier returns the score penalty of a level.
func (p Params) RiskMultiplier(level RiskLevel) float64 {
	m := p.Risk.Multipliers
	switch level {
	case RiskLow:
		return m.Low
	case RiskMedium:
		return m.Medium
	case RiskMediumHigh:
		return m.MediumHigh
	default:
		return m.High
	}
}
