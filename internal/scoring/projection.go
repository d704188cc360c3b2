// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Demand and financial projection for a prospective branch.

package scoring

import "math"

const monthsPerYear = 12

// Project turns tier-adjusted demand and a market share into monthly and
// annual figures. ROI and payback are nil when they cannot be defined.
func (p Params) Project(tierDemand int, share float64) Projection {
	customers := int(math.Round(float64(tierDemand) * share))
	appointments := int(math.Round(float64(customers) * p.AverageVisits()))
	revenue := float64(appointments) * p.Finance.AverageServicePrice
	cost := p.MonthlyFixedCost()
	net := revenue - cost

	out := Projection{
		TierAdjustedDemand:           tierDemand,
		MarketShare:                  share,
		ProjectedMonthlyCustomers:    customers,
		ProjectedMonthlyAppointments: appointments,
		ProjectedMonthlyRevenue:      revenue,
		MonthlyFixedCost:             cost,
		NetMonthlyProfit:             net,
		AnnualRevenue:                revenue * monthsPerYear,
		AnnualCost:                   cost * monthsPerYear,
		AnnualProfit:                 net * monthsPerYear,
	}
	out.ROIPercent = roiPercent(out.AnnualProfit, out.AnnualCost)
	out.PaybackMonths = paybackMonths(p.Finance.InitialInvestment, net)
	return out
}

func roiPercent(annualProfit, annualCost float64) *float64 {
	if annualCost == 0 {
		return nil
	}
	roi := annualProfit / annualCost * 100
	if !finite(roi) {
		return nil
	}
	return ptr(roi)
}

func paybackMonths(investment, monthlyProfit float64) *int {
	if monthlyProfit <= 0 {
		return nil
	}
	months := math.Ceil(investment / monthlyProfit)
	if !finite(months) || months > math.MaxInt32 {
		return nil
	}
	return ptr(int(months))
}

func ptr[T any](v T) *T { return &v }
