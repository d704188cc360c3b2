// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Tier classification and tier-adjusted demand.

package scoring

import "math"

// AverageMonthlyAppointments divides the window total by its distinct months.
func AverageMonthlyAppointments(m RawMetrics) float64 {
	months := m.DistinctMonthCount
	if months < 1 {
		months = 1
	}
	return float64(m.AppointmentCount) / float64(months)
}

// IsCentral reports whether the district belongs to the central set.
func (p Params) IsCentral(d District) bool {
	return d.IsCentral || containsName(p.CentralDistricts, normalizeName(d.Name))
}

// ClassifyTier returns the tier of a district and its parameters.
func (p Params) ClassifyTier(d District, avgMonthly float64) (Tier, TierSpec) {
	switch {
	case p.IsCentral(d):
		return TierCentral, p.Tiers.Central
	case avgMonthly >= p.Tiers.MidVolumeMinAppointments:
		return TierMidVolume, p.Tiers.MidVolume
	default:
		return TierLowVolume, p.Tiers.LowVolume
	}
}

// TierAdjustedDemand applies the growth multiplier and the demand floor.
func TierAdjustedDemand(spec TierSpec, avgMonthly float64) int {
	grown := int(math.Round(avgMonthly * spec.GrowthMultiplier))
	if grown < spec.DemandFloor {
		return spec.DemandFloor
	}
	return grown
}
