// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Competitor correction from undercounted known competitors.

package scoring

import (
	"math"
	"sort"
)

// CompetitorMultiplier returns the correction multiplier for a district.
// avgMonthly is only read by the legacy volume-gated table.
func (p Params) CompetitorMultiplier(policy CompetitorPolicy, name string, avgMonthly float64) float64 {
	key := normalizeName(name)
	if policy == CompetitorLegacyVolume {
		t := p.LegacyCompetitor
		if containsName(t.Districts, key) {
			return t.NamedMultiplier
		}
		if avgMonthly >= t.VolumeThreshold {
			return t.HighVolumeMultiplier
		}
		return t.LowVolumeMultiplier
	}
	if m, ok := p.CompetitorMultipliers[key]; ok {
		return m
	}
	keys := make([]string, 0, len(p.CompetitorMultipliers))
	for k := range p.CompetitorMultipliers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if normalizeName(k) == key {
			return p.CompetitorMultipliers[k]
		}
	}
	return p.DefaultCompetitorMultiplier
}

// CorrectCompetitors estimates the true competitor count.
func (p Params) CorrectCompetitors(policy CompetitorPolicy, name string, known int, avgMonthly float64) int {
	if known <= 0 {
		return 0
	}
	return int(math.Round(float64(known) * p.CompetitorMultiplier(policy, name, avgMonthly)))
}

func containsName(names []string, key string) bool {
	for _, n := range names {
		if normalizeName(n) == key {
			return true
		}
	}
	return false
}
