// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Market-share bands indexed by corrected competitor count.

package scoring

// MarketShare returns the capturable share for a corrected competitor count.
// Bands are ascending; counts above the last band take the overflow share.
func (p Params) MarketShare(corrected int) float64 {
	for _, b := range p.MarketShareBands {
		if corrected <= b.MaxCompetitors {
			return b.Share
		}
	}
	return p.OverflowMarketShare
}
