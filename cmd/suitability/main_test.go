package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suitability-mcp/internal/mcpserver/tools"
)

const snapshot = `[
  {"districtId": 1, "districtName": "Konak", "inAnalysisScope": true, "populationDensity": 10000,
   "appointmentCount": 600, "distinctMonthCount": 6, "knownCompetitorCount": 2},
  {"districtId": 2, "districtName": "Buca", "inAnalysisScope": true, "populationDensity": 5000,
   "appointmentCount": 360, "distinctMonthCount": 6},
  {"districtId": 4, "districtName": "Menemen", "appointmentCount": 5000, "distinctMonthCount": 2}
]`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SUITABILITY_MCP_CONFIG", "")
	color.NoColor = true
	scoreSnapshot, scoreOutput, scoreAll = "", "table", false
	scoreInput = tools.ScoreDistrictsInput{}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o600))
	return path
}

func TestScoreCommandJSON(t *testing.T) {
	raw := execute(t, "score", "--snapshot", writeSnapshot(t), "--output", "json", "--all")
	var out tools.ScoreDistrictsOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	require.Len(t, out.Ranking, 2)
	assert.Equal(t, "Buca", out.Ranking[0].DistrictName)
	require.Len(t, out.Districts, 3)
	assert.Nil(t, out.Districts[2].SuitabilityScore)
}

func TestScoreCommandTable(t *testing.T) {
	raw := execute(t, "score", "--snapshot", writeSnapshot(t), "--output", "table", "--limit", "1")
	assert.Contains(t, raw, "Buca")
	assert.NotContains(t, raw, "Konak")
	assert.Contains(t, raw, "Showing top 1")
}

func TestParamsCommand(t *testing.T) {
	raw := execute(t, "params")
	var out tools.ScoringParamsOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	assert.Equal(t, 70, out.Params.SmallMarket.ScoreCap)
}

func TestVersionCommand(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "suitability dev")
}
