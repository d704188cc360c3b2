package app

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"suitability-mcp/internal/config"
	"suitability-mcp/internal/mcpserver/tools"
)

const schema = `
CREATE TABLE districts (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	is_central INTEGER NOT NULL DEFAULT 0,
	in_analysis_scope INTEGER NOT NULL DEFAULT 1,
	population_density REAL
);
CREATE TABLE appointments (
	id INTEGER PRIMARY KEY,
	district_id INTEGER NOT NULL,
	customer_id INTEGER NOT NULL,
	scheduled_at TEXT NOT NULL
);
CREATE TABLE competitors (
	id INTEGER PRIMARY KEY,
	district_id INTEGER NOT NULL,
	name TEXT
);
CREATE TABLE expenses (
	id INTEGER PRIMARY KEY,
	district_id INTEGER NOT NULL,
	amount REAL NOT NULL,
	incurred_at TEXT NOT NULL
);
INSERT INTO districts (id, name, is_central, in_analysis_scope, population_density) VALUES
	(1, 'Konak', 1, 1, 10000),
	(2, 'Buca', 0, 1, 5000),
	(3, 'Menemen', 0, 0, NULL);
INSERT INTO competitors (district_id, name) VALUES (1, 'A'), (1, 'B');
INSERT INTO expenses (district_id, amount, incurred_at) VALUES (1, 30000, '2026-01-15 00:00:00'), (1, 30000, '2026-02-15 00:00:00');
`

func seed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clinic.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(schema)
	require.NoError(t, err)

	insert := func(district, n int, month string) {
		for i := 0; i < n; i++ {
			_, err := db.Exec("INSERT INTO appointments (district_id, customer_id, scheduled_at) VALUES (?, ?, ?)",
				district, district*1000+i%50, fmt.Sprintf("2026-%s-%02d 10:00:00", month, 1+i%28))
			require.NoError(t, err)
		}
	}
	// Buca: 60 per month over two months; Konak: 100 per month. One Buca
	// row falls outside the window.
	insert(2, 60, "01")
	insert(2, 60, "02")
	insert(1, 100, "01")
	insert(1, 100, "02")
	insert(2, 1, "04")
	return path
}

func TestSQLiteEndToEnd(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SUITABILITY_MCP_CONFIG", "")
	cfg, err := config.LoadFile("", map[string]any{
		"metrics_backend": "sqlite",
		"metrics_dsn":     seed(t),
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	a, err := New(context.Background(), cfg, nil, reg)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	in := tools.ScoreDistrictsInput{From: "2026-01-01T00:00:00Z", To: "2026-03-01T00:00:00Z", IncludeOutOfScope: true}
	res, out, err := tools.ScoreDistricts(ctx, a.Deps, in)
	require.NoError(t, err)
	require.Nil(t, res)

	require.Len(t, out.Ranking, 2)
	assert.Equal(t, "Buca", out.Ranking[0].DistrictName)
	assert.Equal(t, "Konak", out.Ranking[1].DistrictName)
	require.Len(t, out.Districts, 3)

	konak := out.Districts[1]
	assert.Equal(t, 12, konak.CorrectedCompetitors)
	assert.Equal(t, 30000.0, konak.AvgMonthlyExpense)
	assert.Nil(t, out.Districts[2].SuitabilityScore)

	// A second call is served from the snapshot cache with the same result.
	_, again, err := tools.ScoreDistricts(ctx, a.Deps, in)
	require.NoError(t, err)
	assert.Equal(t, out.Ranking, again.Ranking)

	assert.Equal(t, 2.0, counterValue(t, reg, "suitability_scoring_runs_total"))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}

func TestMissingSnapshotFileIsToolError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := config.LoadFile("", map[string]any{
		"metrics_backend": "file",
		"snapshot_file":   filepath.Join(t.TempDir(), "absent.json"),
		"enable_caching":  false,
	})
	require.NoError(t, err)
	a, err := New(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.Deps.Metrics)

	res, _, err := tools.ScoreDistricts(context.Background(), a.Deps, tools.ScoreDistrictsInput{})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}
