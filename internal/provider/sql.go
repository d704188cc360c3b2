// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// SQL-backed provider aggregating the clinic schema.

package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	dbsql "suitability-mcp/internal/db/sql"
	"suitability-mcp/internal/fanout"
	"suitability-mcp/internal/safety"
	"suitability-mcp/internal/scoring"
)

// ErrUnsafeQuery is returned when a districts query override could write.
var ErrUnsafeQuery = errors.New("districts query must be a single read-only statement")

// SQLProvider loads districts and runs the per-district aggregates concurrently.
type SQLProvider struct {
	db             *sql.DB
	dialect        dbsql.Dialect
	districtsQuery string
	logger         *zap.Logger
}

type SQLOption func(*SQLProvider)

// WithDistrictsQuery replaces the district list query. It must return
// id, name, is_central, in_analysis_scope, population_density.
func WithDistrictsQuery(q string) SQLOption {
	return func(p *SQLProvider) {
		if q != "" {
			p.districtsQuery = q
		}
	}
}

func WithLogger(l *zap.Logger) SQLOption {
	return func(p *SQLProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewSQL(db *sql.DB, dialect dbsql.Dialect, opts ...SQLOption) (*SQLProvider, error) {
	p := &SQLProvider{db: db, dialect: dialect, districtsQuery: dbsql.QueryDistricts, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	if !safety.QueryIsReadOnly(p.districtsQuery) {
		return nil, ErrUnsafeQuery
	}
	return p, nil
}

// aggregate fills some RawMetrics fields per district id. Each aggregate sets
// disjoint fields, so partial results merge by addition.
type aggregate struct {
	name string
	run  func(ctx context.Context, w Window) (map[int64]scoring.RawMetrics, error)
}

func (p *SQLProvider) Snapshot(ctx context.Context, w Window) (Snapshot, error) {
	if err := w.Validate(); err != nil {
		return Snapshot{}, err
	}
	districts, err := p.districts(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	aggs := []aggregate{
		{"appointments", p.appointments},
		{"competitors", p.competitors},
		{"expenses", p.expenses},
	}
	parts, err := fanout.Fanout(ctx, aggs, func(ctx context.Context, a aggregate) (map[int64]scoring.RawMetrics, error) {
		m, err := a.run(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("%s aggregate: %w", a.name, err)
		}
		return m, nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Window: w, Districts: make([]scoring.Observation, 0, len(districts))}
	for _, d := range districts {
		var m scoring.RawMetrics
		for _, part := range parts {
			pm := part[d.ID]
			m.AppointmentCount += pm.AppointmentCount
			m.DistinctMonthCount += pm.DistinctMonthCount
			m.CustomerCount += pm.CustomerCount
			m.KnownCompetitorCount += pm.KnownCompetitorCount
			m.MonthlyExpenseTotal += pm.MonthlyExpenseTotal
		}
		if m.DistinctMonthCount < 1 {
			m.DistinctMonthCount = 1
		}
		snap.Districts = append(snap.Districts, scoring.Observation{District: d, RawMetrics: m})
	}
	p.logger.Debug("sql snapshot loaded",
		zap.String("dialect", string(p.dialect)),
		zap.String("window", w.Key()),
		zap.Int("districts", len(snap.Districts)),
	)
	if err := Validate(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (p *SQLProvider) districts(ctx context.Context) ([]scoring.District, error) {
	rows, err := p.db.QueryContext(ctx, p.districtsQuery)
	if err != nil {
		return nil, fmt.Errorf("query districts: %w", err)
	}
	defer rows.Close()

	var out []scoring.District
	for rows.Next() {
		var (
			d       scoring.District
			density sql.NullFloat64
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.IsCentral, &d.InAnalysisScope, &density); err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		if density.Valid {
			v := density.Float64
			d.PopulationDensity = &v
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate districts: %w", err)
	}
	return out, nil
}

func (p *SQLProvider) appointments(ctx context.Context, w Window) (map[int64]scoring.RawMetrics, error) {
	return p.collect(ctx, p.dialect.QueryAppointments(), []any{p.dialect.BindTime(w.From), p.dialect.BindTime(w.To)},
		func(rows *sql.Rows) (int64, scoring.RawMetrics, error) {
			var id int64
			var m scoring.RawMetrics
			err := rows.Scan(&id, &m.AppointmentCount, &m.DistinctMonthCount, &m.CustomerCount)
			return id, m, err
		})
}

func (p *SQLProvider) competitors(ctx context.Context, _ Window) (map[int64]scoring.RawMetrics, error) {
	return p.collect(ctx, dbsql.QueryKnownCompetitors, nil,
		func(rows *sql.Rows) (int64, scoring.RawMetrics, error) {
			var id int64
			var m scoring.RawMetrics
			err := rows.Scan(&id, &m.KnownCompetitorCount)
			return id, m, err
		})
}

func (p *SQLProvider) expenses(ctx context.Context, w Window) (map[int64]scoring.RawMetrics, error) {
	return p.collect(ctx, p.dialect.QueryExpenses(), []any{p.dialect.BindTime(w.From), p.dialect.BindTime(w.To)},
		func(rows *sql.Rows) (int64, scoring.RawMetrics, error) {
			var id int64
			var m scoring.RawMetrics
			err := rows.Scan(&id, &m.MonthlyExpenseTotal)
			return id, m, err
		})
}

func (p *SQLProvider) collect(ctx context.Context, q string, args []any, scan func(*sql.Rows) (int64, scoring.RawMetrics, error)) (map[int64]scoring.RawMetrics, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int64]scoring.RawMetrics{}
	for rows.Next() {
		id, m, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out[id] = m
	}
	return out, rows.Err()
}
