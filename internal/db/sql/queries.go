// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Aggregate queries over the clinic schema, per SQL dialect.

package dbsql

import (
	"strconv"
	"strings"
	"time"
)

// Dialect names the SQL flavour of a metric source.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

const QueryDistricts = "SELECT id, name, is_central, in_analysis_scope, population_density FROM districts ORDER BY id"

const QueryKnownCompetitors = "SELECT district_id, COUNT(*) FROM competitors GROUP BY district_id"

const sqliteTimeLayout = "2006-01-02 15:04:05"

// monthBucket formats a timestamp column as YYYY-MM.
func (d Dialect) monthBucket(col string) string {
	switch d {
	case MySQL:
		return "DATE_FORMAT(" + col + ", '%Y-%m')"
	case SQLite:
		return "strftime('%Y-%m', " + col + ")"
	default:
		return "to_char(" + col + ", 'YYYY-MM')"
	}
}

// QueryAppointments aggregates appointments in [from, to) per district.
func (d Dialect) QueryAppointments() string {
	return d.Rebind("SELECT district_id, COUNT(*), COUNT(DISTINCT " + d.monthBucket("scheduled_at") + "), " +
		"COUNT(DISTINCT customer_id) FROM appointments " +
		"WHERE scheduled_at >= ? AND scheduled_at < ? GROUP BY district_id")
}

// QueryExpenses sums expenses in [from, to) per district.
func (d Dialect) QueryExpenses() string {
	return d.Rebind("SELECT district_id, COALESCE(SUM(amount), 0) FROM expenses " +
		"WHERE incurred_at >= ? AND incurred_at < ? GROUP BY district_id")
}

// Rebind rewrites ? placeholders to $n for postgres.
func (d Dialect) Rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BindTime converts a window bound to a driver argument. SQLite stores
// timestamps as text, so bounds are compared in the same layout.
func (d Dialect) BindTime(t time.Time) any {
	if d == SQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}
