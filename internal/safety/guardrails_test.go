// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Unit tests for read-only query checks.

package safety

import "testing"

func TestQueryIsReadOnly(t *testing.T) {
	cases := []struct {
		q  string
		ro bool
	}{
		{"SELECT id, name FROM districts", true},
		{"\n  -- districts\nSELECT * FROM districts;", true},
		{"/* scope */ WITH d AS (SELECT 1) SELECT * FROM d", true},
		{"WITH d AS (DELETE FROM districts RETURNING *) SELECT * FROM d", false},
		{"SELECT 1; DROP TABLE districts", false},
		{"INSERT INTO districts VALUES (1)", false},
		{"UPDATE districts SET name='x'", false},
		{"", false},
		{"-- only a comment", false},
	}
	for _, c := range cases {
		if QueryIsReadOnly(c.q) != c.ro {
			t.Fatalf("expected %v for %q", c.ro, c.q)
		}
	}
}
