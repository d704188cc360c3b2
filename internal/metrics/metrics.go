// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Prometheus instrumentation for scoring runs and tool calls.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"suitability-mcp/internal/scoring"
)

// Collector implements scoring.Observer and counts tool calls.
type Collector struct {
	runs              prometheus.Counter
	districts         *prometheus.CounterVec
	scores            prometheus.Histogram
	candidates        prometheus.Gauge
	smallMarketCapped prometheus.Counter
	toolCalls         *prometheus.CounterVec
}

// New registers the collector's metrics on reg.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		runs: f.NewCounter(prometheus.CounterOpts{
			Name: "suitability_scoring_runs_total",
			Help: "Total number of scoring runs",
		}),
		districts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "suitability_districts_scored_total",
			Help: "Districts evaluated, by risk level and scope",
		}, []string{"risk_level", "in_scope"}),
		scores: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "suitability_score",
			Help:    "Distribution of final suitability scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		candidates: f.NewGauge(prometheus.GaugeOpts{
			Name: "suitability_candidates",
			Help: "In-scope candidates of the last scoring run",
		}),
		smallMarketCapped: f.NewCounter(prometheus.CounterOpts{
			Name: "suitability_small_market_capped_total",
			Help: "Districts whose score was capped by the small-market guard",
		}),
		toolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "suitability_tool_calls_total",
			Help: "MCP tool calls by tool and outcome",
		}, []string{"tool", "outcome"}),
	}
}

func (c *Collector) DistrictScored(d scoring.DistrictScore) {
	scope := "false"
	if d.InAnalysisScope {
		scope = "true"
	}
	c.districts.WithLabelValues(string(d.RiskLevel), scope).Inc()
	if d.SuitabilityScore != nil {
		c.scores.Observe(float64(*d.SuitabilityScore))
	}
	if d.Breakdown != nil && d.Breakdown.SmallMarketCapped {
		c.smallMarketCapped.Inc()
	}
}

func (c *Collector) RunCompleted(r scoring.Report) {
	c.runs.Inc()
	c.candidates.Set(float64(r.Summary.Candidates))
}

// ToolCall records one tool invocation; outcome is "ok" or an error code.
func (c *Collector) ToolCall(tool, outcome string) {
	if c == nil {
		return
	}
	c.toolCalls.WithLabelValues(tool, outcome).Inc()
}
