// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Application wiring shared by the server and the CLI.

package app

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"suitability-mcp/internal/config"
	"suitability-mcp/internal/logging"
	"suitability-mcp/internal/mcpserver/tools"
	"suitability-mcp/internal/metrics"
	"suitability-mcp/internal/provider"
	"suitability-mcp/internal/safety"
	"suitability-mcp/internal/scoring"
)

// App holds the scoring dependencies built from one configuration.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Deps   tools.Dependencies

	closer io.Closer
}

// New opens the metric source and builds the engine. Metrics are registered
// on reg when it is non-nil and metrics are enabled.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, reg prometheus.Registerer) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p, closer, err := provider.New(ctx, cfg, logging.WithComponent(logger, "provider"))
	if err != nil {
		return nil, fmt.Errorf("open %s metric source: %w", cfg.MetricsBackend, err)
	}

	var collector *metrics.Collector
	var observers []scoring.Observer
	if cfg.MetricsEnabled && reg != nil {
		collector = metrics.New(reg)
		observers = append(observers, collector)
	}
	if cfg.DebugTrace {
		observers = append(observers, logging.NewTraceObserver(logging.WithComponent(logger, "engine")))
	}
	engine, err := scoring.NewEngine(cfg.Scoring, scoring.WithObserver(scoring.Observers(observers...)))
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Deps:   tools.Dependencies{
			Provider: p,
			Engine:   engine,
			Logger:   logger,
			Limiter:  safety.NewLimiter(cfg.RateLimitPerMinute),
			Metrics:  collector,
			Config:   cfg,
		},
		closer: closer,
	}, nil
}

// Close releases database and cache connections.
func (a *App) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
