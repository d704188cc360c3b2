// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Provider construction from configuration.

package provider

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"suitability-mcp/internal/cache"
	"suitability-mcp/internal/config"
	"suitability-mcp/internal/db"
)

type closers []io.Closer

func (c closers) Close() error {
	var first error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// New builds the configured backend, wrapped in a cache when enabled. The
// returned closer releases database and redis connections.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (Provider, io.Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		p   Provider
		res closers
	)
	switch cfg.MetricsBackend {
	case config.BackendFile:
		p = NewFile(cfg.SnapshotFile)
	default:
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		res = append(res, conn)
		sp, err := NewSQL(conn.DB, conn.Dialect, WithDistrictsQuery(cfg.DistrictsQuery), WithLogger(logger))
		if err != nil {
			_ = res.Close()
			return nil, nil, err
		}
		p = sp
	}

	if !cfg.EnableCaching {
		return p, res, nil
	}
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	timeout := WithUpstreamTimeout(time.Duration(cfg.StatementTimeoutMs) * time.Millisecond)
	switch cfg.CacheBackend {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		res = append(res, client)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = res.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		p = NewCached(p, cache.NewRedis[Snapshot](client, cfg.AppName+":snapshot:"), ttl, logger, timeout)
	default:
		p = NewCached(p, cache.NewMemory[Snapshot](), ttl, logger, timeout)
	}
	return p, res, nil
}
