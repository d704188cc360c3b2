// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Caching decorator over any Provider.

package provider

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"suitability-mcp/internal/cache"
)

// Cached serves repeated windows from a store. Concurrent misses for the same
// window share one upstream call, which is detached from the cancellation of
// any single caller. Store failures degrade to the upstream.
type Cached struct {
	next    Provider
	store   cache.Store[Snapshot]
	ttl     time.Duration
	timeout time.Duration
	group   singleflight.Group
	logger  *zap.Logger
}

type CachedOption func(*Cached)

// WithUpstreamTimeout bounds a shared upstream call. Zero leaves it unbounded.
func WithUpstreamTimeout(d time.Duration) CachedOption {
	return func(c *Cached) { c.timeout = d }
}

func NewCached(next Provider, store cache.Store[Snapshot], ttl time.Duration, logger *zap.Logger, opts ...CachedOption) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cached{next: next, store: store, ttl: ttl, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cached) Snapshot(ctx context.Context, w Window) (Snapshot, error) {
	key := w.Key()
	if snap, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Warn("snapshot cache get failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return snap, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		uctx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			uctx, cancel = context.WithTimeout(uctx, c.timeout)
			defer cancel()
		}
		snap, err := c.next.Snapshot(uctx, w)
		if err != nil {
			return Snapshot{}, err
		}
		if err := c.store.Set(uctx, key, snap, c.ttl); err != nil {
			c.logger.Warn("snapshot cache set failed", zap.String("key", key), zap.Error(err))
		}
		return snap, nil
	})
	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Snapshot{}, res.Err
		}
		return res.Val.(Snapshot), nil
	}
}
