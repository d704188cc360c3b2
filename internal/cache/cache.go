// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// In-memory TTL cache for metric snapshots.

package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a typed TTL cache. A zero ttl means no expiry.
type Store[T any] interface {
	Get(ctx context.Context, key string) (T, bool, error)
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
}

type item[T any] struct {
	value     T
	expiresAt time.Time
}

// Memory is a process-local Store.
type Memory[T any] struct {
	mu    sync.RWMutex
	items map[string]item[T]
	now   func() time.Time
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{items: make(map[string]item[T]), now: time.Now}
}

func (c *Memory[T]) Get(_ context.Context, key string) (T, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	it, ok := c.items[key]
	if !ok {
		return zero, false, nil
	}
	if !it.expiresAt.IsZero() && c.now().After(it.expiresAt) {
		return zero, false, nil
	}
	return it.value, true, nil
}

func (c *Memory[T]) Set(_ context.Context, key string, value T, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := item[T]{value: value}
	if ttl > 0 {
		it.expiresAt = c.now().Add(ttl)
	}
	c.items[key] = it
	c.evictExpiredLocked()
	return nil
}

func (c *Memory[T]) evictExpiredLocked() {
	now := c.now()
	for k, it := range c.items {
		if !it.expiresAt.IsZero() && now.After(it.expiresAt) {
			delete(c.items, k)
		}
	}
}
