// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Unit tests for the TTL stores.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type snapshot struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[snapshot]()
	if err := c.Set(ctx, "k", snapshot{Key: "k", Count: 2}, time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || v.Count != 2 {
		t.Fatalf("expected cached value, got %+v ok=%v err=%v", v, ok, err)
	}
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory[int]()
	c.now = func() time.Time { return now }
	_ = c.Set(ctx, "k", 1, time.Minute)
	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expected expired entry")
	}
	_ = c.Set(ctx, "other", 2, 0)
	if _, ok := c.items["k"]; ok {
		t.Fatalf("expected expired entry to be evicted")
	}
}

func TestRedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedis[snapshot](client, "suitability:")
	if _, ok, err := c.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, "w1", snapshot{Key: "w1", Count: 7}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("suitability:w1") {
		t.Fatalf("expected prefixed key in redis")
	}
	v, ok, err := c.Get(ctx, "w1")
	if err != nil || !ok || v.Count != 7 {
		t.Fatalf("unexpected value %+v ok=%v err=%v", v, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "w1"); ok {
		t.Fatalf("expected key to expire")
	}
}

func TestRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	c := NewRedis[int](client, "")
	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected error from closed redis")
	}
}
