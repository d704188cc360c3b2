// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Unit tests for concurrent fanout.

package fanout

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFanoutKeepsOrder(t *testing.T) {
	items := []int{5, 1, 3}
	res, err := Fanout(context.Background(), items, func(ctx context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})
	if err != nil {
		t.Fatalf("Fanout error: %v", err)
	}
	for i, want := range []int{50, 10, 30} {
		if res[i] != want {
			t.Fatalf("result %d = %d, want %d", i, res[i], want)
		}
	}
}

func TestFanoutCancelsOnError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Fanout(context.Background(), []string{"fail", "wait"}, func(ctx context.Context, s string) (string, error) {
		if s == "fail" {
			return "", boom
		}
		<-ctx.Done()
		return "", ctx.Err()
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
