// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Concurrent fanout of independent queries.

package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Fanout runs fn concurrently across items and returns results in the same order.
// The first error cancels the shared context.
func Fanout[I, T any](ctx context.Context, items []I, fn func(context.Context, I) (T, error)) ([]T, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]T, len(items))
	for i, item := range items {
		g.Go(func() error {
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
