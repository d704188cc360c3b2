// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Metric provider contract: per-district aggregates for a time window.

package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"suitability-mcp/internal/scoring"
)

var (
	// ErrInvalidSnapshot marks provider output that fails boundary validation.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrInvalidWindow marks a window whose start is not before its end.
	ErrInvalidWindow = errors.New("invalid window")
)

// Provider supplies raw district metrics for a window.
type Provider interface {
	Snapshot(ctx context.Context, w Window) (Snapshot, error)
}

// Window is the half-open interval [From, To).
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// LastMonths returns the n calendar months ending with the month of now.
func LastMonths(now time.Time, n int) Window {
	now = now.UTC()
	to := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return Window{From: to.AddDate(0, -n, 0), To: to}
}

// ParseWindow reads RFC3339 bounds. An empty bound defaults to the matching
// bound of LastMonths(now, months).
func ParseWindow(from, to string, now time.Time, months int) (Window, error) {
	w := LastMonths(now, months)
	if from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return Window{}, fmt.Errorf("%w: from: %v", ErrInvalidWindow, err)
		}
		w.From = t.UTC()
	}
	if to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return Window{}, fmt.Errorf("%w: to: %v", ErrInvalidWindow, err)
		}
		w.To = t.UTC()
	}
	return w, w.Validate()
}

func (w Window) Validate() error {
	if !w.From.Before(w.To) {
		return fmt.Errorf("%w: from %s is not before to %s", ErrInvalidWindow, w.From.Format(time.RFC3339), w.To.Format(time.RFC3339))
	}
	return nil
}

// Key identifies the window in caches.
func (w Window) Key() string {
	return w.From.UTC().Format(time.RFC3339) + "/" + w.To.UTC().Format(time.RFC3339)
}

// Snapshot is the provider output for one window, ordered by district id.
type Snapshot struct {
	Window    Window                `json:"window"`
	Districts []scoring.Observation `json:"districts" validate:"dive"`
}
