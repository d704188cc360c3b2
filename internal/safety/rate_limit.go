// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// Token-bucket rate limiting per tool action.

package safety

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per action. A non-positive rate disables it.
type Limiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets map[string]*rate.Limiter
}

// NewLimiter allows perMinute calls per action with a burst of the same size.
func NewLimiter(perMinute int) *Limiter {
	l := &Limiter{buckets: map[string]*rate.Limiter{}}
	if perMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(perMinute))
		l.burst = perMinute
	}
	return l
}

// Allow reports whether one more call of action may run now.
func (l *Limiter) Allow(action string) bool {
	if l == nil || l.burst == 0 {
		return true
	}
	l.mu.Lock()
	b, ok := l.buckets[action]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[action] = b
	}
	l.mu.Unlock()
	return b.Allow()
}
