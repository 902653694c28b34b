// Package ratelimit enforces a minimum wall-clock interval between outbound
// NCBI requests.
package ratelimit

import (
	"sync"
	"time"
)

// Gate serializes callers through a single request slot: Acquire returns only
// after the configured interval has elapsed since the previous grant. There
// is one shared timestamp, so concurrent callers queue up and each waits for
// the combined elapsed time, never for independent parallel timers.
type Gate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// New creates a Gate with a fixed minimum interval between grants.
func New(interval time.Duration) *Gate {
	return &Gate{interval: interval}
}

// Acquire blocks until the interval since the last grant has elapsed, records
// the new grant time and returns. The first call never blocks. The lock is
// held across the sleep so grants cannot overlap.
func (g *Gate) Acquire() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.last.IsZero() {
		if wait := g.interval - time.Since(g.last); wait > 0 {
			time.Sleep(wait)
		}
	}
	g.last = time.Now()
}

// Interval returns the configured minimum interval.
func (g *Gate) Interval() time.Duration {
	return g.interval
}
