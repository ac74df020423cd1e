package hawk

import (
	"sync"
	"time"
)

// ReplayCache is an in-memory nonce tracker suitable for single-process
// deployments. It remembers (id, nonce) pairs for the retention period and
// is safe for concurrent use. Multi-process deployments need a shared
// store behind their own NonceCheckFunc instead.
type ReplayCache struct {
	mu        sync.Mutex
	retention time.Duration
	seen      map[string]time.Time
	lastSweep time.Time
}

// NewReplayCache creates a cache that retains nonces for the given period.
// Retention should be at least twice the validation skew so that a replayed
// request cannot outlive the original's freshness window. A non-positive
// retention defaults to twice DefaultSkew.
func NewReplayCache(retention time.Duration) *ReplayCache {
	if retention <= 0 {
		retention = 2 * DefaultSkew
	}

	return &ReplayCache{
		retention: retention,
		seen:      make(map[string]time.Time),
	}
}

// Seen records the (id, nonce) pair and reports whether it was already
// present. It satisfies NonceCheckFunc:
//
//	cfg.NonceCheck = cache.Seen
func (c *ReplayCache) Seen(id, nonce string, ts time.Time) bool {
	key := id + "\x00" + nonce
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) > c.retention {
		c.sweepLocked(now)
		c.lastSweep = now
	}

	if expiry, ok := c.seen[key]; ok && expiry.After(now) {
		return true
	}

	c.seen[key] = ts.Add(c.retention)

	return false
}

// Len returns the number of tracked nonces, including any not yet swept.
func (c *ReplayCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.seen)
}

func (c *ReplayCache) sweepLocked(now time.Time) {
	for key, expiry := range c.seen {
		if !expiry.After(now) {
			delete(c.seen, key)
		}
	}
}
