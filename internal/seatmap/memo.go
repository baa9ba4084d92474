package seatmap

import (
	"sync"
	"time"
)

type memoKey struct {
	screenType string
	seed       int64
}

type memoEntry struct {
	m        SeatMap
	lastUsed time.Time
}

// Memo caches generated maps per screen type and seed. Cached maps are
// handed out by value and must be treated as read-only; use WithSold to
// derive a modified copy.
type Memo struct {
	mu      sync.RWMutex
	entries map[memoKey]*memoEntry
	now     func() time.Time
}

// NewMemo returns an empty Memo.
func NewMemo() *Memo {
	return &Memo{entries: make(map[memoKey]*memoEntry), now: time.Now}
}

// Get returns the cached map for the pair, generating it on first use.
func (c *Memo) Get(screenType string, seed int64) SeatMap {
	k := memoKey{screenType: screenType, seed: seed}
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		e.lastUsed = now
		c.mu.Unlock()
		return e.m
	}

	m := Generate(screenType, seed)

	c.mu.Lock()
	defer c.mu.Unlock()
	// another caller may have generated the same map meanwhile
	if e, ok := c.entries[k]; ok {
		e.lastUsed = now
		return e.m
	}
	c.entries[k] = &memoEntry{m: m, lastUsed: now}
	return m
}

// Len is the number of cached maps.
func (c *Memo) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune drops every map not used within maxIdle and returns how many were
// removed.
func (c *Memo) Prune(maxIdle time.Duration) int {
	cutoff := c.now().Add(-maxIdle)
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if e.lastUsed.Before(cutoff) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}
