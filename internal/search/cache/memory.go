package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type memoryEntry struct {
	data       []byte
	insertedAt time.Time
}

// Memory is a mutex-guarded in-process cache with a fixed TTL and a capacity
// bound. When full, the oldest-inserted entry is evicted first; there is no
// access-time refresh. TTL bounds staleness regardless of eviction order.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	order   []string
	ttl     time.Duration
	maxSize int

	hits   atomic.Int64
	misses atomic.Int64

	now     func() time.Time
	onEvict func()
	done    chan struct{}
}

// NewMemory creates a memory cache holding at most maxSize entries for up to
// ttl each. A background sweep evicts expired entries every sweepInterval;
// call Close to stop it.
func NewMemory(ttl time.Duration, maxSize int, sweepInterval time.Duration) *Memory {
	if maxSize <= 0 {
		maxSize = 1000
	}
	c := &Memory{
		entries: make(map[string]*memoryEntry),
		order:   make([]string, 0, maxSize),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go c.sweep(sweepInterval)
	return c
}

// Get returns the cached payload for key, or a miss when the key is absent
// or its TTL has elapsed. Expired entries are evicted on read.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	if c.now().Sub(e.insertedAt) > c.ttl {
		c.remove(key)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.data, true
}

// Set stores the payload under key, evicting the oldest-inserted entry first
// when the cache is at capacity. Updating an existing key keeps its position
// in the insertion order.
func (c *Memory) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.data = value
		e.insertedAt = c.now()
		return
	}
	if len(c.entries) >= c.maxSize && len(c.order) > 0 {
		c.remove(c.order[0])
	}
	c.entries[key] = &memoryEntry{data: value, insertedAt: c.now()}
	c.order = append(c.order, key)
}

// Clear drops every entry.
func (c *Memory) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*memoryEntry)
	c.order = c.order[:0]
	return nil
}

// Stats returns the hit and miss counts.
func (c *Memory) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of live entries.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the background sweep.
func (c *Memory) Close() {
	close(c.done)
}

// SetEvictionHook registers fn to run whenever an entry is evicted by
// capacity or TTL expiry.
func (c *Memory) SetEvictionHook(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// remove must be called with the mutex held.
func (c *Memory) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.onEvict != nil {
		c.onEvict()
	}
}

// sweep periodically evicts expired entries so the map does not accumulate
// dead keys between reads.
func (c *Memory) sweep(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, e := range c.entries {
				if now.Sub(e.insertedAt) > c.ttl {
					c.remove(key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}
