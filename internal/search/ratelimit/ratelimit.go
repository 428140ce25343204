// Package ratelimit implements the per-client fixed-window rate limiter that
// admits or rejects a search request before any query work happens.
package ratelimit

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// entry tracks the request count for a single client within one window.
type entry struct {
	count     int
	resetTime time.Time
}

// Result is the outcome of an admission check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

// Limiter counts requests per client in fixed time windows. A client's first
// request (or first request after its window elapsed) opens a new window;
// once the count reaches the maximum, further requests in that window are
// rejected without extending it.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*entry
	max     int
	window  time.Duration

	now  func() time.Time
	done chan struct{}
}

// New creates a Limiter allowing max requests per window. A background sweep
// removes expired entries every sweepInterval; call Close to stop it.
func New(max int, window, sweepInterval time.Duration) *Limiter {
	l := &Limiter{
		clients: make(map[string]*entry),
		max:     max,
		window:  window,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go l.sweep(sweepInterval)
	return l
}

// Max returns the per-window request limit.
func (l *Limiter) Max() int {
	return l.max
}

// Check records a request from the given client and reports whether it is
// admitted, how many requests remain in the window, and when the window
// resets.
func (l *Limiter) Check(clientID string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.clients[clientID]
	if !ok || now.After(e.resetTime) {
		e = &entry{count: 1, resetTime: now.Add(l.window)}
		l.clients[clientID] = e
		return Result{Allowed: true, Remaining: l.max - 1, ResetTime: e.resetTime}
	}

	if e.count >= l.max {
		return Result{Allowed: false, Remaining: 0, ResetTime: e.resetTime}
	}

	e.count++
	return Result{Allowed: true, Remaining: l.max - e.count, ResetTime: e.resetTime}
}

// Reset clears the state for a specific client.
func (l *Limiter) Reset(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clients, clientID)
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Close stops the background sweep.
func (l *Limiter) Close() {
	close(l.done)
}

// sweep periodically removes entries whose window has elapsed, bounding
// memory. It never participates in admission decisions.
func (l *Limiter) sweep(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for id, e := range l.clients {
				if now.After(e.resetTime) {
					delete(l.clients, id)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

// ClientID derives a rate-limit key from the request: the first hop of the
// forwarded-for chain, else the real-IP header, else the CDN header, else
// "unknown" — concatenated with the User-Agent truncated to 50 characters to
// reduce collisions between clients behind the same NAT.
func ClientID(r *http.Request) string {
	ip := "unknown"
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	} else if real := r.Header.Get("X-Real-IP"); real != "" {
		ip = real
	} else if cf := r.Header.Get("CF-Connecting-IP"); cf != "" {
		ip = cf
	}

	ua := r.Header.Get("User-Agent")
	if len(ua) > 50 {
		ua = ua[:50]
	}
	return fmt.Sprintf("%s:%s", ip, ua)
}
