// Package analytics buffers search events and publishes them to Kafka for
// offline analysis. Publishing is best-effort: when the buffer is full or
// Kafka is down, events are dropped rather than slowing down searches.
package analytics

import "time"

// Event types emitted by the search path.
const (
	EventSearch   = "search"
	EventCacheHit = "cache_hit"
	EventFallback = "fallback"
)

// SearchEvent describes one completed search request.
type SearchEvent struct {
	Type      string    `json:"type"`
	Query     string    `json:"query,omitempty"`
	City      string    `json:"city,omitempty"`
	Degree    string    `json:"degree,omitempty"`
	Total     int       `json:"total"`
	Returned  int       `json:"returned"`
	Page      int       `json:"page"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Fallback  bool      `json:"fallback"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
