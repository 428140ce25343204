// Package search composes validated parameters into a query against the
// primary store or, when it fails, the in-memory fallback dataset, and
// assembles the paginated response payload.
package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/advocate-directory/search-service/internal/advocate"
	"github.com/advocate-directory/search-service/internal/analytics"
	"github.com/advocate-directory/search-service/internal/search/cache"
	"github.com/advocate-directory/search-service/internal/search/params"
	"github.com/advocate-directory/search-service/internal/search/source"
	apperrors "github.com/advocate-directory/search-service/pkg/errors"
	"github.com/advocate-directory/search-service/pkg/metrics"
	"github.com/advocate-directory/search-service/pkg/middleware"
	"github.com/advocate-directory/search-service/pkg/resilience"
)

// Service runs the search pipeline: cache lookup, primary store attempt
// under a bounded timeout, per-request fallback on store failure, response
// assembly, cache store. Every request tries the primary store first; there
// is no sticky fallback across requests.
type Service struct {
	primary      source.Source
	fallback     source.Source
	store        cache.Store
	storeTimeout time.Duration
	metrics      *metrics.Metrics
	collector    *analytics.Collector
	group        singleflight.Group
	logger       *slog.Logger
}

// NewService wires the composer. primary may be nil when PostgreSQL was not
// reachable at startup; store, m, and collector may each be nil to disable
// caching, metrics, or analytics.
func NewService(primary, fallback source.Source, store cache.Store, storeTimeout time.Duration, m *metrics.Metrics, collector *analytics.Collector) *Service {
	return &Service{
		primary:      primary,
		fallback:     fallback,
		store:        store,
		storeTimeout: storeTimeout,
		metrics:      m,
		collector:    collector,
		logger:       slog.Default().With("component", "search-service"),
	}
}

// Search returns the response for a validated parameter set and whether it
// was served from the cache. Concurrent identical requests share a single
// computation.
func (s *Service) Search(ctx context.Context, p *params.Params) (*Response, bool, error) {
	start := time.Now()
	key := cache.Key(p)

	if s.store != nil {
		if data, ok := s.store.Get(ctx, key); ok {
			var resp Response
			if err := json.Unmarshal(data, &resp); err != nil {
				s.logger.Error("corrupt cache entry", "key", key, "error", err)
			} else {
				resp.Cached = true
				s.observe(ctx, p, &resp, start, true, false)
				return &resp, true, nil
			}
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		rows, total, usedFallback, err := s.query(ctx, p)
		if err != nil {
			return nil, err
		}
		resp := NewResponse(rows, total, p)
		if s.store != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.store.Set(ctx, key, data)
			}
		}
		return &computed{resp: resp, fallback: usedFallback}, nil
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.SearchQueriesTotal.WithLabelValues("error", "miss").Inc()
		}
		return nil, false, err
	}

	c := v.(*computed)
	s.observe(ctx, p, c.resp, start, false, c.fallback)
	return c.resp, false, nil
}

type computed struct {
	resp     *Response
	fallback bool
}

// query attempts the primary store under the configured timeout and recovers
// any failure by running the identical plan against the fallback dataset.
func (s *Service) query(ctx context.Context, p *params.Params) (rows []advocate.Advocate, total int, usedFallback bool, err error) {
	if s.primary != nil {
		attemptErr := resilience.WithTimeout(ctx, s.storeTimeout, "primary store query", func(ctx context.Context) error {
			var qerr error
			rows, total, qerr = s.primary.Search(ctx, p)
			return qerr
		})
		if attemptErr == nil {
			return rows, total, false, nil
		}
		s.logger.Warn("primary store unavailable, serving fallback dataset", "error", attemptErr)
	}

	if s.metrics != nil {
		s.metrics.FallbackSearchTotal.Inc()
	}
	rows, total, err = s.fallback.Search(ctx, p)
	if err != nil {
		err = apperrors.Newf(apperrors.ErrInternal, http.StatusInternalServerError,
			"fallback dataset query failed: %v", err)
	}
	return rows, total, true, err
}

// CacheStats returns the cache hit and miss counts, or zeros when caching is
// disabled.
func (s *Service) CacheStats() (hits, misses int64) {
	if s.store == nil {
		return 0, 0
	}
	return s.store.Stats()
}

// InvalidateCache drops every cached result page.
func (s *Service) InvalidateCache(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Clear(ctx)
}

// CachingEnabled reports whether a result cache is configured.
func (s *Service) CachingEnabled() bool {
	return s.store != nil
}

func (s *Service) observe(ctx context.Context, p *params.Params, resp *Response, start time.Time, cacheHit, usedFallback bool) {
	latency := time.Since(start)

	if s.metrics != nil {
		cacheStatus := "miss"
		if cacheHit {
			cacheStatus = "hit"
		}
		src := "primary"
		if usedFallback {
			src = "fallback"
		}
		if cacheHit {
			src = "cache"
			s.metrics.CacheHitsTotal.Inc()
		} else if s.store != nil {
			s.metrics.CacheMissesTotal.Inc()
		}
		s.metrics.SearchQueriesTotal.WithLabelValues(src, cacheStatus).Inc()
		s.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
		s.metrics.SearchResultsCount.Observe(float64(len(resp.Data)))
	}

	s.logger.Info("search completed",
		"query", p.Query,
		"total", resp.Pagination.Total,
		"returned", len(resp.Data),
		"page", p.Page,
		"cache_hit", cacheHit,
		"fallback", usedFallback,
		"latency_ms", latency.Milliseconds(),
	)

	if s.collector != nil {
		eventType := analytics.EventSearch
		if cacheHit {
			eventType = analytics.EventCacheHit
		} else if usedFallback {
			eventType = analytics.EventFallback
		}
		s.collector.Track(analytics.SearchEvent{
			Type:      eventType,
			Query:     p.Query,
			City:      p.City,
			Degree:    p.Degree,
			Total:     resp.Pagination.Total,
			Returned:  len(resp.Data),
			Page:      p.Page,
			LatencyMs: latency.Milliseconds(),
			CacheHit:  cacheHit,
			Fallback:  usedFallback,
			RequestID: middleware.GetRequestID(ctx),
			Timestamp: time.Now().UTC(),
		})
	}
}
