// Package handler implements the HTTP endpoints of the advocate directory:
// search, listing, seeding, and cache administration.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/advocate-directory/search-service/internal/advocate"
	"github.com/advocate-directory/search-service/internal/search"
	"github.com/advocate-directory/search-service/internal/search/params"
	"github.com/advocate-directory/search-service/internal/search/ratelimit"
	apperrors "github.com/advocate-directory/search-service/pkg/errors"
	"github.com/advocate-directory/search-service/pkg/logger"
	"github.com/advocate-directory/search-service/pkg/metrics"
)

// Handler serves the directory's HTTP API.
type Handler struct {
	svc       *search.Service
	limiter   *ratelimit.Limiter
	validator *params.Validator
	store     *advocate.Store
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler. store may be nil when PostgreSQL is unavailable;
// the seed endpoint then fails safely while search continues on the
// fallback dataset. metrics may be nil.
func New(svc *search.Service, limiter *ratelimit.Limiter, validator *params.Validator, store *advocate.Store, m *metrics.Metrics) *Handler {
	return &Handler{
		svc:       svc,
		limiter:   limiter,
		validator: validator,
		store:     store,
		metrics:   m,
		logger:    slog.Default().With("component", "directory-handler"),
	}
}

// Search handles GET /api/v1/advocates/search: rate limit, validate, cache
// lookup, compose, assemble.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	result := h.limiter.Check(ratelimit.ClientID(r))
	h.setRateLimitHeaders(w, result)
	if !result.Allowed {
		if h.metrics != nil {
			h.metrics.RateLimitRejections.Inc()
		}
		retryAfter := int(time.Until(result.ResetTime).Seconds()) + 1
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		h.writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":     "rate_limited",
			"message":   "Too many requests. Please try again later.",
			"resetTime": result.ResetTime.UTC().Format(time.RFC3339),
		})
		return
	}

	p, err := h.validator.Parse(r.URL.Query())
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	resp, cached, err := h.svc.Search(ctx, p)
	if err != nil {
		log.Error("search failed", "error", err)
		h.writeSearchFailure(w, err)
		return
	}

	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// List handles GET /api/v1/advocates: the same validated pipeline with no
// admission control, used by the UI for the unfiltered directory view.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	p, err := h.validator.Parse(r.URL.Query())
	if err != nil {
		h.writeValidationError(w, err)
		return
	}

	resp, _, err := h.svc.Search(ctx, p)
	if err != nil {
		log.Error("list failed", "error", err)
		h.writeSearchFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Seed handles POST /api/v1/advocates/seed: inserts the fallback dataset
// into PostgreSQL.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if h.store == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"success": false,
			"error":   "store_unavailable",
			"message": "database is not configured",
		})
		return
	}

	inserted, err := h.store.Seed(ctx, advocate.FallbackData)
	if err != nil {
		log.Error("seeding failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "seed_failed",
			"message": "unable to insert advocate data",
		})
		return
	}
	if h.metrics != nil {
		h.metrics.AdvocatesSeededTotal.Add(float64(inserted))
	}
	log.Info("database seeded", "count", inserted)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   inserted,
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if !h.svc.CachingEnabled() {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.svc.CacheStats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if !h.svc.CachingEnabled() {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.svc.InvalidateCache(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) setRateLimitHeaders(w http.ResponseWriter, result ratelimit.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(h.limiter.Max()))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var validationErr *params.ValidationError
	if errors.As(err, &validationErr) {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation_failed",
			"fields": validationErr.Fields,
		})
		return
	}
	h.writeError(w, http.StatusBadRequest, err.Error())
}

// writeSearchFailure emits the error body with a structurally complete empty
// pagination block. Internal error details never reach the client.
func (h *Handler) writeSearchFailure(w http.ResponseWriter, err error) {
	h.writeJSON(w, apperrors.HTTPStatusCode(err), map[string]any{
		"error":      "search_failed",
		"message":    "unable to search advocates at this time",
		"data":       []advocate.Advocate{},
		"pagination": search.EmptyPagination(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
