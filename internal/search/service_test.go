package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/advocate-directory/search-service/internal/advocate"
	"github.com/advocate-directory/search-service/internal/search/cache"
	"github.com/advocate-directory/search-service/internal/search/params"
)

// stubSource returns canned results and records how often it was queried.
type stubSource struct {
	rows  []advocate.Advocate
	total int
	err   error
	calls int
}

func (s *stubSource) Search(_ context.Context, _ *params.Params) ([]advocate.Advocate, int, error) {
	s.calls++
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.rows, s.total, nil
}

func testStore(t *testing.T) cache.Store {
	t.Helper()
	c := cache.NewMemory(time.Minute, 100, time.Hour)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSearchPrimarySuccess(t *testing.T) {
	primary := &stubSource{rows: []advocate.Advocate{{ID: 1, FirstName: "Alice"}}, total: 1}
	fallback := &stubSource{}
	svc := NewService(primary, fallback, testStore(t), time.Second, nil, nil)

	resp, cached, err := svc.Search(context.Background(), pageParams(1, 20))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if cached {
		t.Error("first request must not be a cache hit")
	}
	if len(resp.Data) != 1 || resp.Data[0].FirstName != "Alice" {
		t.Errorf("unexpected data: %+v", resp.Data)
	}
	if fallback.calls != 0 {
		t.Error("fallback must not be queried when the primary succeeds")
	}
}

func TestSearchSecondIdenticalRequestIsCached(t *testing.T) {
	primary := &stubSource{rows: []advocate.Advocate{{ID: 1, FirstName: "Alice"}}, total: 1}
	svc := NewService(primary, &stubSource{}, testStore(t), time.Second, nil, nil)
	ctx := context.Background()

	if _, cached, err := svc.Search(ctx, pageParams(1, 20)); err != nil || cached {
		t.Fatalf("first request: cached=%v err=%v", cached, err)
	}
	resp, cached, err := svc.Search(ctx, pageParams(1, 20))
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if !cached || !resp.Cached {
		t.Error("identical second request should be served from the cache")
	}
	if primary.calls != 1 {
		t.Errorf("primary queried %d times, want 1", primary.calls)
	}

	// Different parameters must not collide.
	if _, cached, _ := svc.Search(ctx, pageParams(2, 20)); cached {
		t.Error("different page must miss the cache")
	}
}

func TestSearchFallsBackOnPrimaryFailure(t *testing.T) {
	primary := &stubSource{err: errors.New("connection refused")}
	fallback := &stubSource{rows: []advocate.Advocate{{FirstName: "Bob"}}, total: 1}
	svc := NewService(primary, fallback, testStore(t), time.Second, nil, nil)

	resp, cached, err := svc.Search(context.Background(), pageParams(1, 20))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if cached {
		t.Error("fallback result should not be marked cached")
	}
	if len(resp.Data) != 1 || resp.Data[0].FirstName != "Bob" {
		t.Errorf("expected fallback data, got %+v", resp.Data)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls primary=%d fallback=%d, want 1/1", primary.calls, fallback.calls)
	}
}

func TestSearchRetriesPrimaryEveryRequest(t *testing.T) {
	primary := &stubSource{err: errors.New("connection refused")}
	fallback := &stubSource{rows: []advocate.Advocate{}, total: 0}
	// No cache, so each request exercises the full pipeline.
	svc := NewService(primary, fallback, nil, time.Second, nil, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p := pageParams(i+1, 20)
		if _, _, err := svc.Search(ctx, p); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}
	if primary.calls != 3 {
		t.Errorf("primary attempted %d times, want one attempt per request", primary.calls)
	}
}

func TestSearchNilPrimaryUsesFallback(t *testing.T) {
	fallback := &stubSource{rows: []advocate.Advocate{}, total: 0}
	svc := NewService(nil, fallback, nil, time.Second, nil, nil)

	if _, _, err := svc.Search(context.Background(), pageParams(1, 20)); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if fallback.calls != 1 {
		t.Errorf("fallback calls=%d, want 1", fallback.calls)
	}
}

func TestSearchBothSourcesFailing(t *testing.T) {
	primary := &stubSource{err: errors.New("primary down")}
	fallback := &stubSource{err: errors.New("dataset corrupt")}
	svc := NewService(primary, fallback, nil, time.Second, nil, nil)

	if _, _, err := svc.Search(context.Background(), pageParams(1, 20)); err == nil {
		t.Fatal("expected an error when both sources fail")
	}
}

func TestCacheStatsAndInvalidate(t *testing.T) {
	primary := &stubSource{rows: []advocate.Advocate{}, total: 0}
	svc := NewService(primary, &stubSource{}, testStore(t), time.Second, nil, nil)
	ctx := context.Background()

	svc.Search(ctx, pageParams(1, 20))
	svc.Search(ctx, pageParams(1, 20))

	hits, misses := svc.CacheStats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats=%d/%d, want 1 hit and 1 miss", hits, misses)
	}

	if err := svc.InvalidateCache(ctx); err != nil {
		t.Fatalf("InvalidateCache: %v", err)
	}
	if _, cached, _ := svc.Search(ctx, pageParams(1, 20)); cached {
		t.Error("request after invalidation must miss the cache")
	}
}
