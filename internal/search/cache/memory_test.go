package cache

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/advocate-directory/search-service/internal/search/params"
)

func newTestCache(ttl time.Duration, maxSize int) (*Memory, *time.Time) {
	c := NewMemory(ttl, maxSize, time.Hour)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestMemoryRoundTrip(t *testing.T) {
	c, _ := newTestCache(time.Minute, 10)
	defer c.Close()
	ctx := context.Background()

	payload := []byte(`{"data":[],"pagination":{"page":1}}`)
	c.Set(ctx, "k", payload)

	got, ok := c.Get(ctx, "k")
	if !ok {
		t.Fatal("expected hit")
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip altered payload: %s", got)
	}
}

func TestMemoryMissOnAbsent(t *testing.T) {
	c, _ := newTestCache(time.Minute, 10)
	defer c.Close()

	if _, ok := c.Get(context.Background(), "nope"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	c, now := newTestCache(time.Minute, 10)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))
	*now = now.Add(59 * time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("entry should still be live inside the TTL")
	}

	*now = now.Add(2 * time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("entry should expire after the TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted on read, Len()=%d", c.Len())
	}
}

func TestMemoryCapacityEvictsOldestInserted(t *testing.T) {
	c, _ := newTestCache(time.Minute, 2)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "first", []byte("1"))
	c.Set(ctx, "second", []byte("2"))
	c.Set(ctx, "third", []byte("3"))

	if _, ok := c.Get(ctx, "first"); ok {
		t.Error("oldest-inserted entry should have been evicted")
	}
	if _, ok := c.Get(ctx, "second"); !ok {
		t.Error("second entry should survive")
	}
	if _, ok := c.Get(ctx, "third"); !ok {
		t.Error("third entry should survive")
	}
}

func TestMemoryUpdateKeepsInsertionOrder(t *testing.T) {
	c, _ := newTestCache(time.Minute, 2)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "first", []byte("1"))
	c.Set(ctx, "second", []byte("2"))
	// Updating a key refreshes its value but not its insertion position.
	c.Set(ctx, "first", []byte("1b"))
	c.Set(ctx, "third", []byte("3"))

	if _, ok := c.Get(ctx, "first"); ok {
		t.Error("updated entry keeps oldest position and should be evicted")
	}
	got, ok := c.Get(ctx, "second")
	if !ok || string(got) != "2" {
		t.Errorf("second entry corrupted: %q ok=%v", got, ok)
	}
}

func TestMemoryClearAndStats(t *testing.T) {
	c, _ := newTestCache(time.Minute, 10)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"))
	c.Get(ctx, "k")
	c.Get(ctx, "absent")

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats=%d/%d, want 1/1", hits, misses)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len()=%d after Clear, want 0", c.Len())
	}
}

func TestKeyMatchesFingerprint(t *testing.T) {
	v := params.New(0, 0)
	p, err := v.Parse(url.Values{"city": {"Boston"}})
	if err != nil {
		t.Fatal(err)
	}
	key := Key(p)
	if key != "search:"+p.Fingerprint() {
		t.Errorf("unexpected key %q", key)
	}
}
