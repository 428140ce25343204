package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(max int, window time.Duration) (*Limiter, *time.Time) {
	l := New(max, window, time.Hour)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestCheckAdmitsUpToMax(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	defer l.Close()

	for i := 0; i < 3; i++ {
		res := l.Check("client-a")
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if want := 3 - (i + 1); res.Remaining != want {
			t.Errorf("request %d: remaining=%d, want %d", i+1, res.Remaining, want)
		}
	}

	res := l.Check("client-a")
	if res.Allowed {
		t.Error("request past the limit should be rejected")
	}
	if res.Remaining != 0 {
		t.Errorf("rejected request: remaining=%d, want 0", res.Remaining)
	}
}

func TestCheckRejectionKeepsWindow(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	defer l.Close()

	first := l.Check("client-a")
	rejected := l.Check("client-a")
	if rejected.Allowed {
		t.Fatal("second request should be rejected")
	}
	if !rejected.ResetTime.Equal(first.ResetTime) {
		t.Errorf("rejection must not extend the window: %v vs %v", rejected.ResetTime, first.ResetTime)
	}
}

func TestCheckNewWindowAfterExpiry(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)
	defer l.Close()

	l.Check("client-a")
	l.Check("client-a")
	if res := l.Check("client-a"); res.Allowed {
		t.Fatal("third request should be rejected")
	}

	*now = now.Add(time.Minute + time.Second)
	res := l.Check("client-a")
	if !res.Allowed {
		t.Fatal("request after window expiry should open a fresh window")
	}
	if res.Remaining != 1 {
		t.Errorf("fresh window: remaining=%d, want 1", res.Remaining)
	}
	if want := now.Add(time.Minute); !res.ResetTime.Equal(want) {
		t.Errorf("fresh window reset=%v, want %v", res.ResetTime, want)
	}
}

func TestCheckClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	defer l.Close()

	if res := l.Check("client-a"); !res.Allowed {
		t.Fatal("client-a first request should pass")
	}
	if res := l.Check("client-b"); !res.Allowed {
		t.Fatal("client-b must have its own window")
	}
	if res := l.Check("client-a"); res.Allowed {
		t.Fatal("client-a second request should be rejected")
	}
}

func TestReset(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	defer l.Close()

	l.Check("client-a")
	l.Reset("client-a")
	if res := l.Check("client-a"); !res.Allowed {
		t.Error("request after Reset should be admitted")
	}
	if l.Len() != 1 {
		t.Errorf("Len()=%d, want 1", l.Len())
	}
}

func TestClientID(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			"forwarded chain takes first hop",
			map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2", "User-Agent": "curl/8"},
			"10.0.0.1:curl/8",
		},
		{
			"real ip",
			map[string]string{"X-Real-IP": "10.1.1.1"},
			"10.1.1.1:",
		},
		{
			"cdn header",
			map[string]string{"CF-Connecting-IP": "10.2.2.2"},
			"10.2.2.2:",
		},
		{
			"no headers",
			nil,
			"unknown:",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/advocates/search", nil)
			r.Header.Del("User-Agent")
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			if got := ClientID(r); got != tc.want {
				t.Errorf("ClientID=%q, want %q", got, tc.want)
			}
		})
	}
}

func TestClientIDTruncatesUserAgent(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	long := make([]byte, 120)
	for i := range long {
		long[i] = 'a'
	}
	r.Header.Set("User-Agent", string(long))
	r.Header.Set("X-Real-IP", "10.0.0.9")

	got := ClientID(r)
	if len(got) != len("10.0.0.9:")+50 {
		t.Errorf("user agent not truncated to 50 chars: %d", len(got))
	}
}
