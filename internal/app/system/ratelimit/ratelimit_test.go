package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, limit int, period time.Duration, trustProxy bool) (*Limiter, *fakeClock) {
	t.Helper()
	l := New(limit, period, trustProxy)
	t.Cleanup(l.Stop)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	l.now = clock.now
	return l, clock
}

func requestFrom(remote string, headers map[string]string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = remote
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func (l *Limiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func TestLimiter_AllowUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute, false)
	req := requestFrom("1.2.3.4:1000", nil)

	for i, want := range []int{2, 1, 0} {
		ok, remaining, _ := l.AllowRequest(req)
		if !ok {
			t.Fatalf("event %d rejected within the limit", i+1)
		}
		if remaining != want {
			t.Errorf("event %d remaining: got %d, want %d", i+1, remaining, want)
		}
	}
	if ok, _, _ := l.AllowRequest(req); ok {
		t.Error("event beyond the limit was allowed")
	}

	if ok, _, _ := l.AllowRequest(requestFrom("5.6.7.8:1000", nil)); !ok {
		t.Error("limit leaked across addresses")
	}
}

func TestLimiter_WindowResets(t *testing.T) {
	l, clock := newTestLimiter(t, 1, time.Minute, false)
	req := requestFrom("10.0.0.1:5555", nil)

	if ok, _, _ := l.AllowRequest(req); !ok {
		t.Fatal("first event rejected")
	}
	clock.advance(59 * time.Second)
	if ok, _, _ := l.AllowRequest(req); ok {
		t.Fatal("second event in the window allowed")
	}
	clock.advance(time.Second)
	if ok, _, _ := l.AllowRequest(req); !ok {
		t.Error("event after the window ended was rejected")
	}
}

func TestLimiter_AllowRequestReportsWait(t *testing.T) {
	l, clock := newTestLimiter(t, 1, time.Minute, false)
	req := requestFrom("10.0.0.1:5555", nil)

	if ok, _, _ := l.AllowRequest(req); !ok {
		t.Fatal("first request rejected")
	}
	clock.advance(20 * time.Second)
	ok, remaining, wait := l.AllowRequest(req)
	if ok {
		t.Fatal("second request allowed")
	}
	if remaining != 0 {
		t.Errorf("remaining: got %d, want 0", remaining)
	}
	if wait != 40*time.Second {
		t.Errorf("wait: got %v, want 40s", wait)
	}
}

func TestLimiter_SpoofedHeadersIgnoredWithoutProxy(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute, false)

	first := requestFrom("10.0.0.1:5555", map[string]string{"X-Forwarded-For": "203.0.113.1"})
	if ok, _, _ := l.AllowRequest(first); !ok {
		t.Fatal("first request rejected")
	}

	// Rotating the header does not buy a fresh window.
	second := requestFrom("10.0.0.1:5556", map[string]string{"X-Forwarded-For": "203.0.113.2"})
	if ok, _, _ := l.AllowRequest(second); ok {
		t.Error("changing X-Forwarded-For bypassed the limit")
	}
}

func TestLimiter_TrustedProxyKeysByForwardedFor(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute, true)

	a := requestFrom("10.0.0.1:5555", map[string]string{"X-Forwarded-For": "203.0.113.1"})
	b := requestFrom("10.0.0.1:5555", map[string]string{"X-Forwarded-For": "203.0.113.2"})
	if ok, _, _ := l.AllowRequest(a); !ok {
		t.Fatal("first client rejected")
	}
	if ok, _, _ := l.AllowRequest(b); !ok {
		t.Error("second client behind the proxy shared the first one's window")
	}
	if got := l.Key(a); got != "203.0.113.1" {
		t.Errorf("Key: got %q", got)
	}
}

func TestLimiter_Sweep(t *testing.T) {
	l, clock := newTestLimiter(t, 5, time.Minute, false)
	l.AllowRequest(requestFrom("10.0.0.1:1", nil))
	clock.advance(30 * time.Second)
	l.AllowRequest(requestFrom("10.0.0.2:1", nil))

	clock.advance(45 * time.Second)
	l.sweep()

	if got := l.tracked(); got != 1 {
		t.Errorf("windows after sweep: got %d, want 1", got)
	}
	if _, remaining, _ := l.AllowRequest(requestFrom("10.0.0.2:1", nil)); remaining != 3 {
		t.Errorf("sweep dropped a live window: remaining %d, want 3", remaining)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	l := New(1, time.Minute, false)
	l.Stop()
	l.Stop()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remote     string
		trustProxy bool
		want       string
	}{
		{"remote addr", nil, "10.0.0.1:5555", false, "10.0.0.1"},
		{"remote without port", nil, "10.0.0.1", false, "10.0.0.1"},
		{"untrusted forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "10.0.0.1:5555", false, "10.0.0.1"},
		{"untrusted real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.1:5555", false, "10.0.0.1"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "10.0.0.1:5555", true, "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.4 "}, "10.0.0.1:5555", true, "198.51.100.4"},
		{"blank forwarded for", map[string]string{"X-Forwarded-For": " ,10.0.0.2"}, "10.0.0.1:5555", true, "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClientIP(requestFrom(tt.remote, tt.headers), tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP: got %q, want %q", got, tt.want)
			}
		})
	}
}
