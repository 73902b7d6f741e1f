// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts events per key in fixed windows. The dashboard keys it by
// client IP to cap how many live sessions one address can open.
// It is safe for concurrent use.
type Limiter struct {
	mu         sync.Mutex
	windows    map[string]window
	limit      int
	period     time.Duration
	trustProxy bool
	now        func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	count int
	ends  time.Time
}

// New returns a limiter allowing limit events per key in each period and
// starts a sweeper that drops expired windows. Call Stop when done.
// trustProxy makes request keys honour X-Forwarded-For and X-Real-IP; set
// it only when a proxy in front of the app overwrites those headers.
func New(limit int, period time.Duration, trustProxy bool) *Limiter {
	l := &Limiter{
		windows:    make(map[string]window),
		limit:      limit,
		period:     period,
		trustProxy: trustProxy,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Key returns the client IP the limiter counts r against.
func (l *Limiter) Key(r *http.Request) string {
	return ClientIP(r, l.trustProxy)
}

// AllowRequest records an event for the request's client IP and reports
// whether it fits the limit. When it does not, wait is the time left until
// the window resets and remaining is zero; otherwise remaining is how many
// more events the IP may record in the current window.
func (l *Limiter) AllowRequest(r *http.Request) (ok bool, remaining int, wait time.Duration) {
	return l.take(l.Key(r))
}

func (l *Limiter) take(key string) (bool, int, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, found := l.windows[key]
	if !found || !now.Before(w.ends) {
		l.windows[key] = window{count: 1, ends: now.Add(l.period)}
		return true, max(l.limit-1, 0), 0
	}
	if w.count >= l.limit {
		return false, 0, w.ends.Sub(now)
	}
	w.count++
	l.windows[key] = w
	return true, l.limit - w.count, 0
}

// Stop ends the sweeper. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(2 * l.period)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep drops windows that have ended.
func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, w := range l.windows {
		if !now.Before(w.ends) {
			delete(l.windows, key)
		}
	}
}

// ClientIP returns the address a request came from. With trustProxy the
// proxy headers win over RemoteAddr: the first X-Forwarded-For entry, then
// X-Real-IP. Without it only RemoteAddr counts, since any client can send
// those headers.
func ClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // no port
	}
	return host
}
