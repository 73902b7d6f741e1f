// Package visitor identifies browsers with a signed cookie.
//
// The cookie carries only a random visitor id. There are no accounts; the
// id is what keys a visitor's live dashboard.
package visitor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	// DefaultMaxAge is how long the visitor cookie lives in the browser.
	DefaultMaxAge = 30 * 24 * time.Hour

	visitorIDKey = "visitor_id"
)

type ctxKey string

const visitorKey ctxKey = "visitorID"

// Manager issues and reads visitor cookies.
type Manager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewManager creates a Manager backed by a gorilla CookieStore.
//
// Cookies are always SameSite=Lax: the dashboard is never embedded
// cross-site. secure=true adds the Secure flag for HTTPS; local development
// over http://localhost needs secure=false.
func NewManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*Manager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store.Options = opts

	logger.Info("visitor cookie store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &Manager{store: store, name: name, log: logger}, nil
}

// Middleware puts the visitor id into the request context, issuing a new
// id and cookie when the request has none or the cookie cannot be decoded.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, m.name)
		if err != nil {
			if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
				m.log.Warn("visitor cookie invalid, issuing a new one", zap.Error(err))
			} else {
				m.log.Error("visitor cookie store error, issuing a new one", zap.Error(err))
			}
		}

		id, _ := sess.Values[visitorIDKey].(string)
		if _, perr := uuid.Parse(id); perr != nil {
			id = uuid.NewString()
			sess.Values[visitorIDKey] = id
			if err := sess.Save(r, w); err != nil {
				m.log.Error("failed to save visitor cookie", zap.Error(err))
			}
			m.log.Debug("new visitor", zap.String("visitor_id", id))
		}

		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// WithID returns a copy of ctx carrying the visitor id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey, id)
}

// FromContext returns the visitor id set by Middleware.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(visitorKey).(string)
	return id, ok && id != ""
}

// ID returns the request's visitor id, or "" outside Middleware.
func ID(r *http.Request) string {
	id, _ := FromContext(r.Context())
	return id
}
