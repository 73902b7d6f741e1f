// Package csrfguard rejects cross-site form posts to the dashboard.
//
// It wraps gorilla/csrf. Every unsafe request must carry the masked token
// from csrf.Token, either as the form field rendered by csrf.TemplateField
// or in the X-CSRF-Token header for scripted clients. Over HTTPS the
// Origin or Referer must also match the host.
package csrfguard

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// HeaderName carries the token on scripted requests. Pages and JSON state
// responses expose the current token under the same name.
const HeaderName = "X-CSRF-Token"

// CookieName is the cookie holding the CSRF secret.
const CookieName = "startupinsight_csrf"

// Middleware returns the CSRF protection for the visitor routes.
//
// The signing key is derived from the session key so one secret configures
// both cookies. With secure=false requests are treated as plain HTTP, which
// skips the Referer check that needs TLS; the token and Origin checks still
// apply.
func Middleware(sessionKey string, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	authKey := sha256.Sum256([]byte("csrf:" + sessionKey))

	protect := csrf.Protect(authKey[:],
		csrf.CookieName(CookieName),
		csrf.Path("/"),
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader(HeaderName),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("cross-site request rejected",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("origin", r.Header.Get("Origin")),
				zap.Error(csrf.FailureReason(r)))
			http.Error(w, "forbidden", http.StatusForbidden)
		})),
	)

	return func(next http.Handler) http.Handler {
		guarded := protect(next)
		if secure {
			return guarded
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guarded.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// ExposeToken copies the request's token into the response header so JSON
// clients can send it back. It does nothing outside the middleware.
func ExposeToken(w http.ResponseWriter, r *http.Request) {
	if tok := csrf.Token(r); tok != "" {
		w.Header().Set(HeaderName, tok)
	}
}
