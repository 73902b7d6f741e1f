// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	profilestore "github.com/dalemusser/startupinsight/internal/app/store/profiles"
	"github.com/dalemusser/startupinsight/internal/app/system/livesession"
	"github.com/dalemusser/startupinsight/internal/app/system/ratelimit"
	"github.com/dalemusser/startupinsight/internal/app/system/theme"
	"github.com/dalemusser/startupinsight/internal/app/system/timeouts"
	"github.com/dalemusser/startupinsight/internal/app/system/viewmodel"
	"github.com/dalemusser/startupinsight/internal/app/system/visitor"
	"go.uber.org/zap"
)

// Handler serves the startup dashboard. Every visitor gets a live session
// from Hub; handlers translate requests into viewmodel events.
type Handler struct {
	Hub         *livesession.Hub
	Profiles    *profilestore.Store
	DefaultDark bool
	Log         *zap.Logger

	// NewSessions limits live session creation per client IP.
	// Nil means unlimited.
	NewSessions *ratelimit.Limiter
}

func NewHandler(hub *livesession.Hub, profiles *profilestore.Store, defaultDark bool, logger *zap.Logger) *Handler {
	return &Handler{
		Hub:         hub,
		Profiles:    profiles,
		DefaultDark: defaultDark,
		Log:         logger,
	}
}

// session returns the visitor's live session, writing an error response
// and returning ok=false when none is available.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*livesession.Session, bool) {
	id := visitor.ID(r)
	if id == "" {
		h.Log.Error("dashboard request without visitor id", zap.String("path", r.URL.Path))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}

	if _, live := h.Hub.Get(id); !live && h.NewSessions != nil {
		ok, remaining, wait := h.NewSessions.AllowRequest(r)
		if !ok {
			h.Log.Warn("live session creation rate limited",
				zap.String("visitor_id", id),
				zap.String("ip", h.NewSessions.Key(r)),
				zap.Duration("retry_after", wait))
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			http.Error(w, "too many new sessions, try again later", http.StatusTooManyRequests)
			return nil, false
		}
		h.Log.Debug("new live session",
			zap.String("visitor_id", id),
			zap.String("ip", h.NewSessions.Key(r)),
			zap.Int("new_sessions_remaining", remaining))
	}

	dark, known := theme.PrefersDark(r)
	if !known {
		dark = h.DefaultDark
	}

	sess, err := h.Hub.Acquire(id, dark)
	if err != nil {
		if errors.Is(err, livesession.ErrClosed) {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return nil, false
		}
		h.Log.Error("live session unavailable", zap.String("visitor_id", id), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

// dispatch sends ev to the visitor's session and answers with the result.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, ev viewmodel.Event) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.sessionContext(r)
	defer cancel()

	snap, err := sess.Dispatch(ctx, ev)
	if err != nil {
		h.sessionError(w, r, err)
		return
	}

	h.Log.Debug("dashboard event",
		zap.String("visitor_id", sess.ID()),
		zap.String("event", ev.Name()),
		zap.Uint64("version", snap.Version))

	h.respond(w, r, snap)
}

// sessionContext bounds a single wait on the visitor's session.
func (h *Handler) sessionContext(r *http.Request) (context.Context, context.CancelFunc) {
	return timeouts.WithTimeout(r.Context(), timeouts.Dispatch(), h.Log, "dashboard "+r.Method+" "+r.URL.Path)
}

func (h *Handler) snapshot(r *http.Request, sess *livesession.Session) (viewmodel.Snapshot, error) {
	ctx, cancel := h.sessionContext(r)
	defer cancel()
	return sess.Snapshot(ctx)
}

// sessionError answers a failed Dispatch or Snapshot call.
func (h *Handler) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, livesession.ErrClosed):
		http.Error(w, "session closed, please reload", http.StatusServiceUnavailable)
	case r.Context().Err() != nil:
		// Client went away; nothing useful to write.
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "dashboard busy, try again", http.StatusGatewayTimeout)
	default:
		h.Log.Error("dashboard dispatch failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// respond writes the snapshot as JSON for scripted clients and redirects
// plain form posts back to the page.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, snap viewmodel.Snapshot) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, snap)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func wantsJSON(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
