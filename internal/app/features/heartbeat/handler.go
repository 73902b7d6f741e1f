// internal/app/features/heartbeat/handler.go
package heartbeat

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dalemusser/startupinsight/internal/app/system/livesession"
	"github.com/dalemusser/startupinsight/internal/app/system/visitor"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the heartbeat request body.
const maxBodyBytes = 1 << 10

// Handler keeps an open dashboard's live session from being closed as idle.
type Handler struct {
	Hub *livesession.Hub
	Log *zap.Logger
}

// NewHandler creates a new heartbeat handler.
func NewHandler(hub *livesession.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		Hub: hub,
		Log: logger,
	}
}

// heartbeatRequest is the JSON body for the heartbeat endpoint.
type heartbeatRequest struct {
	// Visible reports whether the dashboard tab is in the foreground.
	// A missing field counts as visible.
	Visible *bool `json:"visible"`
}

type heartbeatResponse struct {
	Live bool `json:"live"`
}

// ServeHeartbeat handles POST /heartbeat.
// A visible dashboard marks its live session active. The response says
// whether the session still exists, so a page whose session was closed
// knows to reload. It never creates a session.
func (h *Handler) ServeHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req heartbeatRequest
	if r.Body != nil {
		_ = json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req) // body is optional
	}

	id := visitor.ID(r)
	sess, live := h.Hub.Get(id)
	if live && (req.Visible == nil || *req.Visible) {
		sess.Touch()
	}

	h.Log.Debug("heartbeat",
		zap.String("visitor_id", id),
		zap.Bool("live", live))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(heartbeatResponse{Live: live})
}
