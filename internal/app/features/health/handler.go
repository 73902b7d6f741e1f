package health

import (
	"encoding/json"
	"net/http"
)

// Counter reports a current count. *profilestore.Store and
// *livesession.Hub both satisfy it through Len.
type Counter interface {
	Len() int
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Profiles Counter
	Sessions Counter
}

// NewHandler constructs a health Handler from the profile catalog and the
// live session hub.
func NewHandler(profiles, sessions Counter) *Handler {
	return &Handler{
		Profiles: profiles,
		Sessions: sessions,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status       string `json:"status"`
	Profiles     int    `json:"profiles"`
	LiveSessions int    `json:"live_sessions"`
	Message      string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "profiles":1, "live_sessions":3 }
//
// With an empty catalog: 503 and
//
//	{ "status":"error", "profiles":0, "live_sessions":0, "message":"No company profiles loaded" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:       "ok",
		Profiles:     h.Profiles.Len(),
		LiveSessions: h.Sessions.Len(),
	}

	if resp.Profiles == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Message = "No company profiles loaded"
	}

	_ = json.NewEncoder(w).Encode(resp)
}
