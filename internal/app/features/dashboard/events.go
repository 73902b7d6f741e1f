// internal/app/features/dashboard/events.go
package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/startupinsight/internal/app/system/viewmodel"
	"github.com/dalemusser/startupinsight/internal/app/system/visitor"
	"go.uber.org/zap"
)

// keepaliveInterval is how often an idle event stream sends a comment line.
const keepaliveInterval = 15 * time.Second

// ServeEvents handles GET /events, a Server-Sent Events stream of the
// visitor's snapshots. The current snapshot is sent first, then one event
// per change. A client that falls behind only receives the newest one.
//
// The stream never creates a session. Without one it answers 204, which
// stops EventSource from reconnecting; the page decides when to reload.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	id := visitor.ID(r)
	sess, live := h.Hub.Get(id)
	if !live {
		h.Log.Debug("event stream without live session", zap.String("visitor_id", id))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	updates, cancel := sess.Subscribe()
	defer cancel()

	// Subscribe before reading the current snapshot so no change between
	// the two is lost. A duplicate version is harmless to clients.
	current, err := h.snapshot(r, sess)
	if err != nil {
		h.sessionError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Disable the server's WriteTimeout for this long-lived connection.
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	if err := writeEvent(w, current); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			if _, err := w.Write([]byte(":keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case snap, ok := <-updates:
			if !ok {
				// Session evicted or shut down. The reconnect gets 204.
				return
			}
			if err := writeEvent(w, snap); err != nil {
				h.Log.Debug("event stream write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent writes snap as one "snapshot" event with its version as id.
func writeEvent(w http.ResponseWriter, snap viewmodel.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snap.Version, data)
	return err
}
