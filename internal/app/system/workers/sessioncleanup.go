// internal/app/system/workers/sessioncleanup.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Evictor removes sessions idle for at least the given duration and
// reports how many it removed. *livesession.Hub satisfies it.
type Evictor interface {
	Evict(idle time.Duration) int
}

// SessionCleanup is a background worker that closes idle live sessions.
type SessionCleanup struct {
	sessions          Evictor
	log               *zap.Logger
	interval          time.Duration
	inactiveThreshold time.Duration
	stopCh            chan struct{}
	stopOnce          sync.Once
	wg                sync.WaitGroup
}

// NewSessionCleanup creates a new session cleanup worker.
//
// Parameters:
//   - sessions: the live session hub
//   - logger: zap logger for logging
//   - interval: how often to run cleanup (e.g., 1 minute)
//   - inactiveThreshold: how long a session must be idle before closing (e.g., 30 minutes)
func NewSessionCleanup(sessions Evictor, logger *zap.Logger, interval, inactiveThreshold time.Duration) *SessionCleanup {
	return &SessionCleanup{
		sessions:          sessions,
		log:               logger,
		interval:          interval,
		inactiveThreshold: inactiveThreshold,
		stopCh:            make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *SessionCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("session cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("inactive_threshold", w.inactiveThreshold))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *SessionCleanup) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("session cleanup worker stopped")
}

func (w *SessionCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *SessionCleanup) cleanup() {
	if count := w.sessions.Evict(w.inactiveThreshold); count > 0 {
		w.log.Info("closed idle live sessions", zap.Int("count", count))
	}
}
