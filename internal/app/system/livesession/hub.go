package livesession

import (
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/startupinsight/internal/app/system/search"
	"github.com/dalemusser/startupinsight/internal/app/system/theme"
	"github.com/dalemusser/startupinsight/internal/app/system/viewmodel"
	"github.com/dalemusser/startupinsight/internal/domain/models"
	"go.uber.org/zap"
)

// ProfileSource supplies the profile a new session starts with.
type ProfileSource interface {
	Default(preferred string) (models.CompanyProfile, error)
}

// Options configures the sessions a Hub creates.
type Options struct {
	DefaultProfile string
	RecentSeed     []string
	RecentLimit    int
	LookupLatency  time.Duration
	Scheduler      Scheduler
	Recorder       Recorder
}

// Hub holds the live session of every active visitor, keyed by visitor id.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session
	profiles ProfileSource
	opts     Options
	log      *zap.Logger
	closed   bool
}

// NewHub creates an empty hub.
func NewHub(profiles ProfileSource, opts Options, logger *zap.Logger) *Hub {
	if opts.RecentSeed == nil {
		opts.RecentSeed = search.DefaultRecentSearches
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = search.DefaultRecentLimit
	}
	if opts.LookupLatency <= 0 {
		opts.LookupLatency = search.DefaultLatency
	}
	return &Hub{
		sessions: make(map[string]*Session),
		profiles: profiles,
		opts:     opts,
		log:      logger,
	}
}

// Acquire returns the visitor's session, creating it on first use.
// prefersDark is only consulted when the session is created.
func (h *Hub) Acquire(id string, prefersDark bool) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	if s, ok := h.sessions[id]; ok {
		return s, nil
	}

	profile, err := h.profiles.Default(h.opts.DefaultProfile)
	if err != nil {
		return nil, fmt.Errorf("livesession: initial profile: %w", err)
	}
	d := viewmodel.New(
		profile,
		theme.Initialize(prefersDark),
		search.NewState(h.opts.RecentSeed, h.opts.RecentLimit, h.opts.LookupLatency),
	)
	s := newSession(id, d, h.opts.Scheduler, h.opts.Recorder, h.log)
	h.sessions[id] = s

	h.log.Debug("live session opened",
		zap.String("session", id),
		zap.String("profile", profile.Name),
		zap.Bool("dark_mode", prefersDark))
	return s, nil
}

// Get returns an existing session without creating one.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Evict closes and removes every session idle for at least idle.
// It returns the number of sessions removed.
func (h *Hub) Evict(idle time.Duration) int {
	now := time.Now()

	h.mu.Lock()
	var stale []*Session
	for id, s := range h.sessions {
		if s.IdleFor(now) >= idle {
			stale = append(stale, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close closes every session. Acquire fails with ErrClosed afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	sessions := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	h.log.Info("live sessions closed", zap.Int("count", len(sessions)))
}
