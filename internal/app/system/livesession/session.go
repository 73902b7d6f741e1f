// Package livesession runs one dashboard per visitor.
//
// Each Session owns a viewmodel.Dashboard and a single goroutine that
// applies events to it one at a time, in the order they arrive. Requests
// from HTTP handlers and lookup-timer completions go through the same
// queue, so no two transitions on a dashboard ever run concurrently.
package livesession

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/startupinsight/internal/app/system/viewmodel"
	"go.uber.org/zap"
)

// ErrClosed is returned by a Session that has been closed.
var ErrClosed = errors.New("live session closed")

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. The default uses time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Recorder is told about transitions, for metrics.
type Recorder interface {
	EventApplied(ctx context.Context, event string)
	LookupStarted(ctx context.Context)
	LookupResolved(ctx context.Context)
	LookupStale(ctx context.Context)
	SessionOpened(ctx context.Context)
	SessionClosed(ctx context.Context)
}

type nopRecorder struct{}

func (nopRecorder) EventApplied(context.Context, string) {}
func (nopRecorder) LookupStarted(context.Context)        {}
func (nopRecorder) LookupResolved(context.Context)       {}
func (nopRecorder) LookupStale(context.Context)          {}
func (nopRecorder) SessionOpened(context.Context)        {}
func (nopRecorder) SessionClosed(context.Context)        {}

// request is one item on a session's queue. A nil ev is a read: the loop
// replies with the current snapshot without applying anything.
type request struct {
	ev    viewmodel.Event
	reply chan viewmodel.Snapshot
}

// Session is one visitor's live dashboard.
type Session struct {
	id    string
	sched Scheduler
	rec   Recorder
	log   *zap.Logger

	events    chan request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// Owned by the loop goroutine.
	state viewmodel.Dashboard
	timer Timer

	subMu   sync.Mutex
	subs    map[int]chan viewmodel.Snapshot
	nextSub int

	lastActive atomic.Int64 // unix nanoseconds
}

// newSession starts the event loop for d.
func newSession(id string, d viewmodel.Dashboard, sched Scheduler, rec Recorder, logger *zap.Logger) *Session {
	if sched == nil {
		sched = clockScheduler{}
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	s := &Session{
		id:     id,
		sched:  sched,
		rec:    rec,
		log:    logger,
		events: make(chan request),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		state:  d,
		subs:   make(map[int]chan viewmodel.Snapshot),
	}
	s.Touch()
	rec.SessionOpened(context.Background())
	go s.loop()
	return s
}

// ID returns the visitor id the session belongs to.
func (s *Session) ID() string {
	return s.id
}

// Dispatch applies ev and returns the snapshot right after it.
func (s *Session) Dispatch(ctx context.Context, ev viewmodel.Event) (viewmodel.Snapshot, error) {
	s.Touch()
	return s.send(ctx, ev)
}

// Snapshot returns the current snapshot without changing anything.
func (s *Session) Snapshot(ctx context.Context) (viewmodel.Snapshot, error) {
	return s.send(ctx, nil)
}

func (s *Session) send(ctx context.Context, ev viewmodel.Event) (viewmodel.Snapshot, error) {
	req := request{ev: ev, reply: make(chan viewmodel.Snapshot, 1)}
	select {
	case s.events <- req:
	case <-s.quit:
		return viewmodel.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return viewmodel.Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-req.reply:
		return snap, nil
	case <-s.done:
		return viewmodel.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return viewmodel.Snapshot{}, ctx.Err()
	}
}

// post queues ev without waiting for the result. Used by lookup timers.
func (s *Session) post(ev viewmodel.Event) {
	select {
	case s.events <- request{ev: ev}:
	case <-s.quit:
	}
}

// Subscribe returns a channel that receives the snapshot after every
// applied event. Delivery is latest-wins: a slow reader only sees the most
// recent snapshot. The channel is closed by cancel or when the session
// closes.
func (s *Session) Subscribe() (<-chan viewmodel.Snapshot, func()) {
	ch := make(chan viewmodel.Snapshot, 1)

	s.subMu.Lock()
	select {
	case <-s.done:
		s.subMu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// IdleFor reports how long ago the visitor last dispatched an event.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastActive.Load()))
}

// Close stops the event loop, cancels any pending lookup timer and closes
// every subscriber channel. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.done

		s.subMu.Lock()
		for id, ch := range s.subs {
			delete(s.subs, id)
			close(ch)
		}
		s.subMu.Unlock()

		s.rec.SessionClosed(context.Background())
	})
}

// Touch marks the session active now without changing its state.
func (s *Session) Touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *Session) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			if s.timer != nil {
				s.timer.Stop()
				s.timer = nil
			}
			return
		case req := <-s.events:
			s.handle(req)
		}
	}
}

func (s *Session) handle(req request) {
	if req.ev == nil {
		req.reply <- s.state.Snapshot()
		return
	}

	ctx := context.Background()
	stale := viewmodel.IsStale(s.state, req.ev)

	next, lookup := viewmodel.Apply(s.state, req.ev)
	s.state = next
	s.rec.EventApplied(ctx, req.ev.Name())

	if _, ok := req.ev.(viewmodel.ResolveLookup); ok {
		if stale {
			s.rec.LookupStale(ctx)
			s.log.Debug("stale lookup ignored", zap.String("session", s.id))
		} else {
			s.rec.LookupResolved(ctx)
			s.timer = nil
		}
	}

	if lookup != nil {
		if s.timer != nil {
			s.timer.Stop()
		}
		l := *lookup
		s.timer = s.sched.AfterFunc(l.Latency, func() {
			s.post(viewmodel.ResolveLookup{Lookup: l})
		})
		s.rec.LookupStarted(ctx)
		s.log.Debug("lookup started",
			zap.String("session", s.id),
			zap.Uint64("token", l.Token),
			zap.Duration("latency", l.Latency))
	}

	snap := next.Snapshot()
	s.publish(snap)
	if req.reply != nil {
		req.reply <- snap
	}
}

func (s *Session) publish(snap viewmodel.Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		// Drop an unread older snapshot so the newest one always fits.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
