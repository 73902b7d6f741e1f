package livesession_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/startupinsight/internal/app/store/profiles"
	"github.com/dalemusser/startupinsight/internal/app/system/livesession"
	"github.com/dalemusser/startupinsight/internal/app/system/viewmodel"
	"github.com/dalemusser/startupinsight/internal/domain/models"
	"github.com/dalemusser/startupinsight/internal/testutil"
	"go.uber.org/zap"
)

func TestHub_AcquireReusesSession(t *testing.T) {
	h := newHub(t, &fakeScheduler{}, nil)

	a := acquire(t, h, "v1", false)
	b := acquire(t, h, "v1", true)
	if a != b {
		t.Fatal("Acquire created a second session for the same visitor")
	}
	if current(t, b).Theme.DarkMode {
		t.Error("preference should only apply when the session is created")
	}

	c := acquire(t, h, "v2", true)
	if c == a {
		t.Fatal("different visitors share a session")
	}
	if h.Len() != 2 {
		t.Errorf("Len: got %d, want 2", h.Len())
	}
}

func TestHub_SessionsAreIndependent(t *testing.T) {
	h := newHub(t, &fakeScheduler{}, nil)
	a := acquire(t, h, "v1", false)
	b := acquire(t, h, "v2", false)

	dispatch(t, a, viewmodel.ToggleTheme{})
	dispatch(t, a, viewmodel.SetQuery{Text: "Acme"})

	snap := current(t, b)
	if snap.Theme.DarkMode || snap.Search.Query != "" {
		t.Errorf("visitor v2 saw v1's changes: %+v", snap.Search)
	}
}

func TestHub_Get(t *testing.T) {
	h := newHub(t, &fakeScheduler{}, nil)
	if _, ok := h.Get("v1"); ok {
		t.Fatal("Get returned a session that was never acquired")
	}
	s := acquire(t, h, "v1", false)
	got, ok := h.Get("v1")
	if !ok || got != s {
		t.Error("Get did not return the acquired session")
	}
}

func TestHub_DefaultProfileFallsBack(t *testing.T) {
	h := livesession.NewHub(newCatalog(t), livesession.Options{}, zap.NewNop())
	t.Cleanup(h.Close)

	snap := current(t, acquire(t, h, "v1", false))
	if snap.Company.Name != "NutriTech" {
		t.Errorf("Company: got %q, want the first catalog entry", snap.Company.Name)
	}
	if len(snap.Search.RecentSearches) != 4 {
		t.Errorf("RecentSearches: got %v", snap.Search.RecentSearches)
	}
}

func TestHub_UnknownDefaultProfile(t *testing.T) {
	store, err := profilestore.New([]models.CompanyProfile{testutil.NutriTech()}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	h := livesession.NewHub(store, livesession.Options{DefaultProfile: "Nope"}, zap.NewNop())
	t.Cleanup(h.Close)

	if _, err := h.Acquire("v1", false); !errors.Is(err, profilestore.ErrNotFound) {
		t.Errorf("Acquire: got %v, want ErrNotFound", err)
	}
	if h.Len() != 0 {
		t.Error("failed Acquire left a session behind")
	}
}

func TestHub_Evict(t *testing.T) {
	rec := &countingRecorder{}
	h := newHub(t, &fakeScheduler{}, rec)
	acquire(t, h, "v1", false)
	acquire(t, h, "v2", false)

	if n := h.Evict(time.Hour); n != 0 {
		t.Errorf("Evict(1h): removed %d, want 0", n)
	}
	if h.Len() != 2 {
		t.Fatalf("Len: got %d", h.Len())
	}

	if n := h.Evict(0); n != 2 {
		t.Errorf("Evict(0): removed %d, want 2", n)
	}
	if h.Len() != 0 {
		t.Errorf("Len after evict: got %d", h.Len())
	}
	if rec.get(&rec.shut) != 2 {
		t.Errorf("closed sessions recorded: %d", rec.get(&rec.shut))
	}
}

func TestHub_TouchPostponesEviction(t *testing.T) {
	h := newHub(t, &fakeScheduler{}, &countingRecorder{})
	s := acquire(t, h, "v1", false)

	time.Sleep(30 * time.Millisecond)
	s.Touch()
	if n := h.Evict(20 * time.Millisecond); n != 0 {
		t.Fatalf("touched session evicted: removed %d", n)
	}

	time.Sleep(30 * time.Millisecond)
	if n := h.Evict(20 * time.Millisecond); n != 1 {
		t.Errorf("idle session kept: removed %d, want 1", n)
	}
}

func TestHub_Close(t *testing.T) {
	h := livesession.NewHub(newCatalog(t), livesession.Options{Scheduler: &fakeScheduler{}}, zap.NewNop())
	s := acquire(t, h, "v1", false)

	h.Close()

	if h.Len() != 0 {
		t.Errorf("Len after close: got %d", h.Len())
	}
	if _, err := h.Acquire("v2", false); !errors.Is(err, livesession.ErrClosed) {
		t.Errorf("Acquire after close: got %v, want ErrClosed", err)
	}
	if _, err := s.Snapshot(t.Context()); !errors.Is(err, livesession.ErrClosed) {
		t.Errorf("session still open after hub close: %v", err)
	}
}
