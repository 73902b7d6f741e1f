package viewmodel_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/dalemusser/startupinsight/internal/app/system/chartdata"
	"github.com/dalemusser/startupinsight/internal/app/system/search"
	"github.com/dalemusser/startupinsight/internal/app/system/theme"
	"github.com/dalemusser/startupinsight/internal/app/system/viewmodel"
	"github.com/dalemusser/startupinsight/internal/testutil"
)

func newDashboard(dark bool) viewmodel.Dashboard {
	return viewmodel.New(
		testutil.NutriTech(),
		theme.Initialize(dark),
		search.NewState(search.DefaultRecentSearches, 6, time.Second),
	)
}

func TestNew(t *testing.T) {
	d := newDashboard(true)
	if d.ActiveTab != viewmodel.TabDashboard {
		t.Errorf("ActiveTab: got %q", d.ActiveTab)
	}
	if !d.Theme.DarkMode {
		t.Error("expected dark mode from the injected preference")
	}
	if !reflect.DeepEqual(d.Charts, chartdata.Derive(testutil.NutriTech())) {
		t.Error("charts not derived from the profile")
	}
	if d.Version != 0 {
		t.Errorf("Version: got %d, want 0", d.Version)
	}
}

func TestApply_BumpsVersion(t *testing.T) {
	d := newDashboard(false)
	d, _ = viewmodel.Apply(d, viewmodel.SetQuery{Text: "a"})
	d, _ = viewmodel.Apply(d, viewmodel.Submit{})
	if d.Version != 2 {
		t.Errorf("Version: got %d, want 2", d.Version)
	}
}

func TestApply_SubmitReturnsLookup(t *testing.T) {
	d := newDashboard(false)
	d, lookup := viewmodel.Apply(d, viewmodel.Submit{})
	if lookup != nil {
		t.Fatal("blank submit should not start a lookup")
	}

	d, _ = viewmodel.Apply(d, viewmodel.SetQuery{Text: "Acme"})
	d, lookup = viewmodel.Apply(d, viewmodel.Submit{})
	if lookup == nil {
		t.Fatal("expected a lookup")
	}
	if !d.Search.Loading {
		t.Error("expected loading")
	}

	d, _ = viewmodel.Apply(d, viewmodel.ResolveLookup{Lookup: *lookup})
	if d.Search.Loading {
		t.Error("expected loading cleared")
	}
}

func TestIsStale(t *testing.T) {
	d := newDashboard(false)
	d, _ = viewmodel.Apply(d, viewmodel.SetQuery{Text: "Acme"})
	d, first := viewmodel.Apply(d, viewmodel.Submit{})
	d, second := viewmodel.Apply(d, viewmodel.Submit{})

	if !viewmodel.IsStale(d, viewmodel.ResolveLookup{Lookup: *first}) {
		t.Error("first lookup should be stale")
	}
	if viewmodel.IsStale(d, viewmodel.ResolveLookup{Lookup: *second}) {
		t.Error("second lookup should be current")
	}
	if viewmodel.IsStale(d, viewmodel.ToggleTheme{}) {
		t.Error("only ResolveLookup can be stale")
	}

	d, _ = viewmodel.Apply(d, viewmodel.ResolveLookup{Lookup: *first})
	if !d.Search.Loading {
		t.Error("stale resolve cleared loading")
	}
}

func TestApply_NavigateKeepsOtherState(t *testing.T) {
	d := newDashboard(false)
	d, _ = viewmodel.Apply(d, viewmodel.SetQuery{Text: "Acme"})
	d, _ = viewmodel.Apply(d, viewmodel.SetCategory{Category: search.CategoryAI})
	d, _ = viewmodel.Apply(d, viewmodel.Submit{})
	d, _ = viewmodel.Apply(d, viewmodel.ToggleTheme{})
	before := d

	for _, tab := range viewmodel.Tabs {
		d, _ = viewmodel.Apply(d, viewmodel.Navigate{Tab: tab})
		if d.ActiveTab != tab {
			t.Errorf("ActiveTab: got %q, want %q", d.ActiveTab, tab)
		}
		if !reflect.DeepEqual(d.Search, before.Search) {
			t.Errorf("navigating to %q changed search state", tab)
		}
		if d.Theme != before.Theme {
			t.Errorf("navigating to %q changed theme", tab)
		}
	}
}

func TestApply_NavigateInvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid tab")
		}
	}()
	viewmodel.Apply(newDashboard(false), viewmodel.Navigate{Tab: "billing"})
}

func TestApply_ToggleTheme(t *testing.T) {
	d := newDashboard(false)
	d, _ = viewmodel.Apply(d, viewmodel.ToggleTheme{})
	if !d.Theme.DarkMode {
		t.Error("expected dark mode after toggle")
	}
	d, _ = viewmodel.Apply(d, viewmodel.ToggleTheme{})
	if d.Theme.DarkMode {
		t.Error("expected light mode after second toggle")
	}
}

func TestApply_LoadProfileRederives(t *testing.T) {
	d := newDashboard(false)
	d, _ = viewmodel.Apply(d, viewmodel.SetQuery{Text: "keep me"})

	next := testutil.FinFlow()
	d, _ = viewmodel.Apply(d, viewmodel.LoadProfile{Profile: next})

	if d.Profile.Name != "FinFlow" {
		t.Errorf("Profile: got %q", d.Profile.Name)
	}
	if !reflect.DeepEqual(d.Charts, chartdata.Derive(testutil.FinFlow())) {
		t.Error("charts were not re-derived for the new profile")
	}
	if d.Search.Query != "keep me" {
		t.Error("LoadProfile changed search state")
	}

	// The dashboard owns its copy.
	next.Investors[0] = "changed"
	if d.Profile.Investors[0] != "Index Ventures" {
		t.Error("dashboard shares profile storage with the caller")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	d := newDashboard(false)
	_, _ = viewmodel.Apply(d, viewmodel.SetQuery{Text: "Acme"})
	_, _ = viewmodel.Apply(d, viewmodel.ToggleTheme{})
	if d.Search.Query != "" || d.Theme.DarkMode || d.Version != 0 {
		t.Errorf("Apply mutated its input: %+v", d)
	}
}

func TestParseTab(t *testing.T) {
	for _, tab := range viewmodel.Tabs {
		got, ok := viewmodel.ParseTab(string(tab))
		if !ok || got != tab {
			t.Errorf("ParseTab(%q): got (%q,%v)", tab, got, ok)
		}
	}
	if _, ok := viewmodel.ParseTab("billing"); ok {
		t.Error("ParseTab accepted an unknown tab")
	}
	if viewmodel.TabPredictions.Label() != "AI Predictions" {
		t.Errorf("predictions label: got %q", viewmodel.TabPredictions.Label())
	}
}
