// Package viewmodel composes theme, search and chart state into the single
// dashboard value the page renders.
//
// A Dashboard only changes through Apply, which takes an Event and returns
// the next Dashboard. Apply is pure; scheduling the simulated lookup that a
// Submit starts is left to the caller.
package viewmodel

import (
	"fmt"

	"github.com/dalemusser/startupinsight/internal/app/system/chartdata"
	"github.com/dalemusser/startupinsight/internal/app/system/search"
	"github.com/dalemusser/startupinsight/internal/app/system/theme"
	"github.com/dalemusser/startupinsight/internal/domain/models"
)

// Dashboard is the complete state of one visitor's dashboard.
type Dashboard struct {
	Theme     theme.State
	Search    search.State
	ActiveTab Tab
	Profile   models.CompanyProfile
	Charts    chartdata.Charts

	// Version counts applied events.
	Version uint64
}

// New builds a dashboard showing profile on the dashboard tab.
func New(profile models.CompanyProfile, th theme.State, st search.State) Dashboard {
	return Dashboard{
		Theme:     th,
		Search:    st,
		ActiveTab: TabDashboard,
		Profile:   profile,
		Charts:    chartdata.Derive(profile),
	}
}

// Event is an input to Apply.
type Event interface {
	// Name identifies the event kind in logs and metrics.
	Name() string
	apply(d Dashboard) (Dashboard, *search.PendingLookup)
}

// SetQuery replaces the query text.
type SetQuery struct{ Text string }

// SetCategory replaces the category filter. Category must be valid.
type SetCategory struct{ Category search.Category }

// Submit starts a simulated lookup for the current query.
type Submit struct{}

// ResolveLookup ends a simulated lookup when its latency has elapsed.
type ResolveLookup struct{ Lookup search.PendingLookup }

// SelectRecent copies a recent search into the query.
type SelectRecent struct{ Text string }

// ToggleTheme flips dark mode.
type ToggleTheme struct{}

// Navigate switches the active tab. Tab must be valid.
type Navigate struct{ Tab Tab }

// LoadProfile swaps the displayed company.
type LoadProfile struct{ Profile models.CompanyProfile }

func (SetQuery) Name() string      { return "set_query" }
func (SetCategory) Name() string   { return "set_category" }
func (Submit) Name() string        { return "submit" }
func (ResolveLookup) Name() string { return "resolve_lookup" }
func (SelectRecent) Name() string  { return "select_recent" }
func (ToggleTheme) Name() string   { return "toggle_theme" }
func (Navigate) Name() string      { return "navigate" }
func (LoadProfile) Name() string   { return "load_profile" }

func (e SetQuery) apply(d Dashboard) (Dashboard, *search.PendingLookup) {
	d.Search = search.SetQuery(d.Search, e.Text)
	return d, nil
}

func (e SetCategory) apply(d Dashboard) (Dashboard, *search.PendingLookup) {
	d.Search = search.SetCategoryFilter(d.Search, e.Category)
	return d, nil
}

func (Submit) apply(d Dashboard) (Dashboard, *search.PendingLookup) {
	var lookup *search.PendingLookup
	d.Search, lookup = search.Submit(d.Search)
	return d, lookup
}

func (e ResolveLookup) apply(d Dashboard) (Dashboard, *search.PendingLookup) {
	d.Search = search.ResolveLookup(d.Search, e.Lookup)
	return d, nil
}

func (e SelectRecent) apply(d Dashboard) (Dashboard, *search.PendingLookup) {
	d.Search = search.SelectRecentSearch(d.Search, e.Text)
	return d, nil
}

func (ToggleTheme) apply(d Dashboard) (Dashboard, *search.PendingLookup) {
	d.Theme = theme.Toggle(d.Theme)
	return d, nil
}

func (e Navigate) apply(d Dashboard) (Dashboard, *search.PendingLookup) {
	if !e.Tab.Valid() {
		panic(fmt.Sprintf("viewmodel: invalid tab %q", string(e.Tab)))
	}
	d.ActiveTab = e.Tab
	return d, nil
}

func (e LoadProfile) apply(d Dashboard) (Dashboard, *search.PendingLookup) {
	d.Profile = e.Profile.Clone()
	d.Charts = chartdata.Derive(d.Profile)
	return d, nil
}

// Apply returns the dashboard after ev, plus the lookup to schedule when ev
// started one.
func Apply(d Dashboard, ev Event) (Dashboard, *search.PendingLookup) {
	next, lookup := ev.apply(d)
	next.Version = d.Version + 1
	return next, lookup
}

// IsStale reports whether ev is a ResolveLookup that d will ignore.
func IsStale(d Dashboard, ev Event) bool {
	r, ok := ev.(ResolveLookup)
	return ok && r.Lookup.Token != d.Search.PendingToken()
}
