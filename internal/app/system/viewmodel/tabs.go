package viewmodel

import "strings"

// Tab is a navigation destination in the page header.
type Tab string

const (
	TabDashboard   Tab = "dashboard"
	TabWatchlist   Tab = "watchlist"
	TabPredictions Tab = "predictions"
	TabCompetitors Tab = "competitors"
	TabSettings    Tab = "settings"
)

// Tabs lists every tab in header order.
var Tabs = []Tab{TabDashboard, TabWatchlist, TabPredictions, TabCompetitors, TabSettings}

var tabLabels = map[Tab]string{
	TabDashboard:   "Dashboard",
	TabWatchlist:   "Watchlist",
	TabPredictions: "AI Predictions",
	TabCompetitors: "Competitor Analysis",
	TabSettings:    "Settings",
}

// Valid reports whether t is one of Tabs.
func (t Tab) Valid() bool {
	_, ok := tabLabels[t]
	return ok
}

// Label is the text shown in the navigation bar.
func (t Tab) Label() string {
	return tabLabels[t]
}

// ParseTab converts a path segment into a Tab. ok is false for unknown ids.
func ParseTab(s string) (Tab, bool) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", false
	}
	return t, true
}
