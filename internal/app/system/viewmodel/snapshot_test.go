package viewmodel_test

import (
	"encoding/json"
	"testing"

	"github.com/dalemusser/startupinsight/internal/app/system/search"
	"github.com/dalemusser/startupinsight/internal/app/system/viewmodel"
)

func TestSnapshot_Defaults(t *testing.T) {
	s := newDashboard(false).Snapshot()

	if s.Theme.DarkMode || s.Theme.RootClass != "" {
		t.Errorf("Theme: got %+v", s.Theme)
	}
	if s.Search.SubmitLabel != "Analyze" {
		t.Errorf("SubmitLabel: got %q", s.Search.SubmitLabel)
	}
	if !s.ShowDashboard {
		t.Error("dashboard tab should show the dashboard")
	}
	if s.Company.Name != "NutriTech" || s.Company.FoundedYear != 2021 || s.Company.Initials != "NT" {
		t.Errorf("Company: got %+v", s.Company)
	}
	if len(s.Charts.Metrics) != 4 || len(s.Charts.Traction) != 6 || len(s.Charts.RevenueShares) != 3 {
		t.Errorf("Charts: got %d/%d/%d", len(s.Charts.Metrics), len(s.Charts.Traction), len(s.Charts.RevenueShares))
	}
	if s.TractionColor != "#3b82f6" {
		t.Errorf("TractionColor: got %q", s.TractionColor)
	}

	selected := 0
	for _, c := range s.Search.Categories {
		if c.Selected {
			selected++
			if c.Value != search.CategoryAll {
				t.Errorf("selected category: got %q", c.Value)
			}
		}
	}
	if selected != 1 || len(s.Search.Categories) != 5 {
		t.Errorf("categories: %d options, %d selected", len(s.Search.Categories), selected)
	}

	active := 0
	for _, tab := range s.Tabs {
		if tab.Active {
			active++
		}
	}
	if active != 1 || len(s.Tabs) != 5 || s.Tabs[0].Label != "Dashboard" {
		t.Errorf("tabs: got %+v", s.Tabs)
	}
}

func TestSnapshot_LoadingAndDark(t *testing.T) {
	d := newDashboard(true)
	d, _ = viewmodel.Apply(d, viewmodel.SetQuery{Text: "Acme"})
	d, _ = viewmodel.Apply(d, viewmodel.Submit{})
	d, _ = viewmodel.Apply(d, viewmodel.Navigate{Tab: viewmodel.TabWatchlist})

	s := d.Snapshot()
	if s.Search.SubmitLabel != "Analyzing..." || !s.Search.Loading {
		t.Errorf("Search: got %+v", s.Search)
	}
	if s.Theme.RootClass != "dark" {
		t.Errorf("RootClass: got %q", s.Theme.RootClass)
	}
	if s.ShowDashboard {
		t.Error("watchlist tab should not show the dashboard")
	}
	if s.ActiveTab != viewmodel.TabWatchlist {
		t.Errorf("ActiveTab: got %q", s.ActiveTab)
	}
	if s.Search.RecentSearches[0] != "Acme" {
		t.Errorf("RecentSearches: got %v", s.Search.RecentSearches)
	}
	if s.Version != 3 {
		t.Errorf("Version: got %d", s.Version)
	}
}

func TestSnapshot_RecentSearchesCopied(t *testing.T) {
	d := newDashboard(false)
	s := d.Snapshot()
	s.Search.RecentSearches[0] = "changed"
	if d.Search.RecentSearches[0] != "TechGrowth" {
		t.Error("snapshot shares recent searches with the dashboard")
	}
}

func TestSnapshot_JSON(t *testing.T) {
	data, err := json.Marshal(newDashboard(false).Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"version", "theme", "search", "active_tab", "tabs", "company", "charts"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}
