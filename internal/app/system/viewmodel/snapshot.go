package viewmodel

import (
	"github.com/dalemusser/startupinsight/internal/app/system/chartdata"
	"github.com/dalemusser/startupinsight/internal/app/system/search"
)

// Snapshot is what the rendering layer receives after every transition.
// It is a plain value safe to encode as JSON or hand to a template; treat
// its slices as read-only.
type Snapshot struct {
	Version   uint64     `json:"version"`
	Theme     ThemeView  `json:"theme"`
	Search    SearchView `json:"search"`
	ActiveTab Tab        `json:"active_tab"`
	Tabs      []TabItem  `json:"tabs"`

	// ShowDashboard is false on tabs that have no content yet.
	ShowDashboard bool `json:"show_dashboard"`

	Company       CompanyView      `json:"company"`
	Charts        chartdata.Charts `json:"charts"`
	TractionColor string           `json:"traction_color"`
}

// ThemeView is the theme part of a snapshot.
type ThemeView struct {
	DarkMode  bool   `json:"dark_mode"`
	RootClass string `json:"root_class"`
}

// SearchView is the search panel part of a snapshot.
type SearchView struct {
	Query          string           `json:"query"`
	Category       search.Category  `json:"category"`
	Categories     []CategoryOption `json:"categories"`
	Loading        bool             `json:"loading"`
	SubmitLabel    string           `json:"submit_label"`
	RecentSearches []string         `json:"recent_searches"`
}

// CategoryOption is one entry of the category select.
type CategoryOption struct {
	Value    search.Category `json:"value"`
	Label    string          `json:"label"`
	Selected bool            `json:"selected"`
}

// TabItem is one entry of the navigation bar.
type TabItem struct {
	ID     Tab    `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// CompanyView is the identity and narrative of the displayed company.
type CompanyView struct {
	Name        string `json:"name"`
	Initials    string `json:"initials"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	FoundedYear int    `json:"founded_year"`
	Valuation   string `json:"valuation"`
	Description string `json:"description"`
}

// Snapshot renders d into a Snapshot.
func (d Dashboard) Snapshot() Snapshot {
	submitLabel := "Analyze"
	if d.Search.Loading {
		submitLabel = "Analyzing..."
	}

	categories := make([]CategoryOption, 0, len(search.Categories))
	for _, c := range search.Categories {
		categories = append(categories, CategoryOption{
			Value:    c,
			Label:    c.Label(),
			Selected: c == d.Search.Category,
		})
	}

	tabs := make([]TabItem, 0, len(Tabs))
	for _, t := range Tabs {
		tabs = append(tabs, TabItem{ID: t, Label: t.Label(), Active: t == d.ActiveTab})
	}

	p := d.Profile
	return Snapshot{
		Version: d.Version,
		Theme: ThemeView{
			DarkMode:  d.Theme.DarkMode,
			RootClass: d.Theme.RootClass(),
		},
		Search: SearchView{
			Query:          d.Search.Query,
			Category:       d.Search.Category,
			Categories:     categories,
			Loading:        d.Search.Loading,
			SubmitLabel:    submitLabel,
			RecentSearches: append([]string{}, d.Search.RecentSearches...),
		},
		ActiveTab:     d.ActiveTab,
		Tabs:          tabs,
		ShowDashboard: d.ActiveTab == TabDashboard,
		Company: CompanyView{
			Name:        p.Name,
			Initials:    p.Initials,
			Category:    p.Category,
			Location:    p.Location,
			FoundedYear: p.FoundedYear,
			Valuation:   p.Valuation,
			Description: p.Description,
		},
		Charts:        d.Charts,
		TractionColor: chartdata.TractionColor,
	}
}
