// Package search holds the query, category filter and loading state of the
// dashboard's search panel.
//
// Every operation is a pure transition: it takes a State and returns a new
// one. The lookup behind "Analyze" is simulated. Submit hands back a
// PendingLookup; whoever runs the clock calls ResolveLookup with it when the
// latency has elapsed. Each submit issues a fresh token and only the most
// recent one can clear the loading flag, so a late timer from an earlier
// submit cannot end a newer lookup.
package search

import (
	"fmt"
	"strings"
	"time"
)

// Category is the category filter of the search panel.
type Category string

const (
	CategoryAll     Category = "all"
	CategoryHealth  Category = "health"
	CategoryFintech Category = "fintech"
	CategoryAI      Category = "ai"
	CategorySaaS    Category = "saas"
)

// Categories is every valid category in display order.
var Categories = []Category{CategoryAll, CategoryHealth, CategoryFintech, CategoryAI, CategorySaaS}

var categoryLabels = map[Category]string{
	CategoryAll:     "All Categories",
	CategoryHealth:  "Health Tech",
	CategoryFintech: "FinTech",
	CategoryAI:      "AI & Machine Learning",
	CategorySaaS:    "SaaS",
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the human-readable name of c.
func (c Category) Label() string {
	return categoryLabels[c]
}

// ParseCategory converts untrusted input (a form value) into a Category.
// ok is false when s does not name a category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// DefaultRecentSearches seeds the recent-searches list of a new session.
var DefaultRecentSearches = []string{"TechGrowth", "Finnovate", "EcoSolutions", "MedTech Innovations"}

// DefaultRecentLimit caps the recent-searches list when no limit is configured.
const DefaultRecentLimit = 6

// DefaultLatency is how long the simulated lookup takes.
const DefaultLatency = 1500 * time.Millisecond

// State is the search panel state.
type State struct {
	Query          string   `json:"query"`
	Category       Category `json:"category"`
	Loading        bool     `json:"loading"`
	RecentSearches []string `json:"recent_searches"` // most recent first

	recentLimit int
	latency     time.Duration
	issued      uint64 // last token handed out
	pending     uint64 // token allowed to clear Loading; 0 when idle
}

// PendingLookup identifies one in-flight simulated lookup.
type PendingLookup struct {
	Token   uint64
	Query   string
	Latency time.Duration
}

// NewState returns the state of a fresh search panel. seed is copied and
// truncated to limit; a limit below 1 uses DefaultRecentLimit and a
// non-positive latency uses DefaultLatency.
func NewState(seed []string, limit int, latency time.Duration) State {
	if limit < 1 {
		limit = DefaultRecentLimit
	}
	if latency <= 0 {
		latency = DefaultLatency
	}
	if len(seed) > limit {
		seed = seed[:limit]
	}
	return State{
		Category:       CategoryAll,
		RecentSearches: append([]string{}, seed...),
		recentLimit:    limit,
		latency:        latency,
	}
}

// PendingToken returns the token of the lookup in flight, or 0.
func (s State) PendingToken() uint64 {
	return s.pending
}

// SetQuery replaces the query text. Any text is accepted.
func SetQuery(s State, text string) State {
	s.Query = text
	return s
}

// SetCategoryFilter replaces the category filter. c must be valid; callers
// holding untrusted input use ParseCategory first.
func SetCategoryFilter(s State, c Category) State {
	if !c.Valid() {
		panic(fmt.Sprintf("search: invalid category %q", string(c)))
	}
	s.Category = c
	return s
}

// Submit starts a simulated lookup for the current query. A blank query is
// ignored: s comes back unchanged with a nil lookup.
func Submit(s State) (State, *PendingLookup) {
	q := strings.TrimSpace(s.Query)
	if q == "" {
		return s, nil
	}

	s.issued++
	s.pending = s.issued
	s.Loading = true
	s.RecentSearches = pushRecent(s.RecentSearches, q, s.limit())

	return s, &PendingLookup{Token: s.pending, Query: q, Latency: s.lookupLatency()}
}

// ResolveLookup ends the lookup identified by l. It is a no-op unless l is
// the most recently issued lookup and that lookup is still pending.
func ResolveLookup(s State, l PendingLookup) State {
	if s.pending == 0 || l.Token != s.pending {
		return s
	}
	s.pending = 0
	s.Loading = false
	return s
}

// SelectRecentSearch copies a recent search into the query. It does not
// submit.
func SelectRecentSearch(s State, text string) State {
	s.Query = text
	return s
}

func (s State) limit() int {
	if s.recentLimit < 1 {
		return DefaultRecentLimit
	}
	return s.recentLimit
}

func (s State) lookupLatency() time.Duration {
	if s.latency <= 0 {
		return DefaultLatency
	}
	return s.latency
}

// pushRecent returns a new list with q at the front, any earlier entry equal
// to q (ignoring case) removed, and the result capped at limit.
func pushRecent(list []string, q string, limit int) []string {
	out := make([]string, 0, limit)
	out = append(out, q)
	for _, v := range list {
		if len(out) == limit {
			break
		}
		if strings.EqualFold(v, q) {
			continue
		}
		out = append(out, v)
	}
	return out
}
