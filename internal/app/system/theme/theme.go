// Package theme holds the light/dark display state for a dashboard.
//
// The state is a single flag. The host's colour-scheme preference is read
// once, when a visitor's dashboard is created, and passed to Initialize.
// Nothing here applies styling; the view uses RootClass to mark the page.
package theme

import (
	"net/http"
	"strings"
)

// PreferenceHeader is the client hint carrying the browser's colour scheme.
const PreferenceHeader = "Sec-CH-Prefers-Color-Scheme"

// DarkClass is the marker class the view puts on the document root.
const DarkClass = "dark"

// State is the theme state of one dashboard.
type State struct {
	DarkMode bool `json:"dark_mode"`
}

// Initialize returns the starting state for the given host preference.
func Initialize(prefersDark bool) State {
	return State{DarkMode: prefersDark}
}

// Toggle returns s with DarkMode inverted.
func Toggle(s State) State {
	s.DarkMode = !s.DarkMode
	return s
}

// RootClass is "dark" in dark mode and "" otherwise.
func (s State) RootClass() string {
	if s.DarkMode {
		return DarkClass
	}
	return ""
}

// PrefersDark reads the colour-scheme client hint from r. known is false
// when the browser did not send the hint.
func PrefersDark(r *http.Request) (dark, known bool) {
	v := strings.Trim(strings.TrimSpace(r.Header.Get(PreferenceHeader)), `"`)
	switch strings.ToLower(v) {
	case "dark":
		return true, true
	case "light":
		return false, true
	default:
		return false, false
	}
}
