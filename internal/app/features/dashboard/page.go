// internal/app/features/dashboard/page.go
package dashboard

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/startupinsight/internal/app/system/chartdata"
	"github.com/dalemusser/startupinsight/internal/app/system/csrfguard"
	"github.com/dalemusser/startupinsight/internal/app/system/theme"
	"github.com/dalemusser/startupinsight/internal/app/system/viewmodel"
	"github.com/dalemusser/startupinsight/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/csrf"
)

type companyOption struct {
	Name     string
	Selected bool
}

// tractionBar is a traction point with its bar height as a percentage of
// the tallest bar.
type tractionBar struct {
	Period    string
	UserCount int
	Height    int
}

type shareSlice struct {
	Label   string
	Percent string
	Color   string
}

type pageData struct {
	Title       string
	SiteName    string
	CurrentPath string
	CSRFToken   string
	CSRFField   template.HTML

	viewmodel.Snapshot

	Companies   []companyOption
	Bars        []tractionBar
	Slices      []shareSlice
	PieStyle    template.CSS
	ActiveLabel string
}

// ServePage handles GET /.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	// Ask the browser to send its colour-scheme preference from now on.
	w.Header().Set("Accept-CH", theme.PreferenceHeader)
	w.Header().Add("Vary", theme.PreferenceHeader)

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	snap, err := h.snapshot(r, sess)
	if err != nil {
		h.sessionError(w, r, err)
		return
	}

	data := pageData{
		Title:       snap.Company.Name + " | " + models.DefaultSiteName,
		SiteName:    models.DefaultSiteName,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
		CSRFField:   csrf.TemplateField(r),
		Snapshot:    snap,
		Companies:   companyOptions(h.Profiles.Names(), snap.Company.Name),
		Bars:        tractionBars(snap.Charts.Traction),
		Slices:      shareSlices(snap.Charts.RevenueShares),
		PieStyle:    pieStyle(snap.Charts.RevenueShares),
		ActiveLabel: snap.ActiveTab.Label(),
	}

	csrfguard.ExposeToken(w, r)
	templates.Render(w, r, "dashboard", data)
}

// ServeState handles GET /state.
func (h *Handler) ServeState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	snap, err := h.snapshot(r, sess)
	if err != nil {
		h.sessionError(w, r, err)
		return
	}
	csrfguard.ExposeToken(w, r)
	writeJSON(w, http.StatusOK, snap)
}

func companyOptions(names []string, current string) []companyOption {
	out := make([]companyOption, 0, len(names))
	for _, n := range names {
		out = append(out, companyOption{Name: n, Selected: strings.EqualFold(n, current)})
	}
	return out
}

func tractionBars(points []chartdata.TractionPoint) []tractionBar {
	maxCount := 0
	for _, p := range points {
		if p.UserCount > maxCount {
			maxCount = p.UserCount
		}
	}
	out := make([]tractionBar, 0, len(points))
	for _, p := range points {
		height := 0
		if maxCount > 0 {
			height = p.UserCount * 100 / maxCount
			if height == 0 && p.UserCount > 0 {
				height = 1
			}
		}
		out = append(out, tractionBar{Period: p.Period, UserCount: p.UserCount, Height: height})
	}
	return out
}

func shareSlices(shares []chartdata.SharePoint) []shareSlice {
	out := make([]shareSlice, 0, len(shares))
	for _, s := range shares {
		out = append(out, shareSlice{
			Label:   s.Label,
			Percent: formatPercent(s.SharePercent),
			Color:   s.Color,
		})
	}
	return out
}

// pieStyle draws the revenue shares as a conic gradient. Shares are drawn
// in proportion to their total, which need not be 100.
func pieStyle(shares []chartdata.SharePoint) template.CSS {
	total := 0.0
	for _, s := range shares {
		if s.SharePercent > 0 {
			total += s.SharePercent
		}
	}
	if total == 0 {
		return ""
	}

	stops := make([]string, 0, len(shares))
	from := 0.0
	for _, s := range shares {
		if s.SharePercent <= 0 {
			continue
		}
		to := from + s.SharePercent/total*100
		stops = append(stops, fmt.Sprintf("%s %.2f%% %.2f%%", s.Color, from, to))
		from = to
	}
	return template.CSS("background: conic-gradient(" + strings.Join(stops, ", ") + ")")
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
