// Package chartdata turns a company profile into the display-ready shapes
// the dashboard draws: the four headline metrics, the user-growth series,
// the revenue-share series, and the investor and competitor lists.
//
// Every function is pure. Output slices are freshly allocated on each call,
// so two calls on the same profile give equal, independent results.
package chartdata

import (
	"strconv"

	"github.com/dalemusser/startupinsight/internal/domain/models"
)

// MetricKind identifies one of the headline metrics.
type MetricKind string

const (
	MetricFunding MetricKind = "funding"
	MetricGrowth  MetricKind = "growth"
	MetricTeam    MetricKind = "team"
	MetricRisk    MetricKind = "risk"
)

// MetricKinds is the fixed display order of the headline metrics.
var MetricKinds = []MetricKind{MetricFunding, MetricGrowth, MetricTeam, MetricRisk}

// MetricView is one headline metric ready for display.
type MetricView struct {
	Kind           MetricKind `json:"kind"`
	Label          string     `json:"label"`
	DisplayValue   string     `json:"display_value"`
	Interpretation string     `json:"interpretation"`
	IconKey        string     `json:"icon_key"`
}

// metricMeta is the static label, icon and interpretation for a kind.
// Interpretations are fixed per kind and do not depend on the value.
type metricMeta struct {
	label          string
	icon           string
	interpretation string
}

var metricTable = map[MetricKind]metricMeta{
	MetricFunding: {"Funding", "bar-chart-3", "Solid early-stage funding"},
	MetricGrowth:  {"Growth", "trending-up", "Exceptional month-over-month growth"},
	MetricTeam:    {"Team", "users", "Well-staffed for current stage"},
	MetricRisk:    {"Risk", "shield", "Very low investment risk"},
}

// TractionPoint is one bar of the user-growth chart.
type TractionPoint struct {
	Period    string `json:"period"`
	UserCount int    `json:"user_count"`
}

// TractionColor is the bar colour of the user-growth chart.
const TractionColor = "#3b82f6"

// SharePoint is one slice of the revenue-share chart.
type SharePoint struct {
	Label        string  `json:"label"`
	SharePercent float64 `json:"share_percent"`
	ColorIndex   int     `json:"color_index"`
	Color        string  `json:"color"`
}

// Palette is the slice colour cycle for the revenue-share chart.
var Palette = [...]string{"#0088FE", "#00C49F", "#FFBB28"}

// InvestorBadge is an investor name with the short badge shown beside it.
type InvestorBadge struct {
	Name  string `json:"name"`
	Badge string `json:"badge"`
}

// CompetitorPosition is a competitor with its market-position label and
// a relative strength from 0 to 100 for the progress bar.
type CompetitorPosition struct {
	Name     string `json:"name"`
	Rank     string `json:"rank"`
	Strength int    `json:"strength"`
}

// Charts bundles everything derived from one profile.
type Charts struct {
	Metrics       []MetricView         `json:"metrics"`
	Traction      []TractionPoint      `json:"traction"`
	RevenueShares []SharePoint         `json:"revenue_shares"`
	Investors     []InvestorBadge      `json:"investors"`
	Competitors   []CompetitorPosition `json:"competitors"`
}

// Derive runs every transform on p.
func Derive(p models.CompanyProfile) Charts {
	return Charts{
		Metrics:       DeriveMetrics(p),
		Traction:      DeriveTraction(p),
		RevenueShares: DeriveRevenueShares(p),
		Investors:     DeriveInvestors(p),
		Competitors:   DeriveCompetitors(p),
	}
}

// DeriveMetrics returns exactly four metrics in the order Funding, Growth,
// Team, Risk, whatever the profile contains.
func DeriveMetrics(p models.CompanyProfile) []MetricView {
	values := map[MetricKind]string{
		MetricFunding: p.Funding,
		MetricGrowth:  strconv.FormatFloat(p.GrowthRatePercent, 'f', -1, 64) + "%",
		MetricTeam:    strconv.Itoa(p.TeamSize),
		MetricRisk:    p.RiskScore,
	}

	out := make([]MetricView, 0, len(MetricKinds))
	for _, k := range MetricKinds {
		meta := metricTable[k]
		out = append(out, MetricView{
			Kind:           k,
			Label:          meta.label,
			DisplayValue:   values[k],
			Interpretation: meta.interpretation,
			IconKey:        meta.icon,
		})
	}
	return out
}

// DeriveTraction copies the traction series in input order. No resampling.
func DeriveTraction(p models.CompanyProfile) []TractionPoint {
	out := make([]TractionPoint, len(p.Traction))
	for i, t := range p.Traction {
		out[i] = TractionPoint{Period: t.Period, UserCount: t.UserCount}
	}
	return out
}

// DeriveRevenueShares assigns each stream a colour from Palette by position.
// Shares are passed through unchanged, even when they do not sum to 100.
func DeriveRevenueShares(p models.CompanyProfile) []SharePoint {
	out := make([]SharePoint, len(p.RevenueStreams))
	for i, s := range p.RevenueStreams {
		idx := i % len(Palette)
		out[i] = SharePoint{
			Label:        s.Label,
			SharePercent: s.SharePercent,
			ColorIndex:   idx,
			Color:        Palette[idx],
		}
	}
	return out
}

// DeriveInvestors pairs each investor with a badge made of the first two
// characters of its name.
func DeriveInvestors(p models.CompanyProfile) []InvestorBadge {
	out := make([]InvestorBadge, len(p.Investors))
	for i, name := range p.Investors {
		r := []rune(name)
		if len(r) > 2 {
			r = r[:2]
		}
		out[i] = InvestorBadge{Name: name, Badge: string(r)}
	}
	return out
}

// DeriveCompetitors labels competitors Primary, Secondary, then Emerging,
// with strength falling by 25 per position.
func DeriveCompetitors(p models.CompanyProfile) []CompetitorPosition {
	out := make([]CompetitorPosition, len(p.Competitors))
	for i, name := range p.Competitors {
		strength := 100 - i*25
		if strength < 0 {
			strength = 0
		}
		out[i] = CompetitorPosition{Name: name, Rank: competitorRank(i), Strength: strength}
	}
	return out
}

func competitorRank(i int) string {
	switch i {
	case 0:
		return "Primary"
	case 1:
		return "Secondary"
	default:
		return "Emerging"
	}
}
