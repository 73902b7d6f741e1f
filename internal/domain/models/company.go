// internal/domain/models/company.go
package models

// CompanyProfile is the full record shown on the dashboard for one company.
//
// A profile is treated as an immutable value once it has been loaded. The
// dashboard never edits one in place; showing a different company means
// swapping in a different CompanyProfile as a whole.
type CompanyProfile struct {
	// Identity
	Name        string `yaml:"name" json:"name"`
	Initials    string `yaml:"initials" json:"initials"`
	Category    string `yaml:"category" json:"category"`
	Location    string `yaml:"location" json:"location"`
	FoundedYear int    `yaml:"founded_year" json:"founded_year"`

	// Narrative
	Description string `yaml:"description" json:"description"`

	// Financial facts
	Funding           string  `yaml:"funding" json:"funding"`     // display string, e.g. "$4.2M"
	Valuation         string  `yaml:"valuation" json:"valuation"` // display string, e.g. "$18.5M"
	GrowthRatePercent float64 `yaml:"growth_rate_percent" json:"growth_rate_percent"`
	TeamSize          int     `yaml:"team_size" json:"team_size"`
	RiskScore         string  `yaml:"risk_score" json:"risk_score"`

	// Relationships, in display order
	Investors   []string `yaml:"investors" json:"investors"`
	Competitors []string `yaml:"competitors" json:"competitors"`

	// Time series, oldest first
	Traction []TractionSample `yaml:"traction" json:"traction"`

	// Revenue split. Shares are taken as given and need not sum to 100.
	RevenueStreams []RevenueStream `yaml:"revenue_streams" json:"revenue_streams"`
}

// TractionSample is one period of user growth.
type TractionSample struct {
	Period    string `yaml:"period" json:"period"`
	UserCount int    `yaml:"user_count" json:"user_count"`
}

// RevenueStream is the share of revenue attributed to one category.
type RevenueStream struct {
	Label        string  `yaml:"label" json:"label"`
	SharePercent float64 `yaml:"share_percent" json:"share_percent"`
}

// Clone returns a deep copy so callers can hand a profile to another owner
// without sharing slice backing arrays.
func (p CompanyProfile) Clone() CompanyProfile {
	out := p
	out.Investors = append([]string(nil), p.Investors...)
	out.Competitors = append([]string(nil), p.Competitors...)
	out.Traction = append([]TractionSample(nil), p.Traction...)
	out.RevenueStreams = append([]RevenueStream(nil), p.RevenueStreams...)
	return out
}

// DefaultSiteName is the product name shown in the page header.
const DefaultSiteName = "StartupInsight"
