package testutil

import (
	"testing"

	"github.com/dalemusser/startupinsight/internal/domain/models"
)

// NutriTech returns the reference profile used throughout the tests.
// Each call returns a fresh value.
func NutriTech() models.CompanyProfile {
	return models.CompanyProfile{
		Name:        "NutriTech",
		Initials:    "NT",
		Category:    "Health Technology",
		Location:    "San Francisco, CA",
		FoundedYear: 2021,
		Description: "NutriTech is revolutionizing health technology with AI-powered nutrition analysis.",
		Funding:     "$4.2M",
		Valuation:   "$18.5M",

		GrowthRatePercent: 82,
		TeamSize:          38,
		RiskScore:         "A+",

		Investors:   []string{"Sequoia Capital", "Andreessen Horowitz", "Y Combinator"},
		Competitors: []string{"HealthAI", "NutriScan", "FoodLens"},
		Traction: []models.TractionSample{
			{Period: "Jan", UserCount: 2000},
			{Period: "Feb", UserCount: 3000},
			{Period: "Mar", UserCount: 5000},
			{Period: "Apr", UserCount: 7800},
			{Period: "May", UserCount: 10500},
			{Period: "Jun", UserCount: 14200},
		},
		RevenueStreams: []models.RevenueStream{
			{Label: "Enterprise", SharePercent: 45},
			{Label: "Consumer", SharePercent: 30},
			{Label: "Healthcare", SharePercent: 25},
		},
	}
}

// FinFlow returns a second, smaller profile for swap tests.
func FinFlow() models.CompanyProfile {
	return models.CompanyProfile{
		Name:              "FinFlow",
		Initials:          "FF",
		Category:          "FinTech",
		Location:          "London, UK",
		FoundedYear:       2019,
		Description:       "Cash-flow forecasting for small businesses.",
		Funding:           "$12M",
		Valuation:         "$60M",
		GrowthRatePercent: 12.5,
		TeamSize:          120,
		RiskScore:         "B",
		Investors:         []string{"Index Ventures"},
		Competitors:       []string{"Pulse", "Float", "Fathom", "Agicap"},
		Traction: []models.TractionSample{
			{Period: "Q1", UserCount: 40000},
			{Period: "Q2", UserCount: 41000},
		},
		RevenueStreams: []models.RevenueStream{
			{Label: "Subscriptions", SharePercent: 70},
			{Label: "Payments", SharePercent: 20},
			{Label: "Advisory", SharePercent: 6},
			{Label: "Other", SharePercent: 1},
		},
	}
}

// CatalogYAML is a two-profile catalog in the on-disk format.
const CatalogYAML = `
profiles:
  - name: NutriTech
    initials: NT
    category: Health Technology
    location: San Francisco, CA
    founded_year: 2021
    description: NutriTech is revolutionizing health technology.
    funding: $4.2M
    valuation: $18.5M
    growth_rate_percent: 82
    team_size: 38
    risk_score: A+
    investors: [Sequoia Capital, Andreessen Horowitz, Y Combinator]
    competitors: [HealthAI, NutriScan, FoodLens]
    traction:
      - { period: Jan, user_count: 2000 }
      - { period: Jun, user_count: 14200 }
    revenue_streams:
      - { label: Enterprise, share_percent: 45 }
      - { label: Consumer, share_percent: 30 }
      - { label: Healthcare, share_percent: 25 }
  - name: FinFlow
    category: FinTech
    location: London, UK
    founded_year: 2019
    funding: $12M
    growth_rate_percent: 12.5
    team_size: 120
    risk_score: B
`

// MustEqualProfiles fails the test when the two profiles differ in any
// field the dashboard shows.
func MustEqualProfiles(t *testing.T, got, want models.CompanyProfile) {
	t.Helper()
	if got.Name != want.Name || got.Initials != want.Initials || got.Category != want.Category {
		t.Fatalf("identity: got %s/%s/%s, want %s/%s/%s",
			got.Name, got.Initials, got.Category, want.Name, want.Initials, want.Category)
	}
	if len(got.Traction) != len(want.Traction) {
		t.Fatalf("traction length: got %d, want %d", len(got.Traction), len(want.Traction))
	}
	if len(got.RevenueStreams) != len(want.RevenueStreams) {
		t.Fatalf("revenue streams length: got %d, want %d", len(got.RevenueStreams), len(want.RevenueStreams))
	}
}
