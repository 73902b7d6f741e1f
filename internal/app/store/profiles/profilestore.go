// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/dalemusser/startupinsight/internal/app/system/htmlsanitize"
	"github.com/dalemusser/startupinsight/internal/domain/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when no profile has the requested name.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidProfile is returned when a catalog entry fails validation.
	ErrInvalidProfile = errors.New("invalid profile")
)

// catalogFile is the on-disk layout of a profile catalog.
type catalogFile struct {
	Profiles []models.CompanyProfile `yaml:"profiles"`
}

// Store is a read-mostly, in-memory catalog of company profiles.
// Profiles are looked up by name, case-insensitively. Every profile handed
// out is a deep copy, so callers may keep it as their own value.
type Store struct {
	mu     sync.RWMutex
	byName map[string]models.CompanyProfile
	order  []string
	log    *zap.Logger
}

// New builds a store from already-decoded profiles.
func New(profiles []models.CompanyProfile, logger *zap.Logger) (*Store, error) {
	s := &Store{log: logger}
	if err := s.Replace(profiles); err != nil {
		return nil, err
	}
	return s, nil
}

// Load decodes a YAML catalog and builds a store from it.
func Load(data []byte, logger *zap.Logger) (*Store, error) {
	profiles, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(profiles, logger)
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string, logger *zap.Logger) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile catalog %s: %w", path, err)
	}
	return Load(data, logger)
}

// Parse decodes a YAML catalog. It does not validate entries; New does.
func Parse(data []byte) ([]models.CompanyProfile, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode profile catalog: %w", err)
	}
	return f.Profiles, nil
}

// Replace swaps the whole catalog. Either every profile is accepted and the
// catalog changes as a unit, or an error is returned and nothing changes.
func (s *Store) Replace(profiles []models.CompanyProfile) error {
	if len(profiles) == 0 {
		return fmt.Errorf("%w: catalog is empty", ErrInvalidProfile)
	}

	byName := make(map[string]models.CompanyProfile, len(profiles))
	order := make([]string, 0, len(profiles))
	for i, p := range profiles {
		if s.log != nil && !plainTextOnly(p) {
			s.log.Warn("markup stripped from profile text", zap.String("name", htmlsanitize.PlainText(p.Name)))
		}
		p, err := normalize(p)
		if err != nil {
			return fmt.Errorf("profile %d: %w", i, err)
		}
		key := nameKey(p.Name)
		if _, dup := byName[key]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidProfile, p.Name)
		}
		byName[key] = p
		order = append(order, p.Name)
	}

	s.mu.Lock()
	s.byName = byName
	s.order = order
	s.mu.Unlock()

	if s.log != nil {
		s.log.Info("profile catalog loaded", zap.Int("profiles", len(order)))
	}
	return nil
}

// Get returns the profile with the given name.
func (s *Store) Get(name string) (models.CompanyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byName[nameKey(name)]
	if !ok {
		return models.CompanyProfile{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p.Clone(), nil
}

// Default returns the preferred profile, or the first one in catalog order
// when preferred is blank.
func (s *Store) Default(preferred string) (models.CompanyProfile, error) {
	if strings.TrimSpace(preferred) != "" {
		return s.Get(preferred)
	}
	s.mu.RLock()
	first := s.order[0]
	s.mu.RUnlock()
	return s.Get(first)
}

// Names lists profile names in catalog order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Len returns the number of profiles in the catalog.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalize cleans text fields and checks the few facts the dashboard relies on.
func normalize(p models.CompanyProfile) (models.CompanyProfile, error) {
	p = p.Clone()

	p.Name = htmlsanitize.PlainText(p.Name)
	if p.Name == "" {
		return p, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	p.Initials = htmlsanitize.PlainText(p.Initials)
	if p.Initials == "" {
		p.Initials = defaultInitials(p.Name)
	}
	p.Category = htmlsanitize.PlainText(p.Category)
	p.Location = htmlsanitize.PlainText(p.Location)
	p.Description = htmlsanitize.PlainText(p.Description)
	p.Funding = htmlsanitize.PlainText(p.Funding)
	p.Valuation = htmlsanitize.PlainText(p.Valuation)
	p.RiskScore = htmlsanitize.PlainText(p.RiskScore)

	if p.TeamSize < 0 {
		return p, fmt.Errorf("%w: %s: team size is negative", ErrInvalidProfile, p.Name)
	}
	for i := range p.Investors {
		p.Investors[i] = htmlsanitize.PlainText(p.Investors[i])
	}
	for i := range p.Competitors {
		p.Competitors[i] = htmlsanitize.PlainText(p.Competitors[i])
	}
	for i, t := range p.Traction {
		if t.UserCount < 0 {
			return p, fmt.Errorf("%w: %s: traction %q has a negative user count", ErrInvalidProfile, p.Name, t.Period)
		}
		p.Traction[i].Period = htmlsanitize.PlainText(t.Period)
	}
	for i := range p.RevenueStreams {
		p.RevenueStreams[i].Label = htmlsanitize.PlainText(p.RevenueStreams[i].Label)
	}
	return p, nil
}

// plainTextOnly reports whether every free-text field of p is free of
// markup, so normalize leaves its content alone.
func plainTextOnly(p models.CompanyProfile) bool {
	fields := []string{p.Name, p.Initials, p.Category, p.Location, p.Description, p.Funding, p.Valuation, p.RiskScore}
	fields = append(fields, p.Investors...)
	fields = append(fields, p.Competitors...)
	for _, t := range p.Traction {
		fields = append(fields, t.Period)
	}
	for _, rs := range p.RevenueStreams {
		fields = append(fields, rs.Label)
	}
	for _, f := range fields {
		if !htmlsanitize.IsPlainText(f) {
			return false
		}
	}
	return true
}

// defaultInitials takes the first two letters or digits of the name, upper-cased.
func defaultInitials(name string) string {
	out := make([]rune, 0, 2)
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToUpper(r))
			if len(out) == 2 {
				break
			}
		}
	}
	return string(out)
}
