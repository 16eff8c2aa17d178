package adapters

import (
	"context"
	"fmt"
	"sync"

	"freight-desk/internal/features/tariffs/domain"
)

// MemoryZoneRuleRepository is an in-memory ZoneRuleRepository for tests and
// local development.
type MemoryZoneRuleRepository struct {
	mu    sync.RWMutex
	rules map[string]domain.ZoneRule // keyed by partnerID + "/" + prefix
}

// NewMemoryZoneRuleRepository creates an empty in-memory zone rule repository.
func NewMemoryZoneRuleRepository() *MemoryZoneRuleRepository {
	return &MemoryZoneRuleRepository{
		rules: make(map[string]domain.ZoneRule),
	}
}

// Save stores a zone rule, replacing any rule for the same (partner, prefix).
func (r *MemoryZoneRuleRepository) Save(ctx context.Context, rule domain.ZoneRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.PartnerID+"/"+rule.PostalPrefix] = rule
	return nil
}

// FindByPartnerAndPrefixes returns all rules matching any of the prefixes.
func (r *MemoryZoneRuleRepository) FindByPartnerAndPrefixes(ctx context.Context, partnerID string, prefixes ...string) ([]domain.ZoneRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []domain.ZoneRule
	for _, prefix := range prefixes {
		if rule, ok := r.rules[partnerID+"/"+prefix]; ok {
			matches = append(matches, rule)
		}
	}
	return matches, nil
}

// MemoryRateBracketRepository is an in-memory RateBracketRepository for tests
// and local development. Save enforces the non-overlap invariant the same way
// the Postgres repository does.
type MemoryRateBracketRepository struct {
	mu       sync.RWMutex
	brackets []domain.RateBracket
}

// NewMemoryRateBracketRepository creates an empty in-memory bracket repository.
func NewMemoryRateBracketRepository() *MemoryRateBracketRepository {
	return &MemoryRateBracketRepository{}
}

// Save stores a bracket after validating it and rejecting overlaps on the lane.
func (r *MemoryRateBracketRepository) Save(ctx context.Context, bracket domain.RateBracket) error {
	if err := bracket.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.brackets {
		if existing.Overlaps(bracket) {
			return fmt.Errorf("bracket [%f, %f] overlaps existing bracket [%f, %f] for partner %s, zone %s, airport %s",
				bracket.WeightFrom, bracket.WeightTo,
				existing.WeightFrom, existing.WeightTo,
				bracket.PartnerID, bracket.ZoneCode, bracket.AirportCode)
		}
	}

	r.brackets = append(r.brackets, bracket)
	return nil
}

// FindBrackets returns every bracket on the lane containing the given weight.
func (r *MemoryRateBracketRepository) FindBrackets(ctx context.Context, partnerID, zoneCode, airportCode string, weight float64) ([]domain.RateBracket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []domain.RateBracket
	for _, b := range r.brackets {
		if b.PartnerID == partnerID && b.ZoneCode == zoneCode && b.AirportCode == airportCode && b.Contains(weight) {
			matches = append(matches, b)
		}
	}
	return matches, nil
}
