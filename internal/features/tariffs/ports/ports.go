package ports

import (
	"context"

	"freight-desk/internal/features/tariffs/domain"
)

// ZoneRuleRepository provides access to a partner's postal-prefix zone rules.
type ZoneRuleRepository interface {
	// FindByPartnerAndPrefixes returns all rules for the partner matching any
	// of the given prefixes. An empty result is not an error.
	FindByPartnerAndPrefixes(ctx context.Context, partnerID string, prefixes ...string) ([]domain.ZoneRule, error)

	// Save stores a zone rule, replacing any existing rule for the same
	// (partner, prefix) pair.
	Save(ctx context.Context, rule domain.ZoneRule) error
}

// RateBracketRepository provides access to partner tariff tables.
type RateBracketRepository interface {
	// FindBrackets returns every bracket for the lane whose weight range
	// contains the given weight. More than one result signals overlapping
	// master data; the caller decides how to treat that.
	FindBrackets(ctx context.Context, partnerID, zoneCode, airportCode string, weight float64) ([]domain.RateBracket, error)

	// Save stores a bracket after rejecting overlaps with existing brackets
	// on the same lane.
	Save(ctx context.Context, bracket domain.RateBracket) error
}
