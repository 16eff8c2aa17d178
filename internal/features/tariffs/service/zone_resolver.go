package service

import (
	"context"

	"freight-desk/internal/core/logger"
	"freight-desk/internal/features/tariffs/domain"
	"freight-desk/internal/features/tariffs/ports"

	"go.uber.org/zap"
)

// ZoneResolver maps postal codes to a partner's zone codes by prefix matching.
type ZoneResolver struct {
	rules ports.ZoneRuleRepository
}

// NewZoneResolver creates a new ZoneResolver backed by the given rule repository.
func NewZoneResolver(rules ports.ZoneRuleRepository) *ZoneResolver {
	return &ZoneResolver{rules: rules}
}

// Resolve returns the zone code for a postal code. A 3-character prefix match
// is preferred over a 2-character one. When no rule matches, or the lookup
// itself fails, it falls back to the default zone so pricing always proceeds.
func (r *ZoneResolver) Resolve(ctx context.Context, partnerID, postalCode string) string {
	prefixes := candidatePrefixes(postalCode)
	if len(prefixes) == 0 {
		return domain.DefaultZone
	}

	matches, err := r.rules.FindByPartnerAndPrefixes(ctx, partnerID, prefixes...)
	if err != nil {
		logger.Get().Warn("Zone rule lookup failed, using default zone",
			zap.String("partner_id", partnerID),
			zap.String("postal_code", postalCode),
			zap.Error(err),
		)
		return domain.DefaultZone
	}

	best := ""
	bestLen := 0
	for _, rule := range matches {
		if len(rule.PostalPrefix) > bestLen {
			best = rule.ZoneCode
			bestLen = len(rule.PostalPrefix)
		}
	}

	if best == "" {
		return domain.DefaultZone
	}
	return best
}

// candidatePrefixes returns the 3- and 2-character prefixes of a postal code,
// longest first. Codes shorter than 2 characters yield nothing.
func candidatePrefixes(postalCode string) []string {
	var prefixes []string
	if len(postalCode) >= 3 {
		prefixes = append(prefixes, postalCode[:3])
	}
	if len(postalCode) >= 2 {
		prefixes = append(prefixes, postalCode[:2])
	}
	return prefixes
}
