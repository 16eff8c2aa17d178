package service

import (
	"context"
	"strings"

	"freight-desk/internal/core/logger"
	"freight-desk/internal/features/partners/domain"
	"freight-desk/internal/features/partners/ports"

	"go.uber.org/zap"
)

// Recommender proposes a partner per transport leg from an ordered decision
// table. It never fails: legs without an applicable rule, or whose rule
// references a partner missing from the catalog, simply yield no suggestion.
type Recommender struct {
	catalog ports.PartnerCatalog
	rules   []RecommendationRule
}

// NewRecommender creates a Recommender using the default decision table.
func NewRecommender(catalog ports.PartnerCatalog) *Recommender {
	return NewRecommenderWithRules(catalog, DefaultRules)
}

// NewRecommenderWithRules creates a Recommender with a custom rule table.
func NewRecommenderWithRules(catalog ports.PartnerCatalog, rules []RecommendationRule) *Recommender {
	return &Recommender{
		catalog: catalog,
		rules:   rules,
	}
}

// Recommend evaluates the rule table for each leg independently and returns
// at most one suggestion per leg. A failing catalog lookup disables partner
// resolution but still never raises to the caller.
func (r *Recommender) Recommend(ctx context.Context, attrs domain.ShipmentAttributes) []domain.PartnerSuggestion {
	partners, err := r.catalog.ListPartners(ctx)
	if err != nil {
		logger.Get().Warn("Partner catalog unavailable, skipping recommendations", zap.Error(err))
		return nil
	}

	var suggestions []domain.PartnerSuggestion
	for _, leg := range []domain.Leg{domain.LegPickup, domain.LegMainrun, domain.LegDelivery} {
		if suggestion, ok := r.recommendLeg(leg, attrs, partners); ok {
			suggestions = append(suggestions, suggestion)
		}
	}
	return suggestions
}

// recommendLeg walks the rule table top to bottom for one leg. The first
// rule whose predicate matches and whose partner exists in the catalog wins;
// rules are never combined or averaged.
func (r *Recommender) recommendLeg(leg domain.Leg, attrs domain.ShipmentAttributes, partners []domain.Partner) (domain.PartnerSuggestion, bool) {
	for _, rule := range r.rules {
		if rule.Leg != leg || !rule.Matches(attrs) {
			continue
		}

		partner, ok := resolvePartner(rule, partners)
		if !ok {
			// Referenced carrier not on file; absence is normal, try the next rule.
			continue
		}

		return domain.PartnerSuggestion{
			Leg:               leg,
			PartnerID:         partner.ID,
			ConfidencePercent: rule.ConfidencePercent,
		}, true
	}
	return domain.PartnerSuggestion{}, false
}

// resolvePartner finds the rule's referenced partner in the catalog, by exact
// id or by case-insensitive name fragment.
func resolvePartner(rule RecommendationRule, partners []domain.Partner) (domain.Partner, bool) {
	if rule.PartnerID != "" {
		for _, p := range partners {
			if p.ID == rule.PartnerID {
				return p, true
			}
		}
		return domain.Partner{}, false
	}

	if rule.PartnerNameContains != "" {
		fragment := strings.ToLower(rule.PartnerNameContains)
		for _, p := range partners {
			if strings.Contains(strings.ToLower(p.Name), fragment) {
				return p, true
			}
		}
	}
	return domain.Partner{}, false
}
