package service

import (
	"context"

	"freight-desk/internal/features/tariffs/domain"
	"freight-desk/internal/features/tariffs/ports"
)

// TariffResolver prices one shipment leg against a partner's tariff table.
// It is a pure function over the zone rules and rate brackets.
type TariffResolver struct {
	zones    *ZoneResolver
	brackets ports.RateBracketRepository
	currency string
}

// NewTariffResolver creates a TariffResolver. currency is the single
// denomination all tariffs are expressed in.
func NewTariffResolver(zones *ZoneResolver, brackets ports.RateBracketRepository, currency string) *TariffResolver {
	return &TariffResolver{
		zones:    zones,
		brackets: brackets,
		currency: currency,
	}
}

// Resolve computes the cost breakdown for one leg.
// It returns *domain.NoTariffError when no bracket covers the lookup, with
// the attempted parameters attached, and *domain.OverlapError when the
// tariff table contains overlapping brackets for the lane.
func (r *TariffResolver) Resolve(ctx context.Context, partnerID, postalCode string, weight float64, pieces int, airportCode string) (*domain.CostBreakdown, error) {
	zone := r.zones.Resolve(ctx, partnerID, postalCode)

	matches, err := r.brackets.FindBrackets(ctx, partnerID, zone, airportCode, weight)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, &domain.NoTariffError{
			PartnerID:   partnerID,
			ZoneCode:    zone,
			AirportCode: airportCode,
			Weight:      weight,
		}
	}

	if len(matches) > 1 {
		return nil, &domain.OverlapError{
			PartnerID:   partnerID,
			ZoneCode:    zone,
			AirportCode: airportCode,
			Weight:      weight,
			Matches:     len(matches),
		}
	}

	bracket := matches[0]
	surcharge := bracket.Surcharge(weight, pieces)

	return &domain.CostBreakdown{
		BaseCost:      bracket.BasePrice,
		SurchargeCost: surcharge,
		TotalCost:     bracket.BasePrice.Add(surcharge),
		Currency:      r.currency,
		ZoneUsed:      zone,
	}, nil
}
