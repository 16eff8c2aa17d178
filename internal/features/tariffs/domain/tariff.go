package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultZone is returned when no zone rule matches a postal code.
// Pricing must always produce some answer even with incomplete master data.
const DefaultZone = "ZONE1"

// SurchargeKind describes how a bracket's surcharge is computed.
type SurchargeKind string

const (
	// SurchargePerPiece charges per piece beyond an included allowance.
	SurchargePerPiece SurchargeKind = "per_piece"
	// SurchargePerKg charges per kilogram between a floor and a cap.
	SurchargePerKg SurchargeKind = "per_kg"
	// SurchargeNone applies no surcharge.
	SurchargeNone SurchargeKind = "none"
)

var (
	// ErrInvalidWeightRange is returned when a bracket's weight range is inverted.
	ErrInvalidWeightRange = errors.New("weight_from must not exceed weight_to")
)

// ZoneRule maps a postal code prefix to a zone code for one partner.
// Longer prefixes take priority over shorter ones for the same partner.
type ZoneRule struct {
	// PartnerID identifies the logistics partner this rule belongs to.
	PartnerID string `json:"partner_id"`
	// PostalPrefix is the leading 2 or 3 digits of a postal code.
	PostalPrefix string `json:"postal_prefix"`
	// ZoneCode is the geographic zone the prefix maps to.
	ZoneCode string `json:"zone_code"`
}

// RateBracket is one row of a partner's tariff table: a price for a
// (zone, airport) lane within an inclusive weight range.
type RateBracket struct {
	PartnerID   string `json:"partner_id"`
	ZoneCode    string `json:"zone_code"`
	AirportCode string `json:"airport_code"`
	// WeightFrom and WeightTo bound the applicable weight, inclusive both ends.
	WeightFrom float64 `json:"weight_from"`
	WeightTo   float64 `json:"weight_to"`
	// BasePrice is the lane price before surcharges.
	BasePrice decimal.Decimal `json:"base_price"`
	// SurchargeKind selects the surcharge formula.
	SurchargeKind SurchargeKind `json:"surcharge_kind"`
	// SurchargeBase is the fixed part (per_piece) or minimum charge (per_kg).
	SurchargeBase decimal.Decimal `json:"surcharge_base"`
	// SurchargeIncludedUnits is the piece allowance covered by SurchargeBase.
	SurchargeIncludedUnits int `json:"surcharge_included_units"`
	// SurchargePerUnit is the rate per excess piece or per kilogram.
	SurchargePerUnit decimal.Decimal `json:"surcharge_per_unit"`
	// SurchargeCap is the per_kg ceiling. Ignored for other kinds.
	SurchargeCap decimal.Decimal `json:"surcharge_cap"`
}

// Validate checks the bracket's internal invariants.
func (b RateBracket) Validate() error {
	if b.WeightFrom > b.WeightTo {
		return fmt.Errorf("%w: [%f, %f]", ErrInvalidWeightRange, b.WeightFrom, b.WeightTo)
	}
	return nil
}

// Contains reports whether the given weight falls inside the bracket's range.
func (b RateBracket) Contains(weight float64) bool {
	return weight >= b.WeightFrom && weight <= b.WeightTo
}

// Overlaps reports whether two brackets for the same lane overlap in weight.
func (b RateBracket) Overlaps(other RateBracket) bool {
	if b.PartnerID != other.PartnerID || b.ZoneCode != other.ZoneCode || b.AirportCode != other.AirportCode {
		return false
	}
	return b.WeightFrom <= other.WeightTo && other.WeightFrom <= b.WeightTo
}

// Surcharge computes the bracket's surcharge for the given weight and piece count.
func (b RateBracket) Surcharge(weight float64, pieces int) decimal.Decimal {
	switch b.SurchargeKind {
	case SurchargePerPiece:
		excess := pieces - b.SurchargeIncludedUnits
		if excess < 0 {
			excess = 0
		}
		return b.SurchargeBase.Add(b.SurchargePerUnit.Mul(decimal.NewFromInt(int64(excess))))
	case SurchargePerKg:
		charged := b.SurchargePerUnit.Mul(decimal.NewFromFloat(weight))
		if charged.GreaterThan(b.SurchargeCap) {
			charged = b.SurchargeCap
		}
		if charged.LessThan(b.SurchargeBase) {
			charged = b.SurchargeBase
		}
		return charged
	default:
		return decimal.Zero
	}
}

// CostBreakdown is the computed price for one shipment leg.
// It is created fresh on every pricing request and never mutated.
type CostBreakdown struct {
	BaseCost      decimal.Decimal `json:"base_cost"`
	SurchargeCost decimal.Decimal `json:"surcharge_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Currency      string          `json:"currency"`
	ZoneUsed      string          `json:"zone_used"`
}

// SellingPrice derives a selling price from the total cost by applying the
// given margin percentage, rounded to two decimal places.
func (c CostBreakdown) SellingPrice(marginPercent float64) decimal.Decimal {
	factor := decimal.NewFromFloat(1).Add(decimal.NewFromFloat(marginPercent).Div(decimal.NewFromInt(100)))
	return c.TotalCost.Mul(factor).Round(2)
}

// NoTariffError reports that no rate bracket covered the attempted lookup.
// It carries the lookup parameters so missing master data can be diagnosed.
type NoTariffError struct {
	PartnerID   string  `json:"partner_id"`
	ZoneCode    string  `json:"zone_code"`
	AirportCode string  `json:"airport_code"`
	Weight      float64 `json:"weight"`
}

func (e *NoTariffError) Error() string {
	return fmt.Sprintf("no tariff found for partner %s, zone %s, airport %s, weight %.2f",
		e.PartnerID, e.ZoneCode, e.AirportCode, e.Weight)
}

// OverlapError reports that more than one bracket matched a lookup.
// Overlapping brackets are a data-integrity fault, not a silent first-pick.
type OverlapError struct {
	PartnerID   string  `json:"partner_id"`
	ZoneCode    string  `json:"zone_code"`
	AirportCode string  `json:"airport_code"`
	Weight      float64 `json:"weight"`
	Matches     int     `json:"matches"`
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%d overlapping rate brackets for partner %s, zone %s, airport %s at weight %.2f",
		e.Matches, e.PartnerID, e.ZoneCode, e.AirportCode, e.Weight)
}
