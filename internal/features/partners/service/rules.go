package service

import "freight-desk/internal/features/partners/domain"

// RecommendationRule is one entry of the ordered decision table. Empty
// predicate fields are wildcards. A rule references its partner either by
// CRM id or by a case-insensitive name fragment, never both.
type RecommendationRule struct {
	Leg domain.Leg

	// Predicate fields. All non-empty fields must match the shipment.
	OriginAirport string
	DestAirport   string
	TransportMode domain.TransportMode
	DestCountry   string

	// Partner reference.
	PartnerID           string
	PartnerNameContains string

	// ConfidencePercent is the literal historical-usage confidence.
	ConfidencePercent int
}

// Matches reports whether the rule's predicate covers the given shipment.
func (r RecommendationRule) Matches(attrs domain.ShipmentAttributes) bool {
	if r.OriginAirport != "" && r.OriginAirport != attrs.OriginAirport {
		return false
	}
	if r.DestAirport != "" && r.DestAirport != attrs.DestAirport {
		return false
	}
	if r.TransportMode != "" && r.TransportMode != attrs.TransportMode {
		return false
	}
	if r.DestCountry != "" && r.DestCountry != attrs.DestCountry {
		return false
	}
	return true
}

// DefaultRules is the hand-maintained decision table, evaluated top to
// bottom per leg; the first rule that matches and resolves to a partner in
// the catalog wins. Exact airport/partner-id rules come first, then
// name-fragment rules, then country fallbacks. Confidence percentages come
// from historical partner usage on the lane.
var DefaultRules = []RecommendationRule{
	// Pickup: exact origin airport rules.
	{Leg: domain.LegPickup, OriginAirport: "FRA", PartnerID: "TRK-RHEIN", ConfidencePercent: 95},
	{Leg: domain.LegPickup, OriginAirport: "HAM", PartnerID: "TRK-HANSE", ConfidencePercent: 90},
	{Leg: domain.LegPickup, OriginAirport: "MUC", PartnerID: "TRK-ALPEN", ConfidencePercent: 85},
	// Pickup: name fallback for any German airfreight origin.
	{Leg: domain.LegPickup, TransportMode: domain.ModeAir, PartnerNameContains: "spedition", ConfidencePercent: 60},

	// Mainrun: exact lane rules.
	{Leg: domain.LegMainrun, OriginAirport: "FRA", DestAirport: "JFK", PartnerID: "AIR-ATLAS", ConfidencePercent: 95},
	{Leg: domain.LegMainrun, OriginAirport: "FRA", DestAirport: "ORD", PartnerID: "AIR-ATLAS", ConfidencePercent: 90},
	{Leg: domain.LegMainrun, OriginAirport: "FRA", DestAirport: "DXB", PartnerNameContains: "gulf", ConfidencePercent: 85},
	{Leg: domain.LegMainrun, DestAirport: "SIN", TransportMode: domain.ModeAir, PartnerNameContains: "pacific", ConfidencePercent: 80},
	{Leg: domain.LegMainrun, TransportMode: domain.ModeSea, PartnerNameContains: "ocean", ConfidencePercent: 70},

	// Delivery: destination country fallbacks.
	{Leg: domain.LegDelivery, DestCountry: "US", PartnerID: "DLV-LIBERTY", ConfidencePercent: 85},
	{Leg: domain.LegDelivery, DestCountry: "AE", PartnerNameContains: "emirates", ConfidencePercent: 75},
	{Leg: domain.LegDelivery, DestCountry: "SG", PartnerNameContains: "lion", ConfidencePercent: 75},
	{Leg: domain.LegDelivery, DestCountry: "DE", PartnerNameContains: "kurier", ConfidencePercent: 65},
}
