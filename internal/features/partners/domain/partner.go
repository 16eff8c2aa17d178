package domain

// Leg identifies one section of a multi-leg transport.
type Leg string

const (
	// LegPickup is the pre-carriage from the shipper to the origin hub.
	LegPickup Leg = "pickup"
	// LegMainrun is the main carriage between origin and destination hubs.
	LegMainrun Leg = "mainrun"
	// LegDelivery is the on-carriage from the destination hub to the consignee.
	LegDelivery Leg = "delivery"
)

// TransportMode is the mode of the main carriage.
type TransportMode string

const (
	ModeAir   TransportMode = "air"
	ModeSea   TransportMode = "sea"
	ModeTruck TransportMode = "truck"
)

// Partner is a logistics partner from the office CRM catalog.
type Partner struct {
	// ID is the CRM identifier of the partner.
	ID string `json:"id"`
	// Name is the partner's display name.
	Name string `json:"name"`
	// Country is the ISO country code the partner operates from.
	Country string `json:"country"`
}

// ShipmentAttributes are the route attributes a recommendation is based on.
type ShipmentAttributes struct {
	OriginAirport string        `json:"origin_airport"`
	DestAirport   string        `json:"dest_airport"`
	TransportMode TransportMode `json:"transport_mode"`
	DestCountry   string        `json:"dest_country"`
}

// PartnerSuggestion proposes a partner for one leg with a confidence score.
// Suggestions are advisory and never persisted.
type PartnerSuggestion struct {
	Leg               Leg    `json:"leg"`
	PartnerID         string `json:"partner_id"`
	ConfidencePercent int    `json:"confidence_percent"`
}
