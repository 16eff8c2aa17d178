package adapters

import (
	"context"

	"freight-desk/internal/features/partners/domain"
)

// StaticCatalog is an in-memory PartnerCatalog used in tests and when no CRM
// backend is configured.
type StaticCatalog struct {
	partners []domain.Partner
}

// NewStaticCatalog creates a catalog serving the given fixed partner list.
func NewStaticCatalog(partners []domain.Partner) *StaticCatalog {
	return &StaticCatalog{partners: partners}
}

// ListPartners returns the fixed partner list.
func (c *StaticCatalog) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	return c.partners, nil
}

// DefaultPartners is the built-in partner list used when no CRM backend is
// configured. It covers the lanes of the default recommendation rules.
var DefaultPartners = []domain.Partner{
	{ID: "TRK-RHEIN", Name: "Rhein Spedition GmbH", Country: "DE"},
	{ID: "TRK-HANSE", Name: "Hanse Spedition GmbH", Country: "DE"},
	{ID: "TRK-ALPEN", Name: "Alpen Spedition GmbH", Country: "DE"},
	{ID: "AIR-ATLAS", Name: "Atlas Air Cargo", Country: "US"},
	{ID: "AIR-GULF", Name: "Gulf Wings Cargo", Country: "AE"},
	{ID: "AIR-PAC", Name: "Pacific Sky Freight", Country: "SG"},
	{ID: "SEA-OCEAN", Name: "Ocean Line Shipping", Country: "DE"},
	{ID: "DLV-LIBERTY", Name: "Liberty Delivery Inc", Country: "US"},
	{ID: "DLV-EMIRATES", Name: "Emirates Express Delivery", Country: "AE"},
	{ID: "DLV-LION", Name: "Lion City Couriers", Country: "SG"},
	{ID: "DLV-KURIER", Name: "Stadt Kurier GmbH", Country: "DE"},
}
