package ports

import (
	"context"

	"freight-desk/internal/features/partners/domain"
)

// PartnerCatalog provides the list of available logistics partners.
// The catalog is owned by the office CRM backend; it may be incomplete and
// consumers must tolerate referenced partners being absent.
type PartnerCatalog interface {
	// ListPartners returns all partners currently on file.
	ListPartners(ctx context.Context) ([]domain.Partner, error)
}
