package ports

import (
	"context"

	"freight-desk/internal/features/milestones/domain"
)

// ProgressRepository persists the milestone state of shipments.
type ProgressRepository interface {
	// Find returns the progress record for a shipment, or
	// domain.ErrShipmentNotFound.
	Find(ctx context.Context, shipmentID string) (*domain.ShipmentProgress, error)
	// Save creates or replaces a progress record. Concurrent writes to the
	// same shipment are last-write-wins.
	Save(ctx context.Context, progress domain.ShipmentProgress) error
}

// HistoryRepository stores the append-only milestone log.
type HistoryRepository interface {
	// Append records one history entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry domain.HistoryEntry) error
	// ListByShipment returns all entries for a shipment, oldest first.
	ListByShipment(ctx context.Context, shipmentID string) ([]domain.HistoryEntry, error)
}

// StatusEventPublisher notifies downstream systems of status changes.
type StatusEventPublisher interface {
	PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error
}
