package adapters

import (
	"context"
	"fmt"
	"sync"

	"freight-desk/internal/features/milestones/domain"
)

// MemoryProgressRepository is an in-memory ProgressRepository for tests and
// single-node setups without a database.
type MemoryProgressRepository struct {
	mu      sync.RWMutex
	records map[string]domain.ShipmentProgress
}

// NewMemoryProgressRepository creates an empty in-memory progress repository.
func NewMemoryProgressRepository() *MemoryProgressRepository {
	return &MemoryProgressRepository{
		records: make(map[string]domain.ShipmentProgress),
	}
}

// Find returns the progress record for a shipment.
func (r *MemoryProgressRepository) Find(ctx context.Context, shipmentID string) (*domain.ShipmentProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	progress, ok := r.records[shipmentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrShipmentNotFound, shipmentID)
	}
	return &progress, nil
}

// Save creates or replaces a progress record. Last write wins.
func (r *MemoryProgressRepository) Save(ctx context.Context, progress domain.ShipmentProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[progress.ShipmentID] = progress
	return nil
}

// MemoryHistoryRepository is an in-memory append-only milestone log.
type MemoryHistoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]domain.HistoryEntry
}

// NewMemoryHistoryRepository creates an empty in-memory history repository.
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		entries: make(map[string][]domain.HistoryEntry),
	}
}

// Append records one history entry.
func (r *MemoryHistoryRepository) Append(ctx context.Context, entry domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[entry.ShipmentID] = append(r.entries[entry.ShipmentID], entry)
	return nil
}

// ListByShipment returns all entries for a shipment in append order.
func (r *MemoryHistoryRepository) ListByShipment(ctx context.Context, shipmentID string) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[shipmentID]
	out := make([]domain.HistoryEntry, len(entries))
	copy(out, entries)
	return out, nil
}
