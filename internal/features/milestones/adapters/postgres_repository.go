package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-desk/internal/features/milestones/domain"
)

// PostgresProgressRepository implements ports.ProgressRepository on Postgres.
type PostgresProgressRepository struct {
	db *sql.DB
}

// NewPostgresProgressRepository creates a Postgres-backed progress repository.
func NewPostgresProgressRepository(db *sql.DB) *PostgresProgressRepository {
	return &PostgresProgressRepository{db: db}
}

// Find returns the progress record for a shipment.
func (r *PostgresProgressRepository) Find(ctx context.Context, shipmentID string) (*domain.ShipmentProgress, error) {
	query := `
        SELECT shipment_id, transport_mode, direction, current_milestone_id, status_code
        FROM shipment_progress
        WHERE shipment_id = $1`

	var progress domain.ShipmentProgress
	var mode, direction, status string

	err := r.db.QueryRowContext(ctx, query, shipmentID).Scan(
		&progress.ShipmentID, &mode, &direction,
		&progress.CurrentMilestoneID, &status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrShipmentNotFound, shipmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shipment progress: %w", err)
	}

	progress.TransportMode = domain.TransportMode(mode)
	progress.Direction = domain.Direction(direction)
	progress.StatusCode = domain.StatusCode(status)
	return &progress, nil
}

// Save upserts a progress record. Last write wins.
func (r *PostgresProgressRepository) Save(ctx context.Context, progress domain.ShipmentProgress) error {
	query := `
        INSERT INTO shipment_progress (shipment_id, transport_mode, direction, current_milestone_id, status_code)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (shipment_id) DO UPDATE SET
            current_milestone_id = EXCLUDED.current_milestone_id,
            status_code = EXCLUDED.status_code`

	_, err := r.db.ExecContext(ctx, query,
		progress.ShipmentID, string(progress.TransportMode), string(progress.Direction),
		progress.CurrentMilestoneID, string(progress.StatusCode),
	)
	if err != nil {
		return fmt.Errorf("failed to save shipment progress: %w", err)
	}
	return nil
}

// PostgresHistoryRepository implements ports.HistoryRepository on Postgres.
// The table is insert-only; no update or delete statement exists on purpose.
type PostgresHistoryRepository struct {
	db *sql.DB
}

// NewPostgresHistoryRepository creates a Postgres-backed history repository.
func NewPostgresHistoryRepository(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

// Append records one history entry.
func (r *PostgresHistoryRepository) Append(ctx context.Context, entry domain.HistoryEntry) error {
	query := `
        INSERT INTO milestone_history (id, shipment_id, milestone_id, occurred_at, actor, rendered_text)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.ShipmentID, entry.MilestoneID,
		entry.Timestamp, entry.Actor, entry.RenderedText,
	)
	if err != nil {
		return fmt.Errorf("failed to append milestone history: %w", err)
	}
	return nil
}

// ListByShipment returns all entries for a shipment, oldest first.
func (r *PostgresHistoryRepository) ListByShipment(ctx context.Context, shipmentID string) ([]domain.HistoryEntry, error) {
	query := `
        SELECT id, shipment_id, milestone_id, occurred_at, actor, rendered_text
        FROM milestone_history
        WHERE shipment_id = $1
        ORDER BY occurred_at, id`

	rows, err := r.db.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestone history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID, &entry.ShipmentID, &entry.MilestoneID,
			&entry.Timestamp, &entry.Actor, &entry.RenderedText,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read milestone history: %w", err)
	}

	return entries, nil
}
