package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight-desk/internal/core/logger"
	"freight-desk/internal/features/milestones/domain"
	"freight-desk/internal/features/milestones/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine drives the milestone state machine of shipments: it validates
// advances against the active sequence, derives the coarse status, keeps the
// append-only history and notifies downstream systems.
type Engine struct {
	progress ports.ProgressRepository
	history  ports.HistoryRepository
	events   ports.StatusEventPublisher
}

// NewEngine creates a new Engine.
func NewEngine(progress ports.ProgressRepository, history ports.HistoryRepository, events ports.StatusEventPublisher) *Engine {
	return &Engine{
		progress: progress,
		history:  history,
		events:   events,
	}
}

// ListDefinitions returns the ordered milestone sequence for a
// mode/direction pair.
func (e *Engine) ListDefinitions(mode domain.TransportMode, direction domain.Direction) ([]domain.MilestoneDefinition, error) {
	seq, err := domain.SequenceFor(mode, direction)
	if err != nil {
		return nil, err
	}
	return seq.Milestones, nil
}

// Start creates the progress record for a freshly booked shipment at
// milestone 1 and writes the first history entry.
func (e *Engine) Start(ctx context.Context, shipmentID string, mode domain.TransportMode, direction domain.Direction, actor string) (*domain.ShipmentProgress, error) {
	seq, err := domain.SequenceFor(mode, direction)
	if err != nil {
		return nil, err
	}

	if _, err := e.progress.Find(ctx, shipmentID); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrShipmentExists, shipmentID)
	} else if !errors.Is(err, domain.ErrShipmentNotFound) {
		return nil, fmt.Errorf("failed to check shipment progress: %w", err)
	}

	progress := domain.ShipmentProgress{
		ShipmentID:         shipmentID,
		TransportMode:      mode,
		Direction:          direction,
		CurrentMilestoneID: 1,
		StatusCode:         seq.StatusFor(1),
	}

	if err := e.progress.Save(ctx, progress); err != nil {
		return nil, fmt.Errorf("failed to save shipment progress: %w", err)
	}

	if err := e.record(ctx, progress, seq, actor); err != nil {
		return nil, err
	}

	return &progress, nil
}

// Progress returns the current stored state of a shipment.
func (e *Engine) Progress(ctx context.Context, shipmentID string) (*domain.ShipmentProgress, error) {
	return e.progress.Find(ctx, shipmentID)
}

// Advance moves a shipment's milestone pointer and returns the updated
// progress with the rendered milestone text. Ids outside the active
// sequence's range fail with InvalidMilestoneError and leave the stored
// state untouched. Setting an earlier id is allowed administratively; the
// status is always recomputed from the new pointer.
func (e *Engine) Advance(ctx context.Context, shipmentID string, milestoneID int, actor string) (*domain.ShipmentProgress, string, error) {
	current, err := e.progress.Find(ctx, shipmentID)
	if err != nil {
		return nil, "", err
	}

	seq, err := domain.SequenceFor(current.TransportMode, current.Direction)
	if err != nil {
		return nil, "", err
	}

	if milestoneID < 1 || milestoneID > seq.MaxID() {
		return nil, "", &domain.InvalidMilestoneError{
			ShipmentID:  shipmentID,
			MilestoneID: milestoneID,
			Sequence:    seq.Key.String(),
			MaxID:       seq.MaxID(),
		}
	}

	updated := *current
	updated.CurrentMilestoneID = milestoneID
	updated.StatusCode = seq.StatusFor(milestoneID)

	if err := e.progress.Save(ctx, updated); err != nil {
		return nil, "", fmt.Errorf("failed to save shipment progress: %w", err)
	}

	if err := e.record(ctx, updated, seq, actor); err != nil {
		return nil, "", err
	}

	return &updated, seq.RenderedText(milestoneID), nil
}

// record appends the history entry for the current pointer and publishes the
// status-changed event. Publishing is best effort: the advance is already
// durable, so a broker outage only logs a warning.
func (e *Engine) record(ctx context.Context, progress domain.ShipmentProgress, seq domain.Sequence, actor string) error {
	now := time.Now().UTC()
	rendered := seq.RenderedText(progress.CurrentMilestoneID)

	entry := domain.HistoryEntry{
		ID:           uuid.NewString(),
		ShipmentID:   progress.ShipmentID,
		MilestoneID:  progress.CurrentMilestoneID,
		Timestamp:    now,
		Actor:        actor,
		RenderedText: rendered,
	}
	if err := e.history.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append milestone history: %w", err)
	}

	event := domain.StatusChangedEvent{
		ShipmentID:   progress.ShipmentID,
		MilestoneID:  progress.CurrentMilestoneID,
		StatusCode:   progress.StatusCode,
		RenderedText: rendered,
		Actor:        actor,
		OccurredAt:   now,
	}
	if err := e.events.PublishStatusChanged(ctx, event); err != nil {
		logger.Get().Warn("Failed to publish status-changed event",
			zap.String("shipmentId", progress.ShipmentID),
			zap.Error(err),
		)
	}

	return nil
}

// View builds the completion view of a shipment: every milestone of the
// active sequence with its state relative to the current pointer, enriched
// with who completed it and when from the history log. The view is
// recomputed on every call and never stored.
func (e *Engine) View(ctx context.Context, shipmentID string) (*domain.CompletionView, error) {
	progress, err := e.progress.Find(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	seq, err := domain.SequenceFor(progress.TransportMode, progress.Direction)
	if err != nil {
		return nil, err
	}

	entries, err := e.history.ListByShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestone history: %w", err)
	}

	// Latest history entry per milestone wins; administrative re-sets may
	// touch the same milestone twice.
	latest := make(map[int]domain.HistoryEntry, len(entries))
	for _, entry := range entries {
		latest[entry.MilestoneID] = entry
	}

	view := &domain.CompletionView{
		ShipmentID:         progress.ShipmentID,
		TransportMode:      progress.TransportMode,
		Direction:          progress.Direction,
		CurrentMilestoneID: progress.CurrentMilestoneID,
		StatusCode:         progress.StatusCode,
		Milestones:         make([]domain.CompletionEntry, 0, seq.MaxID()),
	}

	for _, def := range seq.Milestones {
		entry := domain.CompletionEntry{
			MilestoneDefinition: def,
			State:               stateOf(def.ID, progress.CurrentMilestoneID),
		}
		if entry.State == domain.StateCompleted {
			if h, ok := latest[def.ID]; ok {
				ts := h.Timestamp
				entry.CompletedAt = &ts
				entry.CompletedBy = h.Actor
			}
		}
		view.Milestones = append(view.Milestones, entry)
	}

	return view, nil
}

func stateOf(id, current int) domain.MilestoneState {
	switch {
	case id <= current:
		return domain.StateCompleted
	case id == current+1:
		return domain.StatePending
	default:
		return domain.StateFuture
	}
}
