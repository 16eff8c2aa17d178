package adapters

import (
	"context"

	"freight-desk/internal/features/milestones/domain"
)

// NoopPublisher satisfies the StatusEventPublisher port when no broker is
// configured.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that drops all events.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// PublishStatusChanged discards the event.
func (p *NoopPublisher) PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error {
	return nil
}
