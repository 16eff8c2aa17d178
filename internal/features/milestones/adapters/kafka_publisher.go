package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"freight-desk/internal/features/milestones/domain"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher publishes status-changed events to a Kafka topic. Messages
// are keyed by shipment id so all events of one shipment land on the same
// partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given broker and topic.
func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishStatusChanged sends one event to the topic.
func (p *KafkaPublisher) PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ShipmentID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write status event: %w", err)
	}
	return nil
}

// Close shuts down the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
