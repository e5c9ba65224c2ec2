package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"Aria_AI/internal/database/kafka"
	"Aria_AI/internal/models"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher sends extraction events to the memory topic after chat
// turns complete.
type Publisher struct {
	client *kafka.Client
}

// NewPublisher creates a Publisher.
func NewPublisher(client *kafka.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues one extraction event, keyed by user so a user's
// events stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, event *models.ExtractionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction event: %w", err)
	}
	err = p.client.Writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.UserID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish extraction event: %w", err)
	}
	return nil
}
