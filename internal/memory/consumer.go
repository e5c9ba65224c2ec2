package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"Aria_AI/internal/database/kafka"
	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"
)

// Consumer reads extraction events from the memory topic, runs the
// fact extractor and stores the results.
type Consumer struct {
	client    *kafka.Client
	extractor Extractor
	memory    *Service
	log       *logger.Logger
}

// NewConsumer creates a Consumer.
func NewConsumer(client *kafka.Client, extractor Extractor, memory *Service, log *logger.Logger) *Consumer {
	return &Consumer{
		client:    client,
		extractor: extractor,
		memory:    memory,
		log:       log,
	}
}

// Start launches the consume loop in a goroutine. The loop exits when
// ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.client.Reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				c.log.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to fetch message")
				continue
			}

			var event models.ExtractionEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.log.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to unmarshal extraction event")
				// Poison message, skip it.
				if err := c.client.Reader.CommitMessages(ctx, msg); err != nil {
					c.log.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to commit message")
				}
				continue
			}

			if err := c.process(ctx, &event); err != nil {
				c.log.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to process extraction event")
				continue
			}

			if err := c.client.Reader.CommitMessages(ctx, msg); err != nil {
				c.log.WithError(models.ErrorInfo{Message: err.Error()}).Error("failed to commit message")
			}
		}
	}()
}

func (c *Consumer) process(ctx context.Context, event *models.ExtractionEvent) error {
	facts, err := c.extractor.Extract(ctx, event)
	if err != nil {
		return err
	}
	if len(facts) == 0 {
		return nil
	}

	ids, err := c.memory.SaveBatch(ctx, event.UserID, facts, models.SourceConversation)
	if err != nil {
		return err
	}
	c.log.WithPayload(map[string]interface{}{
		"user_id":         event.UserID,
		"conversation_id": event.ConversationID,
		"extracted":       len(facts),
		"saved":           len(ids),
	}).Info(fmt.Sprintf("stored %d new facts", len(ids)))
	return nil
}
