package kafka

import (
	"context"
	"fmt"
	"time"

	"Aria_AI/internal/config"

	"github.com/segmentio/kafka-go"
)

// Client holds the writer and reader for the memory extraction topic.
type Client struct {
	Writer *kafka.Writer
	Reader *kafka.Reader
	conn   *kafka.Conn // admin connection, kept for health checks
}

// NewClient connects to Kafka, creates the configured topic when it
// does not exist yet, and builds a writer/reader pair for it.
func NewClient(cfg *config.KafkaConfig) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no Kafka brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("no Kafka topic configured")
	}

	// 1. Establish an admin connection.
	conn, err := kafka.Dial("tcp", cfg.Brokers[0])
	if err != nil {
		return nil, fmt.Errorf("failed to dial Kafka: %w", err)
	}

	// 2. Create the topic if it is missing.
	partitions, err := conn.ReadPartitions()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read Kafka partitions: %w", err)
	}
	exists := false
	for _, p := range partitions {
		if p.Topic == cfg.Topic {
			exists = true
			break
		}
	}
	if !exists {
		err = conn.CreateTopics(kafka.TopicConfig{
			Topic:             cfg.Topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create Kafka topic '%s': %w", cfg.Topic, err)
		}
	}

	// 3. Build the writer and reader.
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
		Dialer: &kafka.Dialer{
			Timeout: 10 * time.Second,
		},
	})

	return &Client{Writer: writer, Reader: reader, conn: conn}, nil
}

// Close shuts down the writer, reader and admin connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Writer != nil {
		if err := c.Writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Kafka writer: %w", err))
		}
	}
	if c.Reader != nil {
		if err := c.Reader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Kafka reader: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Kafka admin connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors while closing Kafka client: %v", errs)
	}
	return nil
}

// HealthCheck verifies the broker connection by resolving the
// controller.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return fmt.Errorf("kafka client not initialized")
	}
	_, err := c.conn.Controller()
	return err
}
