package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer creates a consumer group reader for the given topic.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// StartEventCancelled consumes cancellation messages until ctx is done,
// invoking handler for each decoded message. Undecodable messages are logged
// and skipped.
func (c *Consumer) StartEventCancelled(ctx context.Context, handler func(EventCancelledMessage)) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Error reading message: %v", err)
			continue
		}

		var cancelled EventCancelledMessage
		if err := json.Unmarshal(msg.Value, &cancelled); err != nil {
			log.Printf("Failed to unmarshal cancellation message: %v", err)
			continue
		}
		handler(cancelled)
	}
}

// Close shuts down the Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
