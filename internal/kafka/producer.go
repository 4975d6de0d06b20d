package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Producer streams engine state changes to Kafka. In mock mode (local dev
// without brokers) it prints the messages instead of sending them.
type Producer struct {
	minted    *kafka.Writer
	cancelled *kafka.Writer
	mockMode  bool
}

func NewProducer(brokers []string, mockMode bool) *Producer {
	if mockMode {
		return &Producer{mockMode: true}
	}
	return &Producer{
		minted: kafka.NewWriter(kafka.WriterConfig{
			Brokers: brokers,
			Topic:   TopicTicketMinted,
		}),
		cancelled: kafka.NewWriter(kafka.WriterConfig{
			Brokers: brokers,
			Topic:   TopicEventCancelled,
		}),
	}
}

// PublishTicketMinted streams a successful ticket sale.
func (p *Producer) PublishTicketMinted(ctx context.Context, msg TicketMintedMessage) error {
	return p.publish(ctx, p.minted, TopicTicketMinted, msg.TicketID, msg)
}

// PublishEventCancelled streams an event cancellation for external observers.
// Refund handling happens in those observers, never in the engine.
func (p *Producer) PublishEventCancelled(ctx context.Context, msg EventCancelledMessage) error {
	return p.publish(ctx, p.cancelled, TopicEventCancelled, msg.EventID, msg)
}

func (p *Producer) publish(ctx context.Context, w *kafka.Writer, topic, key string, payload any) error {
	msgBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if p.mockMode {
		fmt.Printf("Kafka mock publish [%s]: %s\n", topic, string(msgBytes))
		return nil
	}
	return w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: msgBytes,
	})
}

func (p *Producer) Close() error {
	if p.mockMode {
		return nil
	}
	if err := p.minted.Close(); err != nil {
		return err
	}
	return p.cancelled.Close()
}
