package events

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes state-change events to the checkout topic,
// keyed by session ID so per-session ordering is preserved.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher stands in when no broker is configured; the checkout
// core runs without messaging infrastructure.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte) error { return nil }
