package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"PaymentIntake/internal/messaging"
	"PaymentIntake/pkg/correlation"
	"PaymentIntake/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements messaging.Publisher using Kafka.
type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher creates a new Kafka publisher keyed by envelope key.
func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Publisher{writer: writer, topic: topic}
}

func (p *Publisher) Publish(ctx context.Context, env messaging.Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(env.Key),
		Value: value,
	}

	if corrID := correlation.FromContext(ctx); corrID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{
			Key:   correlation.KafkaHeaderName,
			Value: []byte(corrID),
		})
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.KafkaPublishTotal.WithLabelValues(p.topic, "error").Inc()
		slog.ErrorContext(ctx, "Failed to publish message",
			"topic", p.topic, "key", env.Key, "error", err)
		return err
	}

	metrics.KafkaPublishTotal.WithLabelValues(p.topic, "ok").Inc()
	slog.DebugContext(ctx, "Message published",
		"topic", p.topic, "key", env.Key, "event_id", env.EventID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
