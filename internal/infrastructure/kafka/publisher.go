package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
	"github.com/segmentio/kafka-go"
)

const writeTimeout = 10 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishEscrowEvent keys messages by order ref so one order's events stay ordered within a partition.
func (k *KafkaPublisher) PublishEscrowEvent(event domain.EscrowEvent) error {
	msg, err := json.Marshal(toMessage(event))
	if err != nil {
		return fmt.Errorf("failed to marshal escrow event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderRef),
		Value: msg,
		Time:  event.OccurredAt,
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishEscrowEvent(domain.EscrowEvent) error { return nil }
