package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTopic         = "storefront-orders"
	EventTypeOrderPlaced = "order_placed"
)

// OrderPlaced is emitted after the remote API accepted a checkout.
type OrderPlaced struct {
	OrderID     string             `json:"order_id"`
	SessionID   string             `json:"session_id"`
	UserID      int64              `json:"user_id"`
	Mode        string             `json:"mode"`
	Items       []domain.OrderLine `json:"items"`
	TotalAmount int64              `json:"total_amount"`
	PickupDate  string             `json:"pickup_date"`
	PlacedAt    time.Time          `json:"placed_at"`
}

type Publisher interface {
	OrderPlaced(ctx context.Context, event OrderPlaced) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	log    logrus.FieldLogger
}

func NewKafkaPublisher(topic string, log logrus.FieldLogger, brokers ...string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, log: log}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, event OrderPlaced) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID), // order id keeps one order on one partition
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order %s: %w", event.OrderID, err)
	}
	p.log.WithField("order_id", event.OrderID).Debug("order placed event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) OrderPlaced(context.Context, OrderPlaced) error { return nil }
func (Noop) Close() error                                   { return nil }
