package events

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	amqp "github.com/ThreeDotsLabs/watermill-amqp/v2/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Exchange is the topic exchange all book events are published to.
const Exchange = "bookshop.events"

// Routing keys for book mutations.
const (
	TopicBookCreated  = "book.created"
	TopicBookUpdated  = "book.updated"
	TopicStockUpdated = "book.stock_updated"
	TopicBookDeleted  = "book.deleted"
)

// StockDelta is the payload of a stock_updated event.
type StockDelta struct {
	BID   string `json:"bid"`
	Stock int    `json:"stock"`
}

// Deleted is the payload of a deleted event.
type Deleted struct {
	BID string `json:"bid"`
}

// Sink publishes notification events on a best-effort basis. Delivery is
// at-most-once: no ack, no retry, callers swallow the returned error.
type Sink interface {
	Publish(topic string, payload any) error
}

// NopSink drops every event. It stands in when no broker is configured.
type NopSink struct{}

func (NopSink) Publish(string, any) error { return nil }

// PublisherSink writes JSON-serialized payloads through a watermill
// publisher, one message per event, topic used as the routing key.
type PublisherSink struct {
	pub message.Publisher
}

func NewPublisherSink(pub message.Publisher) *PublisherSink {
	return &PublisherSink{pub: pub}
}

func (s *PublisherSink) Publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return s.pub.Publish(topic, msg)
}

func (s *PublisherSink) Close() error {
	return s.pub.Close()
}

// NewAMQPSink connects to RabbitMQ and publishes to the bookshop topic
// exchange, routing key per event kind.
func NewAMQPSink(url string, debug bool) (*PublisherSink, error) {
	cfg := amqp.NewDurablePubSubConfig(url, nil)
	cfg.Exchange = amqp.ExchangeConfig{
		GenerateName: func(string) string { return Exchange },
		Type:         "topic",
		Durable:      true,
	}
	cfg.Publish = amqp.PublishConfig{
		GenerateRoutingKey: func(topic string) string { return topic },
	}

	pub, err := amqp.NewPublisher(cfg, watermill.NewStdLogger(debug, false))
	if err != nil {
		return nil, err
	}
	return NewPublisherSink(pub), nil
}
