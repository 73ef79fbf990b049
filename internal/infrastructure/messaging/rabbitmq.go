// Package messaging forwards outbox messages to RabbitMQ.
package messaging

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"onghub/internal/infrastructure/storage/postgres"
	"onghub/pkg/logger"
)

const publishTimeout = 5 * time.Second

var _ postgres.OutboxHandler = (*Publisher)(nil)

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publishes every outbox message to a topic exchange, routed by
// event type.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  Channel
	exchange string
}

// Dial connects to the broker and declares the exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	p := NewPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

// NewPublisher wraps an already open channel.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{channel: ch, exchange: exchange}
}

// Handle publishes msg as a persistent JSON message.
func (p *Publisher) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.PublishWithContext(ctx,
		p.exchange,
		msg.EventType,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    strconv.FormatInt(msg.ID, 10),
			Type:         msg.EventType,
			Timestamp:    msg.CreatedAt,
			Headers: amqp.Table{
				"aggregate_type": msg.AggregateType,
				"aggregate_id":   int64(msg.AggregateID),
			},
			Body: msg.Payload,
		})
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.EventType, err)
	}
	return nil
}

// Close releases the channel and the connection.
func (p *Publisher) Close() {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			logger.Warn(context.Background(), "close rabbitmq channel", "error", err)
		}
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// LogHandler only logs messages. The worker uses it when no broker is configured.
type LogHandler struct{}

func (LogHandler) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	logger.Info(ctx, "outbox event",
		"outbox_id", msg.ID, "event_type", msg.EventType,
		"aggregate_type", msg.AggregateType, "aggregate_id", msg.AggregateID)
	return nil
}
