package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Forwarder ships events to an external system.
type Forwarder interface {
	Forward(ctx context.Context, event Event) error
}

// AMQPPublisher forwards events to a durable topic exchange, routed by event type.
// The connection is opened on first use and re-dialled after a failure.
type AMQPPublisher struct {
	url      string
	exchange string
	logger   *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher creates a publisher; no connection is made until the first event.
func NewAMQPPublisher(url, exchange string, logger *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, exchange: exchange, logger: logger}
}

// Forward publishes event as a persistent JSON message.
func (p *AMQPPublisher) Forward(ctx context.Context, event Event) error {
	msg, err := encodeEvent(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg); err != nil {
		p.reset()
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("amqp exchange declare: %w", err)
	}

	p.conn, p.ch = conn, ch
	p.logger.Info("connected to amqp broker", zap.String("exchange", p.exchange))
	return nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

func encodeEvent(event Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Type),
		Timestamp:    event.Timestamp,
		Body:         body,
	}, nil
}
