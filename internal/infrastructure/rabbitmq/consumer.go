package rabbitmq

import (
	"context"
	"fmt"

	"github.com/chatly/user-service/internal/core/ports"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consumer implements ports.Consumer. Deliveries are pulled from a channel
// with prefetch 1, so the caller processes one message at a time and decides
// explicitly between Ack and Nack.
type Consumer struct {
	conn   *Connection
	logger *logrus.Logger
}

func NewConsumer(conn *Connection, logger *logrus.Logger) *Consumer {
	return &Consumer{conn: conn, logger: logger}
}

type delivery struct {
	d amqp.Delivery
}

func (d *delivery) Body() []byte           { return d.d.Body }
func (d *delivery) Ack() error             { return d.d.Ack(false) }
func (d *delivery) Nack(requeue bool) error { return d.d.Nack(false, requeue) }

func (c *Consumer) Consume(ctx context.Context, queue string) (<-chan ports.Delivery, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareQueue(ch, queue); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	// one unacked message at a time
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	src, err := ch.Consume(
		queue,
		"",    // consumer tag
		false, // autoAck: the caller acknowledges after the side effect
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to consume from %s: %w", queue, err)
	}

	out := make(chan ports.Delivery)
	go func() {
		defer close(out)
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-src:
				if !ok {
					if c.logger != nil {
						c.logger.WithField("queue", queue).Warn("rabbitmq: delivery channel closed")
					}
					return
				}
				select {
				case out <- &delivery{d: d}:
				case <-ctx.Done():
					// returned unacked; the broker will redeliver
					return
				}
			}
		}
	}()
	return out, nil
}
