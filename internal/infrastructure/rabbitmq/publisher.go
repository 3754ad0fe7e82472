package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher implements ports.Publisher on top of a shared Connection.
// Messages are published persistent to a durable queue, so they survive a
// broker restart until a consumer acknowledges them.
type Publisher struct {
	conn   *Connection
	logger *logrus.Logger
}

func NewPublisher(conn *Connection, logger *logrus.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, queue string, body []byte) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, queue); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	err = ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		if p.logger != nil {
			p.logger.WithFields(logrus.Fields{"queue": queue}).WithError(err).Error("rabbitmq: publish failed")
		}
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}
	return nil
}
