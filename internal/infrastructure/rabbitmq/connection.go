package rabbitmq

import (
	"errors"
	"sync"
	"time"

	"github.com/chatly/user-service/configs"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned for operations on a connection after Close.
var ErrClosed = errors.New("rabbitmq: connection closed")

// Connection wraps a single AMQP connection with explicit lifecycle:
// dial at startup, reconnect with backoff when the broker drops it, and a
// clean Close. It is handed to publishers and consumers as a dependency
// instead of living in package-level state.
type Connection struct {
	cfg    *configs.RabbitMQConfig
	logger *logrus.Logger

	mu     sync.RWMutex
	conn   *amqp.Connection
	closed bool
	done   chan struct{}
}

// Connect dials the broker and starts the reconnect watchdog.
func Connect(cfg *configs.RabbitMQConfig, logger *logrus.Logger) (*Connection, error) {
	c := &Connection{
		cfg:    cfg,
		logger: logger,
		done:   make(chan struct{}),
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	go c.watch(conn)
	return c, nil
}

// watch blocks until the current connection drops, then redials with
// exponential backoff until it succeeds or Close is called.
func (c *Connection) watch(conn *amqp.Connection) {
	closeErr := <-conn.NotifyClose(make(chan *amqp.Error, 1))
	if closeErr == nil {
		// graceful Close
		return
	}
	if c.logger != nil {
		c.logger.WithError(closeErr).Warn("rabbitmq: connection lost, reconnecting")
	}

	backoff := c.cfg.ReconnectInitial
	if backoff <= 0 {
		backoff = time.Second
	}
	for {
		select {
		case <-c.done:
			return
		case <-time.After(backoff):
		}

		next, err := amqp.Dial(c.cfg.URL)
		if err != nil {
			if c.logger != nil {
				c.logger.WithError(err).WithField("backoff", backoff.String()).Error("rabbitmq: redial failed")
			}
			backoff *= 2
			if max := c.cfg.ReconnectMax; max > 0 && backoff > max {
				backoff = max
			}
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = next.Close()
			return
		}
		c.conn = next
		c.mu.Unlock()

		if c.logger != nil {
			c.logger.Info("rabbitmq: reconnected")
		}
		go c.watch(next)
		return
	}
}

// Channel opens a fresh channel on the current connection. Channels are
// cheap; callers close them when done.
func (c *Connection) Channel() (*amqp.Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}
	return c.conn.Channel()
}

// Close shuts the connection down for good; the watchdog stops redialing.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Ping verifies the connection is usable by opening and closing a channel.
func (c *Connection) Ping() error {
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	return ch.Close()
}

// declareQueue asserts the durable queue shared by publisher and consumer.
func declareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	return err
}
