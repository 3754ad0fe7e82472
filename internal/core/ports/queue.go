package ports

import "context"

// Publisher persists a message to a named durable queue. Delivery is
// at-least-once; the publisher's responsibility ends once the broker has
// accepted the message.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// Delivery is one message pulled from a queue. The consumer must call
// exactly one of Ack or Nack after attempting the side effect.
type Delivery interface {
	Body() []byte
	// Ack removes the message from the queue.
	Ack() error
	// Nack returns the message to the queue for redelivery when requeue
	// is true, or discards it otherwise.
	Nack(requeue bool) error
}

// Consumer exposes a queue as a channel of deliveries. The channel closes
// when the context is cancelled or the underlying connection drops.
type Consumer interface {
	Consume(ctx context.Context, queue string) (<-chan Delivery, error)
}
