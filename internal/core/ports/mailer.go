package ports

import "context"

// MailSender is the external mail transport used by the queue consumer.
// A send is best-effort; failures are left to the queue's redelivery.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
