package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatly/user-service/internal/application/services"
	"github.com/chatly/user-service/internal/core/domain/otp"
	"github.com/chatly/user-service/internal/core/ports"
	"github.com/chatly/user-service/test/mocks"
)

func testConsumerConfig() services.MailConsumerConfig {
	return services.MailConsumerConfig{
		Queue:        "send-otp",
		RetryInitial: time.Millisecond,
		RetryMax:     time.Millisecond,
	}
}

func deliveryChan(deliveries ...ports.Delivery) chan ports.Delivery {
	ch := make(chan ports.Delivery, len(deliveries))
	for _, d := range deliveries {
		ch <- d
	}
	close(ch)
	return ch
}

// runConsumer serves one batch of deliveries, then cancels the context on
// the next subscribe so Run terminates.
func runConsumer(t *testing.T, sender *mocks.MailSenderMock, deliveries ...ports.Delivery) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := deliveryChan(deliveries...)
	served := false
	consumer := &mocks.ConsumerMock{
		ConsumeFn: func(ctx context.Context, queue string) (<-chan ports.Delivery, error) {
			if served {
				cancel()
				return nil, context.Canceled
			}
			served = true
			return ch, nil
		},
	}

	svc := services.NewMailConsumerService(consumer, sender, testConsumerConfig(), nil)
	err := svc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func jobBody(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(&otp.EmailJob{To: "alice@example.com", Subject: "subject", Body: "body"})
	require.NoError(t, err)
	return b
}

func TestMailConsumer_AcksAfterSuccessfulSend(t *testing.T) {
	sender := &mocks.MailSenderMock{}
	d := &mocks.DeliveryMock{Payload: jobBody(t)}

	runConsumer(t, sender, d)

	assert.True(t, d.Acked)
	assert.False(t, d.Nacked)
	require.Len(t, sender.Sent, 1)
	assert.Equal(t, "alice@example.com", sender.Sent[0].To)
}

func TestMailConsumer_RequeuesOnSendFailure(t *testing.T) {
	sender := &mocks.MailSenderMock{
		SendFn: func(ctx context.Context, to, subject, body string) error {
			return errors.New("smtp unavailable")
		},
	}
	d := &mocks.DeliveryMock{Payload: jobBody(t)}

	runConsumer(t, sender, d)

	assert.False(t, d.Acked)
	assert.True(t, d.Nacked)
	assert.True(t, d.Requeued, "transient failures go back to the queue")
}

func TestMailConsumer_DropsMalformedJob(t *testing.T) {
	sender := &mocks.MailSenderMock{}
	d := &mocks.DeliveryMock{Payload: []byte("{not json")}

	runConsumer(t, sender, d)

	assert.False(t, d.Acked)
	assert.True(t, d.Nacked)
	assert.False(t, d.Requeued, "a malformed job can never succeed")
	assert.Empty(t, sender.Sent)
}

func TestMailConsumer_ProcessesSequentially(t *testing.T) {
	sender := &mocks.MailSenderMock{}
	first := &mocks.DeliveryMock{Payload: jobBody(t)}
	second := &mocks.DeliveryMock{Payload: jobBody(t)}

	runConsumer(t, sender, first, second)

	assert.True(t, first.Acked)
	assert.True(t, second.Acked)
	assert.Len(t, sender.Sent, 2)
}

func TestMailConsumer_ResumesAfterStreamDrop(t *testing.T) {
	sender := &mocks.MailSenderMock{}
	first := &mocks.DeliveryMock{Payload: jobBody(t)}
	second := &mocks.DeliveryMock{Payload: jobBody(t)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// two streams that each end the way a broker drop looks to the
	// consumer, then cancellation
	streams := []chan ports.Delivery{deliveryChan(first), deliveryChan(second)}
	consumer := &mocks.ConsumerMock{}
	consumer.ConsumeFn = func(ctx context.Context, queue string) (<-chan ports.Delivery, error) {
		if n := consumer.CallCount(); n <= len(streams) {
			return streams[n-1], nil
		}
		cancel()
		return nil, context.Canceled
	}

	svc := services.NewMailConsumerService(consumer, sender, testConsumerConfig(), nil)
	err := svc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	assert.True(t, first.Acked)
	assert.True(t, second.Acked, "a message after the drop is still delivered")
	assert.Equal(t, 3, consumer.CallCount())
}

func TestMailConsumer_RetriesFailedSubscribe(t *testing.T) {
	sender := &mocks.MailSenderMock{}
	d := &mocks.DeliveryMock{Payload: jobBody(t)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := &mocks.ConsumerMock{}
	consumer.ConsumeFn = func(ctx context.Context, queue string) (<-chan ports.Delivery, error) {
		switch consumer.CallCount() {
		case 1:
			return nil, errors.New("channel open failed")
		case 2:
			return deliveryChan(d), nil
		default:
			cancel()
			return nil, context.Canceled
		}
	}

	svc := services.NewMailConsumerService(consumer, sender, testConsumerConfig(), nil)
	err := svc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	assert.True(t, d.Acked, "delivery after a failed subscribe is still processed")
}

func TestMailConsumer_ReturnsWhenCancelledMidStream(t *testing.T) {
	sender := &mocks.MailSenderMock{}
	ctx, cancel := context.WithCancel(context.Background())

	ch := make(chan ports.Delivery)
	consumer := &mocks.ConsumerMock{Deliveries: ch}
	svc := services.NewMailConsumerService(consumer, sender, testConsumerConfig(), nil)

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	cancel()
	close(ch)

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}
}
