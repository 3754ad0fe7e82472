package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/chatly/user-service/internal/core/domain/otp"
	"github.com/chatly/user-service/internal/core/ports"
)

var mailDeliveriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mail_deliveries_total",
		Help: "The total number of mail delivery attempts, by outcome",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(mailDeliveriesTotal)
}

// MailConsumerConfig groups the consumer loop tunables.
type MailConsumerConfig struct {
	// Queue is the durable queue the orchestrator publishes OTP mail to.
	Queue string
	// RetryInitial and RetryMax bound the backoff between consume
	// attempts after the broker drops the delivery stream.
	RetryInitial time.Duration
	RetryMax     time.Duration
}

// MailConsumerService drains the OTP mail queue one message at a time.
// A message is acknowledged only after the transport accepted it; failures
// are returned to the queue and bounded by the broker's redelivery policy,
// not by a retry loop here.
type MailConsumerService struct {
	consumer ports.Consumer
	sender   ports.MailSender
	cfg      MailConsumerConfig
	logger   *logrus.Logger
}

func NewMailConsumerService(consumer ports.Consumer, sender ports.MailSender, cfg MailConsumerConfig, logger *logrus.Logger) *MailConsumerService {
	if cfg.Queue == "" {
		cfg.Queue = "send-otp"
	}
	if cfg.RetryInitial <= 0 {
		cfg.RetryInitial = time.Second
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 30 * time.Second
	}
	return &MailConsumerService{consumer: consumer, sender: sender, cfg: cfg, logger: logger}
}

// Run blocks until the context is cancelled. A delivery stream that ends
// while the context is live means the broker dropped the connection; Run
// waits out a backoff and consumes again, riding the connection's redial,
// so a broker restart never silently stops mail delivery.
func (s *MailConsumerService) Run(ctx context.Context) error {
	backoff := s.cfg.RetryInitial
	for {
		deliveries, err := s.consumer.Consume(ctx, s.cfg.Queue)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if s.logger != nil {
				s.logger.WithError(err).WithField("backoff", backoff.String()).Error("consume failed, retrying")
			}
			if err := s.wait(ctx, backoff); err != nil {
				return err
			}
			backoff = s.nextBackoff(backoff)
			continue
		}

		if s.logger != nil {
			s.logger.WithField("queue", s.cfg.Queue).Info("mail consumer started")
		}
		backoff = s.cfg.RetryInitial

		for d := range deliveries {
			s.handle(ctx, d)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if s.logger != nil {
			s.logger.WithField("queue", s.cfg.Queue).Warn("delivery stream closed, resuming consumption")
		}
		if err := s.wait(ctx, backoff); err != nil {
			return err
		}
		backoff = s.nextBackoff(backoff)
	}
}

func (s *MailConsumerService) wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *MailConsumerService) nextBackoff(cur time.Duration) time.Duration {
	next := cur * 2
	if next > s.cfg.RetryMax {
		next = s.cfg.RetryMax
	}
	return next
}

func (s *MailConsumerService) handle(ctx context.Context, d ports.Delivery) {
	var job otp.EmailJob
	if err := json.Unmarshal(d.Body(), &job); err != nil {
		// malformed payload can never succeed; drop it instead of looping
		if s.logger != nil {
			s.logger.WithError(err).Error("discarding malformed email job")
		}
		mailDeliveriesTotal.WithLabelValues("malformed").Inc()
		if err := d.Nack(false); err != nil && s.logger != nil {
			s.logger.WithError(err).Warn("failed to nack malformed delivery")
		}
		return
	}

	if err := s.sender.Send(ctx, job.To, job.Subject, job.Body); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"to": job.To}).WithError(err).Error("mail delivery failed, requeueing")
		}
		mailDeliveriesTotal.WithLabelValues("failure").Inc()
		if err := d.Nack(true); err != nil && s.logger != nil {
			s.logger.WithError(err).Warn("failed to nack delivery")
		}
		return
	}

	mailDeliveriesTotal.WithLabelValues("success").Inc()
	if err := d.Ack(); err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"to": job.To}).WithError(err).Warn("failed to ack delivery")
	}
}
