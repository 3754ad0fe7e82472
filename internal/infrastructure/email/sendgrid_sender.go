package email

import (
	"context"
	"fmt"

	"github.com/chatly/user-service/configs"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// SendGridSender implements ports.MailSender using SendGrid. OTP mails are
// plain text; the body arrives fully rendered in the queued job.
type SendGridSender struct {
	cfg    *configs.EmailConfig
	client *sendgrid.Client
	logger *logrus.Logger
}

func NewSendGridSender(cfg *configs.EmailConfig, logger *logrus.Logger) *SendGridSender {
	return &SendGridSender{
		cfg:    cfg,
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		logger: logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).WithError(err).Error("Failed to send email")
		}
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"to": to, "status_code": response.StatusCode}).Error("SendGrid rejected email")
		}
		return fmt.Errorf("sendgrid rejected email with status %d", response.StatusCode)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"to": to, "subject": subject, "status_code": response.StatusCode}).Info("Email sent successfully")
	}
	return nil
}
