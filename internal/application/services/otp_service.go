package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/chatly/user-service/internal/core/domain/identity"
	"github.com/chatly/user-service/internal/core/domain/otp"
	"github.com/chatly/user-service/internal/core/ports"
)

var otpIssuedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "otp_issued_total",
		Help: "The total number of OTP codes issued, by flow",
	},
	[]string{"flow"},
)

func init() {
	prometheus.MustRegister(otpIssuedTotal)
}

// OTPService implements ports.OTPManager on the ephemeral cache. Records
// live under the flow's key pattern with a fixed TTL; issuing into a pair
// that already has a record silently replaces it, which is what invalidates
// the old code on resend.
type OTPService struct {
	cache  ports.Cache
	ttl    time.Duration
	logger *logrus.Logger
}

func NewOTPService(cache ports.Cache, ttl time.Duration, logger *logrus.Logger) *OTPService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OTPService{cache: cache, ttl: ttl, logger: logger}
}

// generateCode returns a uniformly random 6-digit code from the closed
// range 100000-999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *OTPService) Issue(ctx context.Context, flow otp.Flow, email string, payload any) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	rec := otp.Record{Code: code}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("failed to marshal otp payload: %w", err)
		}
		rec.Payload = raw
	}

	b, err := json.Marshal(&rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal otp record: %w", err)
	}
	if err := s.cache.Set(ctx, flow.Key(email), b, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store otp record: %w", err)
	}

	otpIssuedTotal.WithLabelValues(string(flow)).Inc()
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"flow": flow, "email": email}).Debug("otp issued")
	}
	return code, nil
}

func (s *OTPService) Validate(ctx context.Context, flow otp.Flow, email, code string) (json.RawMessage, error) {
	b, ok, err := s.cache.Get(ctx, flow.Key(email))
	if err != nil {
		return nil, fmt.Errorf("failed to read otp record: %w", err)
	}
	if !ok {
		// never issued or TTL elapsed; indistinguishable on purpose
		return nil, identity.ErrOTPExpired
	}

	var rec otp.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal otp record: %w", err)
	}

	if rec.Code != code {
		// record stays so the user can retry within the TTL window
		return nil, identity.ErrOTPMismatch
	}

	// single consumption
	if err := s.cache.Delete(ctx, flow.Key(email)); err != nil {
		return nil, fmt.Errorf("failed to consume otp record: %w", err)
	}
	return rec.Payload, nil
}

func (s *OTPService) Peek(ctx context.Context, flow otp.Flow, email string) (*otp.Record, bool, error) {
	b, ok, err := s.cache.Get(ctx, flow.Key(email))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read otp record: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	var rec otp.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal otp record: %w", err)
	}
	return &rec, true, nil
}

func (s *OTPService) Invalidate(ctx context.Context, flow otp.Flow, email string) error {
	return s.cache.Delete(ctx, flow.Key(email))
}
