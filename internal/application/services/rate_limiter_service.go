package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chatly/user-service/internal/core/domain/otp"
	"github.com/chatly/user-service/internal/core/ports"
)

// RateLimiterService implements ports.RateLimiter as a presence-only
// cooldown marker. Reserve uses the cache's conditional set, so the check
// and the marker write are one atomic operation; two concurrent requests
// for the same email cannot both pass.
type RateLimiterService struct {
	cache  ports.Cache
	window time.Duration
	logger *logrus.Logger
}

func NewRateLimiterService(cache ports.Cache, window time.Duration, logger *logrus.Logger) *RateLimiterService {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiterService{cache: cache, window: window, logger: logger}
}

func (s *RateLimiterService) Reserve(ctx context.Context, flow otp.Flow, email string) (bool, error) {
	key := flow.RateLimitKey(email)
	ok, err := s.cache.SetNX(ctx, key, []byte("true"), s.window)
	if err != nil {
		return false, fmt.Errorf("failed to reserve rate limit marker: %w", err)
	}
	if !ok && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"flow": flow, "email": email}).Debug("rate limit cooldown active")
	}
	return ok, nil
}
