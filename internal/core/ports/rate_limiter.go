package ports

import (
	"context"

	"github.com/chatly/user-service/internal/core/domain/otp"
)

// RateLimiter marks an identity as in cooldown for a fixed window.
type RateLimiter interface {
	// Reserve atomically checks for a live cooldown marker and sets one
	// when absent, in a single conditional write. It returns false while
	// a marker is live; there is no manual clear, only TTL expiry.
	Reserve(ctx context.Context, flow otp.Flow, email string) (bool, error)
}
