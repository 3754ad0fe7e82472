package ports

import (
	"context"
	"time"
)

// Cache defines the keyed ephemeral store contract used for OTP records,
// rate-limit markers and reset grants. All operations are single-key; no
// multi-key transactions are assumed.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL (0 or negative means no expiration if supported).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores value only if key does not already exist, with TTL.
	// Returns true if the value was written. Used to fold check-then-act
	// sequences (rate-limit reserve) into one atomic call.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
}
