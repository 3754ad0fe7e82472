package ports

import (
	"context"
	"encoding/json"

	"github.com/chatly/user-service/internal/core/domain/otp"
)

// OTPManager generates, stores, validates and invalidates one-time codes
// against a flow namespace. At most one live record exists per (flow, email):
// Issue always replaces, never appends.
type OTPManager interface {
	// Issue generates a fresh 6-digit code, stores the record with the
	// configured TTL (overwriting any prior record), and returns the code
	// for embedding into the email body.
	Issue(ctx context.Context, flow otp.Flow, email string, payload any) (string, error)
	// Validate checks the supplied code. It returns identity.ErrOTPExpired
	// if no record exists and identity.ErrOTPMismatch if the code differs
	// (the record is kept for retries). On match the record is deleted and
	// the stored payload returned.
	Validate(ctx context.Context, flow otp.Flow, email, code string) (json.RawMessage, error)
	// Peek returns the live record without consuming it. ok=false when no
	// record exists. Used by resend to recover the pending payload.
	Peek(ctx context.Context, flow otp.Flow, email string) (*otp.Record, bool, error)
	// Invalidate removes any record for the pair.
	Invalidate(ctx context.Context, flow otp.Flow, email string) error
}
