package ports

import "context"

// CaptchaVerifier is the opaque remote boolean oracle guarding signup.
// A negative verdict and an erroring call are both treated as failure by
// callers; no retries.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}
