// Package identity defines the user-facing error taxonomy shared by the
// orchestrating services and the HTTP layer. Every error here is local and
// non-fatal: the request fails with a clear message and nothing is retried.
// Store connectivity failures are NOT represented here; they surface as
// wrapped infrastructure errors and map to a generic 500.
package identity

import "errors"

var (
	// ErrValidation wraps a malformed-input failure; the wrapped message
	// names the first failing constraint only.
	ErrValidation = errors.New("validation failed")

	// ErrCaptchaRejected covers both an explicit negative verdict from the
	// CAPTCHA oracle and an erroring oracle call.
	ErrCaptchaRejected = errors.New("captcha verification failed")

	// ErrRateLimited means a cooldown marker is still live for the identity.
	ErrRateLimited = errors.New("too many requests, please wait before requesting a new OTP")

	// ErrOTPExpired means no OTP record exists: never issued or TTL elapsed.
	// The two are deliberately indistinguishable.
	ErrOTPExpired = errors.New("otp has expired or was never issued")

	// ErrOTPMismatch means a record exists but the supplied code is wrong.
	// The record survives so the user can retry within the TTL window.
	ErrOTPMismatch = errors.New("invalid otp")

	// ErrAlreadyExists means a user row for the email already exists.
	ErrAlreadyExists = errors.New("user already exists")

	// ErrNotFound means no user row for the email or id.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidCredentials means the password check failed on login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionExpired means a resend was requested with no pending OTP
	// record; the user must restart the originating flow.
	ErrSessionExpired = errors.New("session expired, please start again")

	// ErrOTPNotVerified means reset-password was called without a live
	// verified-reset grant.
	ErrOTPNotVerified = errors.New("otp not verified or verification expired")

	// ErrPasswordMismatch means password and confirmation differ on reset.
	ErrPasswordMismatch = errors.New("password and confirm password do not match")
)
