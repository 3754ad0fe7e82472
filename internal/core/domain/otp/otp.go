package otp

import (
	"encoding/json"
	"fmt"

	"github.com/chatly/user-service/internal/core/domain/user"
)

// Flow is the namespace tag that keeps OTPs and rate-limit markers for
// different use cases from colliding on the same email.
type Flow string

const (
	// FlowSignup gates account creation; its record carries the pending
	// signup payload until verification.
	FlowSignup Flow = "signup"
	// FlowLogin is the passwordless-login namespace. The current login
	// path is password-based, so nothing issues into it, but the key
	// schema reserves it.
	FlowLogin Flow = "login"
	// FlowForgot gates password reset.
	FlowForgot Flow = "forgot"
)

// Key returns the cache key holding the OTP record for this flow and email.
func (f Flow) Key(email string) string {
	switch f {
	case FlowSignup:
		return fmt.Sprintf("signup:otp:%s", email)
	case FlowForgot:
		return fmt.Sprintf("forgot:otp:%s", email)
	default:
		return fmt.Sprintf("otp:%s", email)
	}
}

// RateLimitKey returns the cooldown marker key for this flow and email.
// Signup and login share one marker; forgot has its own.
func (f Flow) RateLimitKey(email string) string {
	if f == FlowForgot {
		return fmt.Sprintf("otp:ratelimit:forgot:%s", email)
	}
	return fmt.Sprintf("otp:ratelimit:%s", email)
}

// ResetGrantKey is the sentinel written after a forgot-password OTP is
// validated; its presence is the sole authorization to reset the password.
func ResetGrantKey(email string) string {
	return fmt.Sprintf("forgot:verified:%s", email)
}

// Record is the cache-resident OTP state for one (flow, email) pair.
// At most one live Record exists per pair: issuance always overwrites.
type Record struct {
	Code    string          `json:"code"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PendingSignup is the flow payload carried inside a signup Record until
// verification succeeds and the user row is created. The password rides in
// cleartext for the lifetime of the record; the exposure window is bounded
// by the record TTL and cache access control.
type PendingSignup struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Gender   user.Gender `json:"gender"`
}

// EmailJob is the message published once per OTP issuance and consumed by
// the mail dispatcher. It stays in the queue until acknowledged.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
