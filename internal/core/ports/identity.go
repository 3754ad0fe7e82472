package ports

import (
	"context"

	"github.com/chatly/user-service/internal/core/domain/user"
	"github.com/google/uuid"
)

// IdentityService is the top-level coordinator for the OTP-gated identity
// lifecycle: signup, verification, resend, login, forgot-password and
// reset-password, plus the profile operations gated by a session token.
type IdentityService interface {
	Signup(ctx context.Context, req *user.SignupRequest) error
	VerifySignup(ctx context.Context, email, code string) (*user.User, error)
	ResendSignupOTP(ctx context.Context, email string) error

	Login(ctx context.Context, email, password string) (*user.User, string, error)

	ForgotPassword(ctx context.Context, email string) error
	ResendForgotOTP(ctx context.Context, email string) error
	VerifyForgotOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, req *user.ResetPasswordRequest) error

	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*user.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*user.User, string, error)
}
