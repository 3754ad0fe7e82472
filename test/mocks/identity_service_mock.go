package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/chatly/user-service/internal/core/domain/identity"
	"github.com/chatly/user-service/internal/core/domain/user"
)

// IdentityServiceMock implements ports.IdentityService with per-method
// function fields for handler-level tests.
type IdentityServiceMock struct {
	SignupFn          func(ctx context.Context, req *user.SignupRequest) error
	VerifySignupFn    func(ctx context.Context, email, code string) (*user.User, error)
	ResendSignupOTPFn func(ctx context.Context, email string) error
	LoginFn           func(ctx context.Context, email, password string) (*user.User, string, error)
	ForgotPasswordFn  func(ctx context.Context, email string) error
	ResendForgotOTPFn func(ctx context.Context, email string) error
	VerifyForgotOTPFn func(ctx context.Context, email, code string) error
	ResetPasswordFn   func(ctx context.Context, req *user.ResetPasswordRequest) error
	GetUserFn         func(ctx context.Context, id uuid.UUID) (*user.User, error)
	ListUsersFn       func(ctx context.Context, limit, offset int) ([]*user.User, error)
	UpdateNameFn      func(ctx context.Context, id uuid.UUID, name string) (*user.User, string, error)
}

func (m *IdentityServiceMock) Signup(ctx context.Context, req *user.SignupRequest) error {
	if m.SignupFn != nil {
		return m.SignupFn(ctx, req)
	}
	return nil
}

func (m *IdentityServiceMock) VerifySignup(ctx context.Context, email, code string) (*user.User, error) {
	if m.VerifySignupFn != nil {
		return m.VerifySignupFn(ctx, email, code)
	}
	return nil, identity.ErrOTPExpired
}

func (m *IdentityServiceMock) ResendSignupOTP(ctx context.Context, email string) error {
	if m.ResendSignupOTPFn != nil {
		return m.ResendSignupOTPFn(ctx, email)
	}
	return nil
}

func (m *IdentityServiceMock) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return nil, "", identity.ErrInvalidCredentials
}

func (m *IdentityServiceMock) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFn != nil {
		return m.ForgotPasswordFn(ctx, email)
	}
	return nil
}

func (m *IdentityServiceMock) ResendForgotOTP(ctx context.Context, email string) error {
	if m.ResendForgotOTPFn != nil {
		return m.ResendForgotOTPFn(ctx, email)
	}
	return nil
}

func (m *IdentityServiceMock) VerifyForgotOTP(ctx context.Context, email, code string) error {
	if m.VerifyForgotOTPFn != nil {
		return m.VerifyForgotOTPFn(ctx, email, code)
	}
	return nil
}

func (m *IdentityServiceMock) ResetPassword(ctx context.Context, req *user.ResetPasswordRequest) error {
	if m.ResetPasswordFn != nil {
		return m.ResetPasswordFn(ctx, req)
	}
	return nil
}

func (m *IdentityServiceMock) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, identity.ErrNotFound
}

func (m *IdentityServiceMock) ListUsers(ctx context.Context, limit, offset int) ([]*user.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *IdentityServiceMock) UpdateName(ctx context.Context, id uuid.UUID, name string) (*user.User, string, error) {
	if m.UpdateNameFn != nil {
		return m.UpdateNameFn(ctx, id, name)
	}
	return nil, "", identity.ErrNotFound
}
