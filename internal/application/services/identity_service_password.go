package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chatly/user-service/internal/core/domain/identity"
	"github.com/chatly/user-service/internal/core/domain/otp"
	"github.com/chatly/user-service/internal/core/domain/user"
)

// Login is stateless: one repository read and one constant-time hash
// comparison, then a signed session token.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	email = user.NormalizeEmail(email)

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if !s.hasher.Compare(u.PasswordSalt, password, u.PasswordHash) {
		return nil, "", identity.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("user logged in")
	}
	return u, token, nil
}

// ForgotPassword issues a reset OTP. Unlike signup, it requires an existing
// user: there is nothing to reset for an unregistered email.
func (s *IdentityService) ForgotPassword(ctx context.Context, email string) error {
	email = user.NormalizeEmail(email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return err
	}

	allowed, err := s.limiter.Reserve(ctx, otp.FlowForgot, email)
	if err != nil {
		return err
	}
	if !allowed {
		return identity.ErrRateLimited
	}

	code, err := s.otpMgr.Issue(ctx, otp.FlowForgot, email, nil)
	if err != nil {
		return err
	}

	return s.publishOTPMail(ctx, otp.FlowForgot, email, code)
}

// VerifyForgotOTP consumes the reset OTP and writes the verified-reset
// grant. The grant is decoupled from the reset call so the client can
// navigate between screens before submitting the new password.
func (s *IdentityService) VerifyForgotOTP(ctx context.Context, email, code string) error {
	email = user.NormalizeEmail(email)

	if _, err := s.otpMgr.Validate(ctx, otp.FlowForgot, email, code); err != nil {
		return err
	}

	if err := s.cache.Set(ctx, otp.ResetGrantKey(email), []byte("true"), s.cfg.ResetGrantTTL); err != nil {
		return fmt.Errorf("failed to store reset grant: %w", err)
	}
	return nil
}

// ResetPassword requires a live verified-reset grant, re-hashes with a
// fresh salt and consumes the grant. The confirmation check runs before
// the grant is consulted.
func (s *IdentityService) ResetPassword(ctx context.Context, req *user.ResetPasswordRequest) error {
	email := user.NormalizeEmail(req.Email)

	if req.Password != req.ConfirmPassword {
		return identity.ErrPasswordMismatch
	}

	_, ok, err := s.cacheGet(ctx, otp.ResetGrantKey(email))
	if err != nil {
		return err
	}
	if !ok {
		return identity.ErrOTPNotVerified
	}

	if err := user.ValidatePassword(req.Password); err != nil {
		return fmt.Errorf("%w: %v", identity.ErrValidation, err)
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	salt, err := s.hasher.NewSalt()
	if err != nil {
		return err
	}
	u.PasswordSalt = salt
	u.PasswordHash = s.hasher.Hash(salt, req.Password)
	if err := s.userRepo.Update(ctx, u); err != nil {
		return err
	}

	// single-use grant
	if err := s.cache.Delete(ctx, otp.ResetGrantKey(email)); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Warn("failed to delete reset grant")
		}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("password reset completed")
	}
	return nil
}

func (s *IdentityService) cacheGet(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return b, ok, nil
}

// GetUser returns a user by id.
func (s *IdentityService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns users with pagination.
func (s *IdentityService) ListUsers(ctx context.Context, limit, offset int) ([]*user.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateName changes the display name and re-issues the session token so
// the embedded name claim stays in sync with the record.
func (s *IdentityService) UpdateName(ctx context.Context, id uuid.UUID, name string) (*user.User, string, error) {
	if err := user.ValidateName(name); err != nil {
		return nil, "", fmt.Errorf("%w: %v", identity.ErrValidation, err)
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	u.Name = name
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
