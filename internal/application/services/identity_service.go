package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chatly/user-service/internal/core/domain/identity"
	"github.com/chatly/user-service/internal/core/domain/otp"
	"github.com/chatly/user-service/internal/core/domain/user"
	"github.com/chatly/user-service/internal/core/ports"
)

// IdentityServiceConfig groups the tunables of the orchestrator.
type IdentityServiceConfig struct {
	// EmailQueue is the durable queue OTP mails are published to.
	EmailQueue string
	// ResetGrantTTL bounds how long a verified forgot-OTP authorizes a
	// password reset.
	ResetGrantTTL time.Duration
}

// IdentityService coordinates the OTP-gated identity lifecycle across the
// cache, the queue and the user store. There is no cross-store transaction:
// correctness rests on key design, TTL discipline and the unique index on
// email.
type IdentityService struct {
	userRepo ports.UserRepository
	otpMgr   ports.OTPManager
	limiter  ports.RateLimiter
	cache    ports.Cache
	queue    ports.Publisher
	captcha  ports.CaptchaVerifier
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	cfg      IdentityServiceConfig
	logger   *logrus.Logger
}

func NewIdentityService(
	userRepo ports.UserRepository,
	otpMgr ports.OTPManager,
	limiter ports.RateLimiter,
	cache ports.Cache,
	queue ports.Publisher,
	captcha ports.CaptchaVerifier,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	cfg IdentityServiceConfig,
	logger *logrus.Logger,
) ports.IdentityService {
	if cfg.EmailQueue == "" {
		cfg.EmailQueue = "send-otp"
	}
	if cfg.ResetGrantTTL <= 0 {
		cfg.ResetGrantTTL = 10 * time.Minute
	}
	return &IdentityService{
		userRepo: userRepo,
		otpMgr:   otpMgr,
		limiter:  limiter,
		cache:    cache,
		queue:    queue,
		captcha:  captcha,
		hasher:   hasher,
		tokens:   tokens,
		cfg:      cfg,
		logger:   logger,
	}
}

// Signup validates the request, consults the CAPTCHA oracle, reserves the
// cooldown marker, caches the pending signup under a fresh OTP and queues
// the mail. No user row exists until the OTP is verified.
func (s *IdentityService) Signup(ctx context.Context, req *user.SignupRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", identity.ErrValidation, err)
	}
	email := user.NormalizeEmail(req.Email)

	ok, err := s.captcha.Verify(ctx, req.Captcha)
	if err != nil {
		return fmt.Errorf("captcha oracle failed: %w", err)
	}
	if !ok {
		return identity.ErrCaptchaRejected
	}

	allowed, err := s.limiter.Reserve(ctx, otp.FlowSignup, email)
	if err != nil {
		return err
	}
	if !allowed {
		return identity.ErrRateLimited
	}

	pending := otp.PendingSignup{
		Name:     req.Name,
		Email:    email,
		Password: req.Password,
		Gender:   req.Gender,
	}
	code, err := s.otpMgr.Issue(ctx, otp.FlowSignup, email, &pending)
	if err != nil {
		return err
	}

	if err := s.publishOTPMail(ctx, otp.FlowSignup, email, code); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"email": email}).Info("signup otp issued")
	}
	return nil
}

// VerifySignup consumes the signup OTP and creates the user row. The
// pre-check on email is an optimization; the unique index is the guard
// that actually prevents double creation under concurrency.
func (s *IdentityService) VerifySignup(ctx context.Context, email, code string) (*user.User, error) {
	email = user.NormalizeEmail(email)

	payload, err := s.otpMgr.Validate(ctx, otp.FlowSignup, email, code)
	if err != nil {
		return nil, err
	}

	var pending otp.PendingSignup
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("failed to decode pending signup: %w", err)
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, identity.ErrAlreadyExists
	} else if !errors.Is(err, identity.ErrNotFound) {
		return nil, err
	}

	salt, err := s.hasher.NewSalt()
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         pending.Name,
		Email:        email,
		PasswordHash: s.hasher.Hash(salt, pending.Password),
		PasswordSalt: salt,
		Gender:       pending.Gender,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID, "email": email}).Info("user verified and created")
	}
	return u, nil
}

// ResendSignupOTP re-issues the pending signup OTP with a fresh code and
// full TTL. The prior code stops validating the moment the record is
// overwritten.
func (s *IdentityService) ResendSignupOTP(ctx context.Context, email string) error {
	return s.resend(ctx, otp.FlowSignup, user.NormalizeEmail(email))
}

// ResendForgotOTP mirrors ResendSignupOTP for the forgot-password flow.
func (s *IdentityService) ResendForgotOTP(ctx context.Context, email string) error {
	return s.resend(ctx, otp.FlowForgot, user.NormalizeEmail(email))
}

func (s *IdentityService) resend(ctx context.Context, flow otp.Flow, email string) error {
	allowed, err := s.limiter.Reserve(ctx, flow, email)
	if err != nil {
		return err
	}
	if !allowed {
		return identity.ErrRateLimited
	}

	rec, ok, err := s.otpMgr.Peek(ctx, flow, email)
	if err != nil {
		return err
	}
	if !ok {
		// nothing pending; the user must restart the originating flow
		return identity.ErrSessionExpired
	}

	var payload any
	if len(rec.Payload) > 0 {
		payload = rec.Payload
	}
	code, err := s.otpMgr.Issue(ctx, flow, email, payload)
	if err != nil {
		return err
	}

	return s.publishOTPMail(ctx, flow, email, code)
}

// publishOTPMail queues the mail job. Publish is fire-and-forget relative
// to the cached OTP: a failure here leaves a valid code with no mail, and
// the user recovers via resend.
func (s *IdentityService) publishOTPMail(ctx context.Context, flow otp.Flow, email, code string) error {
	job := otp.EmailJob{
		To:      email,
		Subject: "Your OTP verification code",
		Body:    fmt.Sprintf("Dear %s, Your 6 digit OTP is : %s. It is valid for 5 minutes", email, code),
	}
	if flow == otp.FlowForgot {
		job.Subject = "Your password reset OTP"
		job.Body = fmt.Sprintf("Dear %s, Your password reset OTP is : %s. It is valid for 5 minutes", email, code)
	}

	body, err := json.Marshal(&job)
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}
	if err := s.queue.Publish(ctx, s.cfg.EmailQueue, body); err != nil {
		return fmt.Errorf("failed to publish email job: %w", err)
	}
	return nil
}
