package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatly/user-service/configs"
	"github.com/chatly/user-service/internal/application/services"
	"github.com/chatly/user-service/internal/core/domain/identity"
	"github.com/chatly/user-service/internal/core/domain/otp"
	"github.com/chatly/user-service/internal/core/domain/user"
	"github.com/chatly/user-service/internal/core/ports"
	"github.com/chatly/user-service/internal/infrastructure/hash"
	"github.com/chatly/user-service/test/mocks"
)

// identityFixture wires the orchestrator over the real OTP, rate-limit,
// hash and token implementations with an in-memory cache and user store,
// so tests exercise the same key schema production uses.
type identityFixture struct {
	svc       ports.IdentityService
	cache     *mocks.CacheFake
	otpMgr    ports.OTPManager
	publisher *mocks.PublisherMock
	captcha   *mocks.CaptchaVerifierMock
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	users     map[string]*user.User
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()

	f := &identityFixture{
		cache:     mocks.NewCacheFake(),
		publisher: &mocks.PublisherMock{},
		captcha:   &mocks.CaptchaVerifierMock{},
		hasher:    hash.NewPBKDF2Hasher(),
		users:     make(map[string]*user.User),
	}
	f.otpMgr = services.NewOTPService(f.cache, 5*time.Minute, nil)
	f.tokens = services.NewTokenService(&configs.JWTConfig{Secret: "test-secret", TokenTTL: time.Hour})

	repo := &mocks.UserRepositoryMock{
		CreateFn: func(ctx context.Context, u *user.User) error {
			if _, exists := f.users[u.Email]; exists {
				return identity.ErrAlreadyExists
			}
			cp := *u
			f.users[u.Email] = &cp
			return nil
		},
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			u, ok := f.users[email]
			if !ok {
				return nil, identity.ErrNotFound
			}
			cp := *u
			return &cp, nil
		},
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
			for _, u := range f.users {
				if u.ID == id {
					cp := *u
					return &cp, nil
				}
			}
			return nil, identity.ErrNotFound
		},
		UpdateFn: func(ctx context.Context, u *user.User) error {
			if _, ok := f.users[u.Email]; !ok {
				return identity.ErrNotFound
			}
			cp := *u
			f.users[u.Email] = &cp
			return nil
		},
	}

	limiter := services.NewRateLimiterService(f.cache, time.Minute, nil)
	f.svc = services.NewIdentityService(
		repo, f.otpMgr, limiter, f.cache, f.publisher, f.captcha,
		f.hasher, f.tokens, services.IdentityServiceConfig{}, nil,
	)
	return f
}

// pendingCode reads the live OTP code the way a user would from the mail.
func (f *identityFixture) pendingCode(t *testing.T, flow otp.Flow, email string) string {
	t.Helper()
	rec, ok, err := f.otpMgr.Peek(context.Background(), flow, email)
	require.NoError(t, err)
	require.True(t, ok, "expected a live otp record for %s", email)
	return rec.Code
}

// seedUser inserts a verified user directly into the store.
func (f *identityFixture) seedUser(t *testing.T, email, password string) *user.User {
	t.Helper()
	salt, err := f.hasher.NewSalt()
	require.NoError(t, err)
	u := &user.User{
		ID:           uuid.New(),
		Name:         "Alice",
		Email:        email,
		PasswordHash: f.hasher.Hash(salt, password),
		PasswordSalt: salt,
		Gender:       user.GenderFemale,
	}
	f.users[email] = u
	return u
}

func signupRequest() *user.SignupRequest {
	return &user.SignupRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
		Gender:   user.GenderFemale,
		Captcha:  "captcha-token",
	}
}

func TestSignup_IssuesOTPAndQueuesMail(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Signup(ctx, signupRequest()))

	// email is normalized before it becomes a cache key
	assert.True(t, f.cache.Has("signup:otp:alice@example.com"))
	assert.True(t, f.cache.Has("otp:ratelimit:alice@example.com"))
	assert.Empty(t, f.users, "no user row before verification")

	require.Equal(t, 1, f.publisher.Count())
	msg := f.publisher.Published[0]
	assert.Equal(t, "send-otp", msg.Queue)

	var job otp.EmailJob
	require.NoError(t, json.Unmarshal(msg.Body, &job))
	assert.Equal(t, "alice@example.com", job.To)
	assert.Contains(t, job.Body, f.pendingCode(t, otp.FlowSignup, "alice@example.com"))
}

func TestSignup_ShortPasswordHasNoSideEffects(t *testing.T) {
	f := newIdentityFixture(t)
	req := signupRequest()
	req.Password = "tiny"

	err := f.svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, identity.ErrValidation)
	assert.False(t, f.cache.Has("signup:otp:alice@example.com"))
	assert.False(t, f.cache.Has("otp:ratelimit:alice@example.com"))
	assert.Zero(t, f.publisher.Count())
}

func TestSignup_CaptchaRejected(t *testing.T) {
	f := newIdentityFixture(t)
	f.captcha.VerifyFn = func(ctx context.Context, token string) (bool, error) {
		return false, nil
	}

	err := f.svc.Signup(context.Background(), signupRequest())
	assert.ErrorIs(t, err, identity.ErrCaptchaRejected)
	assert.False(t, f.cache.Has("otp:ratelimit:alice@example.com"))
	assert.Zero(t, f.publisher.Count())
}

func TestSignup_SecondRequestWithinWindowRateLimited(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Signup(ctx, signupRequest()))
	err := f.svc.Signup(ctx, signupRequest())
	assert.ErrorIs(t, err, identity.ErrRateLimited)
	assert.Equal(t, 1, f.publisher.Count())
}

func TestSignupVerifyLogin_EndToEnd(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Signup(ctx, signupRequest()))
	code := f.pendingCode(t, otp.FlowSignup, "alice@example.com")

	u, err := f.svc.VerifySignup(ctx, "alice@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "secret123", u.PasswordHash, "password must be stored hashed")
	assert.NotEmpty(t, u.PasswordSalt)
	require.Contains(t, f.users, "alice@example.com")

	// the code is single-use
	_, err = f.svc.VerifySignup(ctx, "alice@example.com", code)
	assert.ErrorIs(t, err, identity.ErrOTPExpired)

	logged, token, err := f.svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, _, err = f.svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestVerifySignup_WrongCodeAllowsRetry(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Signup(ctx, signupRequest()))
	code := f.pendingCode(t, otp.FlowSignup, "alice@example.com")

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err := f.svc.VerifySignup(ctx, "alice@example.com", wrong)
	assert.ErrorIs(t, err, identity.ErrOTPMismatch)

	_, err = f.svc.VerifySignup(ctx, "alice@example.com", code)
	assert.NoError(t, err)
}

func TestVerifySignup_ExistingEmail(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "secret123")

	require.NoError(t, f.svc.Signup(ctx, signupRequest()))
	code := f.pendingCode(t, otp.FlowSignup, "alice@example.com")

	_, err := f.svc.VerifySignup(ctx, "alice@example.com", code)
	assert.ErrorIs(t, err, identity.ErrAlreadyExists)
}

func TestResendSignupOTP_ReplacesCodeAndKeepsPayload(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Signup(ctx, signupRequest()))
	first := f.pendingCode(t, otp.FlowSignup, "alice@example.com")

	// simulate the cooldown window elapsing
	f.cache.Expire("otp:ratelimit:alice@example.com")

	require.NoError(t, f.svc.ResendSignupOTP(ctx, "alice@example.com"))
	second := f.pendingCode(t, otp.FlowSignup, "alice@example.com")
	assert.Equal(t, 2, f.publisher.Count())

	if first != second {
		_, err := f.svc.VerifySignup(ctx, "alice@example.com", first)
		assert.ErrorIs(t, err, identity.ErrOTPMismatch)
	}

	// the pending signup payload survives the reissue
	u, err := f.svc.VerifySignup(ctx, "alice@example.com", second)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.True(t, f.hasher.Compare(u.PasswordSalt, "secret123", u.PasswordHash))
}

func TestResendSignupOTP_NothingPending(t *testing.T) {
	f := newIdentityFixture(t)

	err := f.svc.ResendSignupOTP(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, identity.ErrSessionExpired)
	assert.Zero(t, f.publisher.Count())
}

func TestResendSignupOTP_WithinCooldown(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Signup(ctx, signupRequest()))
	err := f.svc.ResendSignupOTP(ctx, "alice@example.com")
	assert.ErrorIs(t, err, identity.ErrRateLimited)
}

func TestForgotPassword_UnregisteredEmail(t *testing.T) {
	f := newIdentityFixture(t)

	err := f.svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, identity.ErrNotFound)
	assert.False(t, f.cache.Has("forgot:otp:nobody@example.com"))
	assert.Zero(t, f.publisher.Count())
}

func TestForgotFlow_EndToEnd(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "oldpass123")

	require.NoError(t, f.svc.ForgotPassword(ctx, "alice@example.com"))
	assert.Equal(t, 1, f.publisher.Count())

	// back-to-back requests hit the forgot cooldown
	err := f.svc.ForgotPassword(ctx, "alice@example.com")
	assert.ErrorIs(t, err, identity.ErrRateLimited)

	code := f.pendingCode(t, otp.FlowForgot, "alice@example.com")
	require.NoError(t, f.svc.VerifyForgotOTP(ctx, "alice@example.com", code))
	assert.True(t, f.cache.Has("forgot:verified:alice@example.com"))

	// the OTP was consumed; replaying it reads as expired
	err = f.svc.VerifyForgotOTP(ctx, "alice@example.com", code)
	assert.ErrorIs(t, err, identity.ErrOTPExpired)

	require.NoError(t, f.svc.ResetPassword(ctx, &user.ResetPasswordRequest{
		Email:           "alice@example.com",
		Password:        "newpass123",
		ConfirmPassword: "newpass123",
	}))

	_, _, err = f.svc.Login(ctx, "alice@example.com", "oldpass123")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	_, _, err = f.svc.Login(ctx, "alice@example.com", "newpass123")
	assert.NoError(t, err)

	// the grant is single-use
	err = f.svc.ResetPassword(ctx, &user.ResetPasswordRequest{
		Email:           "alice@example.com",
		Password:        "anotherpass1",
		ConfirmPassword: "anotherpass1",
	})
	assert.ErrorIs(t, err, identity.ErrOTPNotVerified)
}

func TestResetPassword_WithoutGrant(t *testing.T) {
	f := newIdentityFixture(t)
	f.seedUser(t, "alice@example.com", "oldpass123")

	err := f.svc.ResetPassword(context.Background(), &user.ResetPasswordRequest{
		Email:           "alice@example.com",
		Password:        "newpass123",
		ConfirmPassword: "newpass123",
	})
	assert.ErrorIs(t, err, identity.ErrOTPNotVerified)
}

func TestResetPassword_ConfirmationMismatch(t *testing.T) {
	f := newIdentityFixture(t)
	f.seedUser(t, "alice@example.com", "oldpass123")

	// the mismatch is reported before the grant is even consulted
	err := f.svc.ResetPassword(context.Background(), &user.ResetPasswordRequest{
		Email:           "alice@example.com",
		Password:        "newpass123",
		ConfirmPassword: "different123",
	})
	assert.ErrorIs(t, err, identity.ErrPasswordMismatch)
}

func TestResetPassword_ShortNewPassword(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	f.seedUser(t, "alice@example.com", "oldpass123")
	require.NoError(t, f.cache.Set(ctx, otp.ResetGrantKey("alice@example.com"), []byte("true"), 10*time.Minute))

	err := f.svc.ResetPassword(ctx, &user.ResetPasswordRequest{
		Email:           "alice@example.com",
		Password:        "tiny",
		ConfirmPassword: "tiny",
	})
	assert.ErrorIs(t, err, identity.ErrValidation)
}

func TestUpdateName_ReissuesToken(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	u := f.seedUser(t, "alice@example.com", "secret123")

	updated, token, err := f.svc.UpdateName(ctx, u.ID, "Alice Cooper")
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "Alice Cooper", f.users["alice@example.com"].Name)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", claims.Name)
}

func TestUpdateName_InvalidName(t *testing.T) {
	f := newIdentityFixture(t)
	u := f.seedUser(t, "alice@example.com", "secret123")

	_, _, err := f.svc.UpdateName(context.Background(), u.ID, "ab")
	assert.ErrorIs(t, err, identity.ErrValidation)
}
