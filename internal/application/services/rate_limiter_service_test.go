package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatly/user-service/internal/application/services"
	"github.com/chatly/user-service/internal/core/domain/otp"
	"github.com/chatly/user-service/test/mocks"
)

func TestRateLimiter_SecondReserveWithinWindowBlocked(t *testing.T) {
	cache := mocks.NewCacheFake()
	limiter := services.NewRateLimiterService(cache, time.Minute, nil)
	ctx := context.Background()

	ok, err := limiter.Reserve(ctx, otp.FlowSignup, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = limiter.Reserve(ctx, otp.FlowSignup, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateLimiter_ReserveAfterExpiry(t *testing.T) {
	cache := mocks.NewCacheFake()
	limiter := services.NewRateLimiterService(cache, time.Minute, nil)
	ctx := context.Background()

	ok, err := limiter.Reserve(ctx, otp.FlowSignup, "alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	cache.Expire("otp:ratelimit:alice@example.com")

	ok, err = limiter.Reserve(ctx, otp.FlowSignup, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_EmailsAreIndependent(t *testing.T) {
	cache := mocks.NewCacheFake()
	limiter := services.NewRateLimiterService(cache, time.Minute, nil)
	ctx := context.Background()

	ok, err := limiter.Reserve(ctx, otp.FlowSignup, "alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Reserve(ctx, otp.FlowSignup, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_ForgotFlowHasOwnMarker(t *testing.T) {
	cache := mocks.NewCacheFake()
	limiter := services.NewRateLimiterService(cache, time.Minute, nil)
	ctx := context.Background()

	ok, err := limiter.Reserve(ctx, otp.FlowSignup, "alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	// a signup cooldown does not block the forgot flow for the same email
	ok, err = limiter.Reserve(ctx, otp.FlowForgot, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, cache.Has("otp:ratelimit:alice@example.com"))
	assert.True(t, cache.Has("otp:ratelimit:forgot:alice@example.com"))
}
