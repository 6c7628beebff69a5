package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RedisLoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLoginLimiter(client, limit, window, zap.NewNop()), mini
}

func TestLimiterAllowsWithinBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(ctx, "alice@example.com"))
	}

	err := limiter.Allow(ctx, "alice@example.com")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "RATE_LIMITED", domainErr.Code)

	// Other identifiers have their own budget.
	assert.NoError(t, limiter.Allow(ctx, "bob@example.com"))
}

func TestLimiterWindowExpires(t *testing.T) {
	limiter, mini := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, limiter.Allow(ctx, "alice@example.com"))
	require.Error(t, limiter.Allow(ctx, "alice@example.com"))

	mini.FastForward(time.Minute + time.Second)
	assert.NoError(t, limiter.Allow(ctx, "alice@example.com"))
}

func TestLimiterDegradesOpen(t *testing.T) {
	limiter, mini := newTestLimiter(t, 1, time.Minute)
	mini.Close()

	// Redis being down must never block logins.
	assert.NoError(t, limiter.Allow(context.Background(), "alice@example.com"))
}

func TestLimiterNilClientDisabled(t *testing.T) {
	limiter := NewRedisLoginLimiter(nil, 1, time.Minute, zap.NewNop())
	for i := 0; i < 5; i++ {
		assert.NoError(t, limiter.Allow(context.Background(), "alice@example.com"))
	}
}
