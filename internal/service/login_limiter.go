package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// LoginLimiter throttles login attempts per identifier.
type LoginLimiter interface {
	Allow(ctx context.Context, identifier string) error
}

// RedisLoginLimiter counts attempts in a fixed window keyed by identifier.
// When Redis is unreachable the limiter degrades open: authentication must
// not depend on the limiter's availability.
type RedisLoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewRedisLoginLimiter builds a limiter. A nil client disables limiting.
func NewRedisLoginLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *RedisLoginLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLoginLimiter{client: client, limit: limit, window: window, logger: logger}
}

// Allow records an attempt and rejects once the window's budget is spent.
func (l *RedisLoginLimiter) Allow(ctx context.Context, identifier string) error {
	if l == nil || l.client == nil {
		return nil
	}

	key := "login_attempts:" + identifier
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
	if count > int64(l.limit) {
		return apperrors.NewRateLimited("too many login attempts")
	}
	return nil
}
