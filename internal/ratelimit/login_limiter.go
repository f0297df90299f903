package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginLimiter counts failed logins per email inside a fixed window.
// Redis errors never block a login.
type LoginLimiter struct {
	rdb         *redis.Client
	maxAttempts int64
	window      time.Duration
	logger      *zap.Logger
}

func NewLoginLimiter(rdb *redis.Client, maxAttempts int, window time.Duration, logger *zap.Logger) *LoginLimiter {
	return &LoginLimiter{
		rdb:         rdb,
		maxAttempts: int64(maxAttempts),
		window:      window,
		logger:      logger,
	}
}

func key(email string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(email))
}

// Allow reports whether another attempt for email may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, email string) bool {
	n, err := l.rdb.Get(ctx, key(email)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// Redis 不可用时不阻止登录
			l.logger.Warn("login limiter unavailable", zap.Error(err))
		}
		return true
	}
	return n < l.maxAttempts
}

// Fail records one failed attempt; the first failure starts the window.
// INCR and EXPIRE NX go out in one MULTI so a counter never outlives its window.
func (l *LoginLimiter) Fail(ctx context.Context, email string) {
	k := key(email)

	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		l.logger.Warn("failed to record login failure", zap.Error(err))
	}
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if err := l.rdb.Del(ctx, key(email)).Err(); err != nil {
		l.logger.Warn("failed to reset login failures", zap.Error(err))
	}
}
