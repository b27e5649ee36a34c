package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-dashboard/internal/persistence"
)

const loginAttemptKeyPrefix = "login_attempts:"

// LoginThrottle caps failed login attempts per email within a sliding
// window. A nil throttle allows everything, so the account service works
// unchanged when Redis is not deployed.
type LoginThrottle struct {
	redis       *persistence.Redis
	maxAttempts int64
	window      time.Duration
	logger      *zap.Logger
}

// NewLoginThrottle builds a throttle; returns nil when redis is nil.
func NewLoginThrottle(redis *persistence.Redis, maxAttempts int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	if redis == nil || maxAttempts <= 0 {
		return nil
	}
	return &LoginThrottle{
		redis:       redis,
		maxAttempts: int64(maxAttempts),
		window:      window,
		logger:      logger,
	}
}

// Allow reports whether a login attempt for email may proceed. Redis
// failures allow the attempt; the throttle degrades open rather than
// locking every caller out.
func (t *LoginThrottle) Allow(ctx context.Context, email string) bool {
	if t == nil {
		return true
	}
	count, err := t.redis.Get(ctx, loginAttemptKeyPrefix+email)
	if err != nil {
		t.logger.Warn("login throttle lookup failed", zap.Error(err))
		return true
	}
	return count < t.maxAttempts
}

// RecordFailure counts a failed attempt for email.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) {
	if t == nil {
		return
	}
	if _, err := t.redis.IncrWithWindow(ctx, loginAttemptKeyPrefix+email, t.window); err != nil {
		t.logger.Warn("login throttle increment failed", zap.Error(err))
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil {
		return
	}
	if err := t.redis.Del(ctx, loginAttemptKeyPrefix+email); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}
