package service

import (
	"context"
)

// LoginLimiter throttles failed logins per email, see internal/ratelimit.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) bool
	Fail(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

type NopLimiter struct{}

func (NopLimiter) Allow(context.Context, string) bool { return true }
func (NopLimiter) Fail(context.Context, string)       {}
func (NopLimiter) Reset(context.Context, string)      {}
