package auth

import (
	"context"

	"go.uber.org/zap"
)

// TokenCounter is the slice of the user repository the credential store needs.
type TokenCounter interface {
	IncrementTokenCount(ctx context.Context, username string) (bool, error)
}

// Credentials revokes every refresh token of a user at once by bumping the
// user's token count.
type Credentials struct {
	users  TokenCounter
	logger *zap.Logger
}

func NewCredentials(users TokenCounter, logger *zap.Logger) *Credentials {
	return &Credentials{users: users, logger: logger}
}

// Invalidate reports false when username is empty or unknown.
func (c *Credentials) Invalidate(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}

	ok, err := c.users.IncrementTokenCount(ctx, username)
	if err != nil {
		c.logger.Error("Failed to invalidate tokens", zap.String("username", username), zap.Error(err))
		return false, err
	}
	if ok {
		c.logger.Info("Refresh tokens invalidated", zap.String("username", username))
	}
	return ok, nil
}
