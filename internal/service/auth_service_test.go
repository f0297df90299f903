package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contracts "habittracker/contracts/mq"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.register(t, "alice")
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, 0, u.TokenCount)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.Equal(t, []string{contracts.RoutingUserRegistered}, f.events.routingKeys())

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.auth.Register(ctx, RegisterParams{
			Email: "alice@example.com", Password: "password123", Username: "other", Firstname: "A", Lastname: "B",
		})
		assert.ErrorIs(t, err, ErrAccountTaken)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := f.auth.Register(ctx, RegisterParams{
			Email: "other@example.com", Password: "password123", Username: "alice", Firstname: "A", Lastname: "B",
		})
		assert.ErrorIs(t, err, ErrAccountTaken)
	})
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	u, pair, err := f.auth.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	claims, err := f.codec.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 0, claims.TokenCount)

	_, _, wrongPassword := f.auth.Login(ctx, "alice@example.com", "nope-nope")
	_, _, unknownEmail := f.auth.Login(ctx, "bob@example.com", "password123")
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginThrottle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	for i := 0; i < f.limiter.max; i++ {
		_, _, err := f.auth.Login(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, _, err := f.auth.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestLoginSuccessResetsThrottle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, _, _ = f.auth.Login(ctx, "alice@example.com", "wrong-password")
	_, _, err := f.auth.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Zero(t, f.limiter.failures["alice@example.com"])
}

func TestRevokeTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	ok, err := f.auth.RevokeTokens(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.auth.RevokeTokens(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	u, err := f.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, u.TokenCount)
}
