package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	contracts "habittracker/contracts/mq"
	"habittracker/internal/auth"
	"habittracker/internal/model"
	"habittracker/internal/mq"
	"habittracker/internal/repository"
	"habittracker/pkg/logger"
	"habittracker/pkg/metrics"
)

type RegisterParams struct {
	Email     string
	Password  string
	Username  string
	Firstname string
	Lastname  string
}

type AuthService struct {
	users       repository.UserRepository
	hasher      auth.Hasher
	codec       *auth.TokenCodec
	credentials *auth.Credentials
	limiter     LoginLimiter
	events      mq.EventPublisher
	logger      *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	hasher auth.Hasher,
	codec *auth.TokenCodec,
	credentials *auth.Credentials,
	limiter LoginLimiter,
	events mq.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		hasher:      hasher,
		codec:       codec,
		credentials: credentials,
		limiter:     limiter,
		events:      events,
		logger:      logger,
	}
}

// Register creates a new user. Uniqueness is left to the storage constraint.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*model.User, error) {
	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:        p.Email,
		Username:     p.Username,
		PasswordHash: hash,
		Firstname:    p.Firstname,
		Lastname:     p.Lastname,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAccountTaken
		}
		return nil, err
	}

	logger.WithTrace(ctx, s.logger).Info("User registered",
		zap.Int("user_id", u.ID),
		zap.String("username", u.Username),
	)
	s.events.Publish(ctx, contracts.RoutingUserRegistered, contracts.UserRegisteredPayload{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
	})
	return u, nil
}

// Login checks the credentials and mints a token pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, auth.TokenPair, error) {
	log := logger.WithTrace(ctx, s.logger)
	email = strings.TrimSpace(email)

	if !s.limiter.Allow(ctx, email) {
		metrics.IncrementLoginFailure("throttled")
		log.Warn("Login throttled", zap.String("email", email))
		return nil, auth.TokenPair{}, ErrTooManyAttempts
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, auth.TokenPair{}, err
	}
	if u == nil || !s.hasher.Compare(u.PasswordHash, password) {
		s.limiter.Fail(ctx, email)
		metrics.IncrementLoginFailure("invalid")
		log.Info("Login rejected", zap.String("email", email))
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.codec.IssueTokens(u)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	s.limiter.Reset(ctx, email)
	log.Info("User logged in", zap.Int("user_id", u.ID))
	return u, pair, nil
}

// RevokeTokens invalidates every refresh token of username. Anonymous callers get false.
func (s *AuthService) RevokeTokens(ctx context.Context, username string) (bool, error) {
	return s.credentials.Invalidate(ctx, username)
}
