package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	contracts "habittracker/contracts/mq"
	"habittracker/internal/auth"
	"habittracker/internal/model"
	"habittracker/internal/mq"
	"habittracker/internal/repository"
	"habittracker/pkg/logger"
)

type UserService struct {
	users       repository.UserRepository
	hasher      auth.Hasher
	credentials *auth.Credentials
	events      mq.EventPublisher
	logger      *zap.Logger
}

func NewUserService(
	users repository.UserRepository,
	hasher auth.Hasher,
	credentials *auth.Credentials,
	events mq.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:       users,
		hasher:      hasher,
		credentials: credentials,
		events:      events,
		logger:      logger,
	}
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user", username)
	}
	return u, nil
}

func (s *UserService) FindByID(ctx context.Context, id int) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// UpdatePassword stores the new hash and revokes every outstanding refresh token.
func (s *UserService) UpdatePassword(ctx context.Context, username, password string) error {
	u, err := s.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash

	if err := s.users.Update(ctx, u); err != nil {
		return err
	}
	if _, err := s.credentials.Invalidate(ctx, u.Username); err != nil {
		return err
	}

	logger.WithTrace(ctx, s.logger).Info("Password updated", zap.Int("user_id", u.ID))
	return nil
}

// UpdateEmail reports false when the email is already taken, whether that is
// seen up front or only by the unique constraint at save time.
func (s *UserService) UpdateEmail(ctx context.Context, username, email string) (bool, error) {
	if taken, err := s.exists(s.users.FindByEmail(ctx, email)); err != nil || taken {
		return false, err
	}

	u, err := s.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	u.Email = email

	return s.saveCredentialChange(ctx, u)
}

// UpdateUsername follows the same contract as UpdateEmail. Tokens are revoked
// under the new username.
func (s *UserService) UpdateUsername(ctx context.Context, username, newUsername string) (bool, error) {
	if taken, err := s.exists(s.users.FindByUsername(ctx, newUsername)); err != nil || taken {
		return false, err
	}

	u, err := s.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	u.Username = newUsername

	return s.saveCredentialChange(ctx, u)
}

func (s *UserService) saveCredentialChange(ctx context.Context, u *model.User) (bool, error) {
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	if _, err := s.credentials.Invalidate(ctx, u.Username); err != nil {
		return false, err
	}

	logger.WithTrace(ctx, s.logger).Info("Credentials updated", zap.Int("user_id", u.ID))
	return true, nil
}

func (s *UserService) exists(_ *model.User, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// UpdateMe overwrites only the names that are supplied and non-empty.
func (s *UserService) UpdateMe(ctx context.Context, username string, firstname, lastname *string) (*model.User, error) {
	u, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	changed := false
	if firstname != nil && *firstname != "" {
		u.Firstname = *firstname
		changed = true
	}
	if lastname != nil && *lastname != "" {
		u.Lastname = *lastname
		changed = true
	}
	if !changed {
		return u, nil
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteAccount removes the user and, by cascade, their habits and entries.
func (s *UserService) DeleteAccount(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		return nil, ErrIncorrectPassword
	}

	if err := s.users.Delete(ctx, u.ID); err != nil {
		return nil, notFound(err, "user", username)
	}

	logger.WithTrace(ctx, s.logger).Info("Account deleted", zap.Int("user_id", u.ID))
	s.events.Publish(ctx, contracts.RoutingUserDeleted, contracts.UserDeletedPayload{
		UserID:   u.ID,
		Username: u.Username,
	})
	return u, nil
}
