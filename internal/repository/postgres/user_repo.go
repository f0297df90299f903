package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habittracker/internal/model"
	"habittracker/internal/repository"
	"habittracker/pkg/util"
)

const userColumns = `id, email, username, password_hash, firstname, lastname, created_at, token_count`

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.Firstname,
		&u.Lastname,
		&u.CreatedAt,
		&u.TokenCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (email, username, password_hash, firstname, lastname, created_at, token_count)
        VALUES ($1, $2, $3, $4, $5, NOW(), 0)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.Firstname,
		u.Lastname,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if util.IsUniqueViolation(err) {
			return repository.ErrConflict
		}
		r.logger.Error("Failed to insert user", zap.String("username", u.Username), zap.Error(err))
		return fmt.Errorf("insert user: %w", err)
	}

	u.TokenCount = 0
	r.logger.Info("User inserted", zap.Int("id", u.ID), zap.String("username", u.Username))
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			r.logger.Error("Failed to scan user", zap.Error(err))
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	query := `
        UPDATE users
        SET email = $2, username = $3, password_hash = $4, firstname = $5, lastname = $6
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query,
		u.ID,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.Firstname,
		u.Lastname,
	)
	if err != nil {
		if util.IsUniqueViolation(err) {
			return repository.ErrConflict
		}
		r.logger.Error("Failed to update user", zap.Int("id", u.ID), zap.Error(err))
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete user", zap.Int("id", id), zap.Error(err))
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	r.logger.Info("User deleted", zap.Int("id", id))
	return nil
}

func (r *UserRepository) IncrementTokenCount(ctx context.Context, username string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET token_count = token_count + 1 WHERE username = $1`,
		username,
	)
	if err != nil {
		r.logger.Error("Failed to increment token count", zap.String("username", username), zap.Error(err))
		return false, fmt.Errorf("increment token count: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
