package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"habittracker/internal/model"
	"habittracker/internal/repository"
	"habittracker/pkg/util"
)

const userColumns = `id, email, username, password_hash, firstname, lastname, created_at, token_count`

type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var createdAtStr string

	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Firstname, &u.Lastname, &createdAtStr, &u.TokenCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	createdAt := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, username, password_hash, firstname, lastname, created_at, token_count)
		VALUES (?, ?, ?, ?, ?, ?, 0)
	`, u.Email, u.Username, u.PasswordHash, u.Firstname, u.Lastname, formatTime(createdAt))
	if err != nil {
		if util.IsUniqueViolation(err) {
			return repository.ErrConflict
		}
		r.logger.Error("Failed to insert user", zap.String("username", u.Username), zap.Error(err))
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}

	u.ID = int(id)
	u.CreatedAt = createdAt
	u.TokenCount = 0
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, username = ?, password_hash = ?, firstname = ?, lastname = ?
		WHERE id = ?
	`, u.Email, u.Username, u.PasswordHash, u.Firstname, u.Lastname, u.ID)
	if err != nil {
		if util.IsUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(res)
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireAffected(res)
}

func (r *UserRepository) IncrementTokenCount(ctx context.Context, username string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET token_count = token_count + 1 WHERE username = ?`, username)
	if err != nil {
		return false, fmt.Errorf("failed to increment token count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
