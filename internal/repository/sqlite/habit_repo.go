package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"habittracker/internal/model"
	"habittracker/internal/repository"
)

const habitColumns = `id, user_id, title, COALESCE(description, ''), start_date`

type HabitRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewHabitRepository(db *sql.DB, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{db: db, logger: logger}
}

func scanHabit(row rowScanner) (*model.Habit, error) {
	var h model.Habit
	var startDateStr string

	err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &startDateStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan habit: %w", err)
	}

	h.StartDate, err = parseTime(startDateStr)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HabitRepository) Create(ctx context.Context, h *model.Habit) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO habits (user_id, title, description, start_date)
		VALUES (?, ?, NULLIF(?, ''), ?)
	`, h.UserID, h.Title, h.Description, formatTime(h.StartDate))
	if err != nil {
		r.logger.Error("Failed to insert habit", zap.Int("user_id", h.UserID), zap.Error(err))
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read habit id: %w", err)
	}
	h.ID = int(id)
	return nil
}

func (r *HabitRepository) FindByID(ctx context.Context, id int) (*model.Habit, error) {
	return scanHabit(r.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID int) ([]model.Habit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE user_id = ? ORDER BY title ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (r *HabitRepository) IsOwnedBy(ctx context.Context, habitID int, username string) (bool, error) {
	var owned bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM habits h
			JOIN users u ON u.id = h.user_id
			WHERE h.id = ? AND u.username = ?
		)
	`, habitID, username).Scan(&owned)
	if err != nil {
		return false, fmt.Errorf("failed to check habit owner: %w", err)
	}
	return owned, nil
}

func (r *HabitRepository) Update(ctx context.Context, h *model.Habit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE habits
		SET title = ?, description = NULLIF(?, ''), start_date = ?
		WHERE id = ?
	`, h.Title, h.Description, formatTime(h.StartDate), h.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireAffected(res)
}

func (r *HabitRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireAffected(res)
}
