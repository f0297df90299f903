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
)

const habitColumns = `id, user_id, title, COALESCE(description, ''), start_date`

type HabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{
		db:     db,
		logger: logger,
	}
}

func scanHabit(row pgx.Row) (*model.Habit, error) {
	var h model.Habit
	if err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &h.StartDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *HabitRepository) Create(ctx context.Context, h *model.Habit) error {
	r.logger.Debug("Inserting habit",
		zap.Int("user_id", h.UserID),
		zap.String("title", h.Title),
	)

	query := `
        INSERT INTO habits (user_id, title, description, start_date)
        VALUES ($1, $2, NULLIF($3, ''), $4)
        RETURNING id
    `
	if err := r.db.QueryRow(ctx, query, h.UserID, h.Title, h.Description, h.StartDate).Scan(&h.ID); err != nil {
		r.logger.Error("Failed to insert habit", zap.Error(err))
		return fmt.Errorf("insert habit: %w", err)
	}

	r.logger.Info("Habit inserted successfully",
		zap.Int("id", h.ID),
		zap.Int("user_id", h.UserID),
	)
	return nil
}

func (r *HabitRepository) FindByID(ctx context.Context, id int) (*model.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`
	return scanHabit(r.db.QueryRow(ctx, query, id))
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID int) ([]model.Habit, error) {
	r.logger.Debug("Listing habits for user", zap.Int("user_id", userID))

	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 ORDER BY title ASC, id ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list habits", zap.Error(err))
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			r.logger.Error("Failed to scan habit", zap.Error(err))
			return nil, err
		}
		habits = append(habits, *h)
	}

	r.logger.Debug("Listed habits",
		zap.Int("user_id", userID),
		zap.Int("count", len(habits)),
	)
	return habits, rows.Err()
}

func (r *HabitRepository) IsOwnedBy(ctx context.Context, habitID int, username string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM habits h
            JOIN users u ON u.id = h.user_id
            WHERE h.id = $1 AND u.username = $2
        )
    `
	var owned bool
	if err := r.db.QueryRow(ctx, query, habitID, username).Scan(&owned); err != nil {
		r.logger.Error("Failed to check habit ownership", zap.Int("habit_id", habitID), zap.Error(err))
		return false, fmt.Errorf("check habit owner: %w", err)
	}
	return owned, nil
}

func (r *HabitRepository) Update(ctx context.Context, h *model.Habit) error {
	query := `
        UPDATE habits
        SET title = $2, description = NULLIF($3, ''), start_date = $4
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, h.ID, h.Title, h.Description, h.StartDate)
	if err != nil {
		r.logger.Error("Failed to update habit", zap.Int("id", h.ID), zap.Error(err))
		return fmt.Errorf("update habit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *HabitRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete habit", zap.Int("id", id), zap.Error(err))
		return fmt.Errorf("delete habit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	r.logger.Info("Habit deleted", zap.Int("id", id))
	return nil
}
