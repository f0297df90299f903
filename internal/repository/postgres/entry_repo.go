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

const entryColumns = `id, habit_id, year, month, day`

type EntryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewEntryRepository(db *pgxpool.Pool, logger *zap.Logger) *EntryRepository {
	return &EntryRepository{
		db:     db,
		logger: logger,
	}
}

func scanEntry(row pgx.Row) (*model.Entry, error) {
	var e model.Entry
	if err := row.Scan(&e.ID, &e.HabitID, &e.Year, &e.Month, &e.Day); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id int) (*model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	return scanEntry(r.db.QueryRow(ctx, query, id))
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]model.Entry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY id`)
}

func (r *EntryRepository) ListByHabit(ctx context.Context, habitID int) ([]model.Entry, error) {
	return r.list(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE habit_id = $1 ORDER BY year, month, day`,
		habitID,
	)
}

func (r *EntryRepository) ListForMonth(ctx context.Context, habitID, year, month int) ([]model.Entry, error) {
	return r.list(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE habit_id = $1 AND year = $2 AND month = $3 ORDER BY day`,
		habitID, year, month,
	)
}

func (r *EntryRepository) list(ctx context.Context, query string, args ...any) ([]model.Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list entries", zap.Error(err))
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			r.logger.Error("Failed to scan entry", zap.Error(err))
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *EntryRepository) Toggle(ctx context.Context, e model.Entry) (*model.Entry, model.ToggleState, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
        DELETE FROM entries
        WHERE habit_id = $1 AND year = $2 AND month = $3 AND day = $4
        RETURNING id
    `, e.HabitID, e.Year, e.Month, e.Day).Scan(&e.ID)
	switch {
	case err == nil:
		if err := tx.Commit(ctx); err != nil {
			return nil, "", fmt.Errorf("commit toggle: %w", err)
		}
		return &e, model.ToggleRemoved, nil
	case !errors.Is(err, pgx.ErrNoRows):
		r.logger.Error("Failed to delete entry", zap.Int("habit_id", e.HabitID), zap.Error(err))
		return nil, "", fmt.Errorf("delete entry: %w", err)
	}

	err = tx.QueryRow(ctx, `
        INSERT INTO entries (habit_id, year, month, day)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (habit_id, year, month, day) DO NOTHING
        RETURNING id
    `, e.HabitID, e.Year, e.Month, e.Day).Scan(&e.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		// 并发插入已存在，读回已有行
		err = tx.QueryRow(ctx, `
            SELECT id FROM entries
            WHERE habit_id = $1 AND year = $2 AND month = $3 AND day = $4
        `, e.HabitID, e.Year, e.Month, e.Day).Scan(&e.ID)
	}
	if err != nil {
		r.logger.Error("Failed to insert entry", zap.Int("habit_id", e.HabitID), zap.Error(err))
		return nil, "", fmt.Errorf("insert entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, "", fmt.Errorf("commit toggle: %w", err)
	}
	return &e, model.ToggleAdded, nil
}
