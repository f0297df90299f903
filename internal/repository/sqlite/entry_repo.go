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

const entryColumns = `id, habit_id, year, month, day`

type EntryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewEntryRepository(db *sql.DB, logger *zap.Logger) *EntryRepository {
	return &EntryRepository{db: db, logger: logger}
}

func scanEntry(row rowScanner) (*model.Entry, error) {
	var e model.Entry
	err := row.Scan(&e.ID, &e.HabitID, &e.Year, &e.Month, &e.Day)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}
	return &e, nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id int) (*model.Entry, error) {
	return scanEntry(r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id))
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]model.Entry, error) {
	return r.list(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY id`)
}

func (r *EntryRepository) ListByHabit(ctx context.Context, habitID int) ([]model.Entry, error) {
	return r.list(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE habit_id = ? ORDER BY year, month, day`,
		habitID,
	)
}

func (r *EntryRepository) ListForMonth(ctx context.Context, habitID, year, month int) ([]model.Entry, error) {
	return r.list(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE habit_id = ? AND year = ? AND month = ? ORDER BY day`,
		habitID, year, month,
	)
}

func (r *EntryRepository) list(ctx context.Context, query string, args ...any) ([]model.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *EntryRepository) Toggle(ctx context.Context, e model.Entry) (*model.Entry, model.ToggleState, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to begin toggle: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		DELETE FROM entries
		WHERE habit_id = ? AND year = ? AND month = ? AND day = ?
		RETURNING id
	`, e.HabitID, e.Year, e.Month, e.Day).Scan(&e.ID)
	switch {
	case err == nil:
		if err := tx.Commit(); err != nil {
			return nil, "", fmt.Errorf("failed to commit toggle: %w", err)
		}
		return &e, model.ToggleRemoved, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, "", fmt.Errorf("failed to delete entry: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO entries (habit_id, year, month, day)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (habit_id, year, month, day) DO NOTHING
		RETURNING id
	`, e.HabitID, e.Year, e.Month, e.Day).Scan(&e.ID)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM entries
			WHERE habit_id = ? AND year = ? AND month = ? AND day = ?
		`, e.HabitID, e.Year, e.Month, e.Day).Scan(&e.ID)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to insert entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit toggle: %w", err)
	}
	return &e, model.ToggleAdded, nil
}
