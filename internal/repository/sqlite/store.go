package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"habittracker/internal/db"
	"habittracker/internal/repository"
	pkgdb "habittracker/pkg/db"
)

// Open opens the database file at path, applies the schema and wires the repositories.
func Open(ctx context.Context, path string, logger *zap.Logger) (*repository.Store, error) {
	conn, err := pkgdb.OpenSQLite(ctx, path, logger)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateSQLite(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return NewStore(conn, logger), nil
}

func NewStore(conn *sql.DB, logger *zap.Logger) *repository.Store {
	return &repository.Store{
		Users:   NewUserRepository(conn, logger),
		Habits:  NewHabitRepository(conn, logger),
		Entries: NewEntryRepository(conn, logger),
		Ping:    conn.PingContext,
		Close:   func() { _ = conn.Close() },
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	return t, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
