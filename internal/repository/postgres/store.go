package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habittracker/internal/repository"
)

// NewStore wires the PostgreSQL repositories over one pool. Close releases the pool.
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *repository.Store {
	return &repository.Store{
		Users:   NewUserRepository(pool, logger),
		Habits:  NewHabitRepository(pool, logger),
		Entries: NewEntryRepository(pool, logger),
		Ping:    pool.Ping,
		Close:   pool.Close,
	}
}
