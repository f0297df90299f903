package repository

import (
	"context"
	"errors"

	"habittracker/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with an existing one")
)

type UserRepository interface {
	// Create inserts u and fills in ID and CreatedAt. A taken email or
	// username yields ErrConflict.
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// Update writes the profile and credential columns. token_count is only
	// ever changed by IncrementTokenCount.
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int) error
	// IncrementTokenCount bumps token_count in place and reports whether a
	// user with that username existed.
	IncrementTokenCount(ctx context.Context, username string) (bool, error)
}

type HabitRepository interface {
	Create(ctx context.Context, h *model.Habit) error
	FindByID(ctx context.Context, id int) (*model.Habit, error)
	// ListByUser returns the user's habits ordered by title.
	ListByUser(ctx context.Context, userID int) ([]model.Habit, error)
	IsOwnedBy(ctx context.Context, habitID int, username string) (bool, error)
	Update(ctx context.Context, h *model.Habit) error
	Delete(ctx context.Context, id int) error
}

type EntryRepository interface {
	FindByID(ctx context.Context, id int) (*model.Entry, error)
	ListAll(ctx context.Context) ([]model.Entry, error)
	ListByHabit(ctx context.Context, habitID int) ([]model.Entry, error)
	ListForMonth(ctx context.Context, habitID, year, month int) ([]model.Entry, error)
	// Toggle removes the entry for (habit, year, month, day) if present and
	// creates it otherwise, atomically.
	Toggle(ctx context.Context, e model.Entry) (*model.Entry, model.ToggleState, error)
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Users   UserRepository
	Habits  HabitRepository
	Entries EntryRepository

	Ping  func(ctx context.Context) error
	Close func()
}
