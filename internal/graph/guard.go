package graph

import (
	"context"

	"habittracker/internal/auth"
)

// GuardArgs carries the resolver arguments guards may inspect.
type GuardArgs struct {
	HabitID int
}

// Guard rejects a resolver call by returning an error.
type Guard func(ctx context.Context, args GuardArgs) error

// OwnershipChecker answers whether a habit belongs to a user.
type OwnershipChecker interface {
	IsOwnedBy(ctx context.Context, habitID int, username string) (bool, error)
}

func Authenticated(ctx context.Context, _ GuardArgs) error {
	if auth.UsernameFromContext(ctx) == "" {
		return errNotLoggedIn
	}
	return nil
}

// HabitOwner reports a missing habit and a foreign one the same way.
func HabitOwner(habits OwnershipChecker) Guard {
	return func(ctx context.Context, args GuardArgs) error {
		owned, err := habits.IsOwnedBy(ctx, args.HabitID, auth.UsernameFromContext(ctx))
		if err != nil {
			return err
		}
		if !owned {
			return errHabitNotFound(args.HabitID)
		}
		return nil
	}
}

// runGuards 按顺序执行，第一个错误直接返回
func runGuards(ctx context.Context, args GuardArgs, guards ...Guard) error {
	for _, g := range guards {
		if err := g(ctx, args); err != nil {
			return err
		}
	}
	return nil
}
