package graph

import (
	"context"

	"habittracker/internal/auth"
	"habittracker/internal/service"
)

func (r *Resolver) MyHabits(ctx context.Context) ([]*habitResolver, error) {
	if err := r.check(ctx, nil, GuardArgs{}, Authenticated); err != nil {
		return nil, r.present(ctx, "myHabits", err)
	}

	habits, err := r.habitSvc.ListForUser(ctx, auth.UsernameFromContext(ctx))
	if err != nil {
		return nil, r.present(ctx, "myHabits", err)
	}
	return r.habitList(habits), nil
}

func (r *Resolver) Habit(ctx context.Context, args struct{ ID int32 }) (*habitResolver, error) {
	id := int(args.ID)
	if err := r.check(ctx, nil, GuardArgs{HabitID: id}, Authenticated, r.habitOwner); err != nil {
		return nil, r.present(ctx, "habit", err)
	}

	h, err := r.habitSvc.Get(ctx, id)
	if err != nil {
		return nil, r.present(ctx, "habit", err)
	}
	return &habitResolver{r: r, h: h}, nil
}

func (r *Resolver) AddHabit(ctx context.Context, args struct{ Data AddHabitInput }) (*habitResolver, error) {
	in := args.Data
	if err := r.check(ctx, in, GuardArgs{}, Authenticated); err != nil {
		return nil, r.present(ctx, "addHabit", err)
	}

	params := service.HabitParams{
		Title:     in.Title,
		StartDate: in.StartDate.Time,
	}
	if in.Description != nil {
		params.Description = *in.Description
	}

	h, err := r.habitSvc.Create(ctx, auth.UsernameFromContext(ctx), params)
	if err != nil {
		return nil, r.present(ctx, "addHabit", err)
	}
	return &habitResolver{r: r, h: h}, nil
}

func (r *Resolver) UpdateHabit(ctx context.Context, args struct{ Data UpdateHabitInput }) (*habitResolver, error) {
	in := args.Data
	id := int(in.ID)
	if err := r.check(ctx, in, GuardArgs{HabitID: id}, Authenticated, r.habitOwner); err != nil {
		return nil, r.present(ctx, "updateHabit", err)
	}

	patch := service.HabitPatch{
		Title:       in.Title,
		Description: in.Description,
	}
	if in.StartDate != nil {
		start := in.StartDate.Time
		patch.StartDate = &start
	}

	h, err := r.habitSvc.Update(ctx, id, patch)
	if err != nil {
		return nil, r.present(ctx, "updateHabit", err)
	}
	return &habitResolver{r: r, h: h}, nil
}

func (r *Resolver) RemoveHabit(ctx context.Context, args struct{ ID int32 }) (*habitResolver, error) {
	id := int(args.ID)
	if err := r.check(ctx, nil, GuardArgs{HabitID: id}, Authenticated, r.habitOwner); err != nil {
		return nil, r.present(ctx, "removeHabit", err)
	}

	h, err := r.habitSvc.Remove(ctx, id)
	if err != nil {
		return nil, r.present(ctx, "removeHabit", err)
	}
	return &habitResolver{r: r, h: h}, nil
}
