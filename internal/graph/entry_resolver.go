package graph

import (
	"context"
)

func (r *Resolver) Entries(ctx context.Context) ([]*entryResolver, error) {
	entries, err := r.entrySvc.ListAll(ctx)
	if err != nil {
		return nil, r.present(ctx, "entries", err)
	}
	return r.entryList(entries), nil
}

func (r *Resolver) EntriesForMonth(ctx context.Context, args struct{ Data EntriesForMonthInput }) ([]*entryResolver, error) {
	in := args.Data
	if err := r.check(ctx, in, GuardArgs{HabitID: int(in.HabitID)}, Authenticated, r.habitOwner); err != nil {
		return nil, r.present(ctx, "entriesForMonth", err)
	}

	entries, err := r.entrySvc.ListForMonth(ctx, int(in.HabitID), int(in.Year), int(in.Month))
	if err != nil {
		return nil, r.present(ctx, "entriesForMonth", err)
	}
	return r.entryList(entries), nil
}

func (r *Resolver) ToggleEntry(ctx context.Context, args struct{ Data ToggleEntryInput }) (*toggleEntryPayloadResolver, error) {
	in := args.Data
	if err := r.check(ctx, in, GuardArgs{HabitID: int(in.HabitID)}, Authenticated, r.habitOwner); err != nil {
		return nil, r.present(ctx, "toggleEntry", err)
	}

	e, state, err := r.entrySvc.Toggle(ctx, int(in.HabitID), int(in.Year), int(in.Month), int(in.Day))
	if err != nil {
		return nil, r.present(ctx, "toggleEntry", err)
	}
	return &toggleEntryPayloadResolver{
		entry: &entryResolver{r: r, e: e},
		state: state,
	}, nil
}
