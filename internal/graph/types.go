package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"habittracker/internal/model"
)

type userResolver struct {
	r *Resolver
	u *model.User
}

func (u *userResolver) ID() int32               { return int32(u.u.ID) }
func (u *userResolver) Email() string           { return u.u.Email }
func (u *userResolver) Username() string        { return u.u.Username }
func (u *userResolver) Firstname() string       { return u.u.Firstname }
func (u *userResolver) Lastname() string        { return u.u.Lastname }
func (u *userResolver) CreatedAt() graphql.Time { return graphql.Time{Time: u.u.CreatedAt} }

func (u *userResolver) Habits(ctx context.Context) ([]*habitResolver, error) {
	habits, err := u.r.habitSvc.ListByUserID(ctx, u.u.ID)
	if err != nil {
		return nil, u.r.present(ctx, "User.habits", err)
	}
	return u.r.habitList(habits), nil
}

type habitResolver struct {
	r *Resolver
	h *model.Habit
}

func (h *habitResolver) ID() int32     { return int32(h.h.ID) }
func (h *habitResolver) Title() string { return h.h.Title }

func (h *habitResolver) Description() *string {
	if h.h.Description == "" {
		return nil
	}
	return &h.h.Description
}

func (h *habitResolver) StartDate() graphql.Time { return graphql.Time{Time: h.h.StartDate} }

func (h *habitResolver) User(ctx context.Context) (*userResolver, error) {
	u, err := h.r.userSvc.FindByID(ctx, h.h.UserID)
	if err != nil {
		return nil, h.r.present(ctx, "Habit.user", err)
	}
	return &userResolver{r: h.r, u: u}, nil
}

func (h *habitResolver) Entries(ctx context.Context) ([]*entryResolver, error) {
	entries, err := h.r.entrySvc.ListByHabit(ctx, h.h.ID)
	if err != nil {
		return nil, h.r.present(ctx, "Habit.entries", err)
	}
	return h.r.entryList(entries), nil
}

type entryResolver struct {
	r *Resolver
	e *model.Entry
}

func (e *entryResolver) ID() int32    { return int32(e.e.ID) }
func (e *entryResolver) Year() int32  { return int32(e.e.Year) }
func (e *entryResolver) Month() int32 { return int32(e.e.Month) }
func (e *entryResolver) Day() int32   { return int32(e.e.Day) }

func (e *entryResolver) Habit(ctx context.Context) (*habitResolver, error) {
	h, err := e.r.habitSvc.Get(ctx, e.e.HabitID)
	if err != nil {
		return nil, e.r.present(ctx, "Entry.habit", err)
	}
	return &habitResolver{r: e.r, h: h}, nil
}

type loginPayloadResolver struct {
	user *userResolver
}

func (p *loginPayloadResolver) User() *userResolver { return p.user }

type toggleEntryPayloadResolver struct {
	entry *entryResolver
	state model.ToggleState
}

func (p *toggleEntryPayloadResolver) Entry() *entryResolver { return p.entry }
func (p *toggleEntryPayloadResolver) ToggleState() string   { return string(p.state) }

func (r *Resolver) userList(users []model.User) []*userResolver {
	out := make([]*userResolver, len(users))
	for i := range users {
		out[i] = &userResolver{r: r, u: &users[i]}
	}
	return out
}

func (r *Resolver) habitList(habits []model.Habit) []*habitResolver {
	out := make([]*habitResolver, len(habits))
	for i := range habits {
		out[i] = &habitResolver{r: r, h: &habits[i]}
	}
	return out
}

func (r *Resolver) entryList(entries []model.Entry) []*entryResolver {
	out := make([]*entryResolver, len(entries))
	for i := range entries {
		out[i] = &entryResolver{r: r, e: &entries[i]}
	}
	return out
}
