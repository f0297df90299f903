package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contracts "habittracker/contracts/mq"
	"habittracker/internal/model"
	"habittracker/internal/repository"
)

func TestListForUserOrdersByTitle(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.register(t, "bob")
	f.addHabit(t, "alice", "Swim")
	f.addHabit(t, "alice", "Read")
	f.addHabit(t, "bob", "Cook")

	habits, err := f.habits.ListForUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "Read", habits[0].Title)
	assert.Equal(t, "Swim", habits[1].Title)
}

func TestUpdateHabitPartialMerge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")
	h := f.addHabit(t, "alice", "Run")

	unchanged, err := f.habits.Update(ctx, h.ID, HabitPatch{})
	require.NoError(t, err)
	assert.Equal(t, "Run", unchanged.Title)

	desc, empty := "every morning", ""
	updated, err := f.habits.Update(ctx, h.ID, HabitPatch{Title: &empty, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Run", updated.Title)
	assert.Equal(t, "every morning", updated.Description)

	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	updated, err = f.habits.Update(ctx, h.ID, HabitPatch{StartDate: &start})
	require.NoError(t, err)

	stored, err := f.habits.Get(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, stored.StartDate.Equal(start))
	assert.Equal(t, "every morning", stored.Description)
}

func TestRemoveHabit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")
	h := f.addHabit(t, "alice", "Run")

	removed, err := f.habits.Remove(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.ID, removed.ID)
	assert.Equal(t, "Run", removed.Title)

	_, err = f.habits.Remove(ctx, h.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, "could not find habit 1", err.Error())

	assert.Equal(t, []string{
		contracts.RoutingUserRegistered,
		contracts.RoutingHabitCreated,
		contracts.RoutingHabitRemoved,
	}, f.events.routingKeys())
}

func TestToggleEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")
	h := f.addHabit(t, "alice", "Run")

	e, state, err := f.entries.Toggle(ctx, h.ID, 2020, 8, 20)
	require.NoError(t, err)
	assert.Equal(t, model.ToggleAdded, state)
	assert.Equal(t, 2020, e.Year)
	assert.Equal(t, 8, e.Month)
	assert.Equal(t, 20, e.Day)

	month, err := f.entries.ListForMonth(ctx, h.ID, 2020, 8)
	require.NoError(t, err)
	assert.Len(t, month, 1)

	_, state, err = f.entries.Toggle(ctx, h.ID, 2020, 8, 20)
	require.NoError(t, err)
	assert.Equal(t, model.ToggleRemoved, state)

	month, err = f.entries.ListForMonth(ctx, h.ID, 2020, 8)
	require.NoError(t, err)
	assert.Empty(t, month)
}
