package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	contracts "habittracker/contracts/mq"
	"habittracker/internal/model"
	"habittracker/internal/mq"
	"habittracker/internal/repository"
	"habittracker/pkg/logger"
)

type HabitParams struct {
	Title       string
	Description string
	StartDate   time.Time
}

// HabitPatch carries optional fields; nil or empty values leave the habit unchanged.
type HabitPatch struct {
	Title       *string
	Description *string
	StartDate   *time.Time
}

type HabitService struct {
	users  repository.UserRepository
	habits repository.HabitRepository
	events mq.EventPublisher
	logger *zap.Logger
}

func NewHabitService(users repository.UserRepository, habits repository.HabitRepository, events mq.EventPublisher, logger *zap.Logger) *HabitService {
	return &HabitService{
		users:  users,
		habits: habits,
		events: events,
		logger: logger,
	}
}

func (s *HabitService) Get(ctx context.Context, id int) (*model.Habit, error) {
	h, err := s.habits.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "habit", id)
	}
	return h, nil
}

func (s *HabitService) IsOwnedBy(ctx context.Context, habitID int, username string) (bool, error) {
	return s.habits.IsOwnedBy(ctx, habitID, username)
}

// ListForUser returns the habits of username ordered by title.
func (s *HabitService) ListForUser(ctx context.Context, username string) ([]model.Habit, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user", username)
	}
	return s.habits.ListByUser(ctx, u.ID)
}

func (s *HabitService) ListByUserID(ctx context.Context, userID int) ([]model.Habit, error) {
	return s.habits.ListByUser(ctx, userID)
}

func (s *HabitService) Create(ctx context.Context, username string, p HabitParams) (*model.Habit, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user", username)
	}

	h := &model.Habit{
		UserID:      u.ID,
		Title:       p.Title,
		Description: p.Description,
		StartDate:   p.StartDate,
	}
	if err := s.habits.Create(ctx, h); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, contracts.RoutingHabitCreated, contracts.HabitCreatedPayload{
		HabitID:   h.ID,
		UserID:    h.UserID,
		Title:     h.Title,
		StartDate: h.StartDate,
	})
	return h, nil
}

// Update merges the non-empty fields of patch. Without any, the habit is
// returned as stored and nothing is written.
func (s *HabitService) Update(ctx context.Context, id int, patch HabitPatch) (*model.Habit, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if patch.Title != nil && *patch.Title != "" {
		h.Title = *patch.Title
		changed = true
	}
	if patch.Description != nil && *patch.Description != "" {
		h.Description = *patch.Description
		changed = true
	}
	if patch.StartDate != nil && !patch.StartDate.IsZero() {
		h.StartDate = *patch.StartDate
		changed = true
	}
	if !changed {
		return h, nil
	}

	if err := s.habits.Update(ctx, h); err != nil {
		return nil, notFound(err, "habit", id)
	}
	return h, nil
}

// Remove deletes the habit with its entries and returns what was deleted.
func (s *HabitService) Remove(ctx context.Context, id int) (*model.Habit, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.habits.Delete(ctx, id); err != nil {
		return nil, notFound(err, "habit", id)
	}

	logger.WithTrace(ctx, s.logger).Info("Habit removed", zap.Int("habit_id", id), zap.Int("user_id", h.UserID))
	s.events.Publish(ctx, contracts.RoutingHabitRemoved, contracts.HabitRemovedPayload{
		HabitID: h.ID,
		UserID:  h.UserID,
	})
	return h, nil
}
