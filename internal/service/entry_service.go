package service

import (
	"context"

	"go.uber.org/zap"

	contracts "habittracker/contracts/mq"
	"habittracker/internal/model"
	"habittracker/internal/mq"
	"habittracker/internal/repository"
	"habittracker/pkg/logger"
	"habittracker/pkg/metrics"
)

type EntryService struct {
	entries repository.EntryRepository
	events  mq.EventPublisher
	logger  *zap.Logger
}

func NewEntryService(entries repository.EntryRepository, events mq.EventPublisher, logger *zap.Logger) *EntryService {
	return &EntryService{
		entries: entries,
		events:  events,
		logger:  logger,
	}
}

func (s *EntryService) ListAll(ctx context.Context) ([]model.Entry, error) {
	return s.entries.ListAll(ctx)
}

func (s *EntryService) ListByHabit(ctx context.Context, habitID int) ([]model.Entry, error) {
	return s.entries.ListByHabit(ctx, habitID)
}

func (s *EntryService) ListForMonth(ctx context.Context, habitID, year, month int) ([]model.Entry, error) {
	return s.entries.ListForMonth(ctx, habitID, year, month)
}

// Toggle flips the presence of the entry for one day of a habit.
func (s *EntryService) Toggle(ctx context.Context, habitID, year, month, day int) (*model.Entry, model.ToggleState, error) {
	e, state, err := s.entries.Toggle(ctx, model.Entry{
		HabitID: habitID,
		Year:    year,
		Month:   month,
		Day:     day,
	})
	if err != nil {
		return nil, "", err
	}

	metrics.IncrementEntryToggle(string(state))
	logger.WithTrace(ctx, s.logger).Debug("Entry toggled",
		zap.Int("habit_id", habitID),
		zap.Int("entry_id", e.ID),
		zap.String("state", string(state)),
	)
	s.events.Publish(ctx, contracts.RoutingEntryToggled, contracts.EntryToggledPayload{
		EntryID: e.ID,
		HabitID: e.HabitID,
		Year:    e.Year,
		Month:   e.Month,
		Day:     e.Day,
		State:   string(state),
	})
	return e, state, nil
}
