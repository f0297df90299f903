package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"habittracker/internal/auth"
	"habittracker/internal/model"
	"habittracker/internal/repository"
	"habittracker/internal/repository/sqlite"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
}

func (p *recordingPublisher) routingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

// memoryLimiter mimics the redis limiter in process.
type memoryLimiter struct {
	max      int
	failures map[string]int
}

func (l *memoryLimiter) Allow(_ context.Context, email string) bool { return l.failures[email] < l.max }
func (l *memoryLimiter) Fail(_ context.Context, email string)       { l.failures[email]++ }
func (l *memoryLimiter) Reset(_ context.Context, email string)      { delete(l.failures, email) }

type fixture struct {
	store   *repository.Store
	codec   *auth.TokenCodec
	events  *recordingPublisher
	limiter *memoryLimiter

	auth    *AuthService
	users   *UserService
	habits  *HabitService
	entries *EntryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zap.NewNop()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	hasher := auth.NewHasher(bcrypt.MinCost)
	codec := auth.NewTokenCodec("access", "refresh", 15*time.Minute, 7*24*time.Hour)
	creds := auth.NewCredentials(store.Users, logger)
	events := &recordingPublisher{}
	limiter := &memoryLimiter{max: 3, failures: map[string]int{}}

	return &fixture{
		store:   store,
		codec:   codec,
		events:  events,
		limiter: limiter,
		auth:    NewAuthService(store.Users, hasher, codec, creds, limiter, events, logger),
		users:   NewUserService(store.Users, hasher, creds, events, logger),
		habits:  NewHabitService(store.Users, store.Habits, events, logger),
		entries: NewEntryService(store.Entries, events, logger),
	}
}

func (f *fixture) register(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterParams{
		Email:     username + "@example.com",
		Password:  "password123",
		Username:  username,
		Firstname: "Test",
		Lastname:  "User",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) addHabit(t *testing.T, username, title string) *model.Habit {
	t.Helper()
	h, err := f.habits.Create(context.Background(), username, HabitParams{
		Title:     title,
		StartDate: time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return h
}
