package mq

import "time"

// Routing keys on the events exchange.
const (
	RoutingUserRegistered = "user.registered"
	RoutingUserDeleted    = "user.deleted"
	RoutingHabitCreated   = "habit.created"
	RoutingHabitRemoved   = "habit.removed"
	RoutingEntryToggled   = "entry.toggled"
)

type UserRegisteredPayload struct {
	UserID   int    `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type UserDeletedPayload struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

type HabitCreatedPayload struct {
	HabitID   int       `json:"habit_id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
}

type HabitRemovedPayload struct {
	HabitID int `json:"habit_id"`
	UserID  int `json:"user_id"`
}

type EntryToggledPayload struct {
	EntryID int    `json:"entry_id"`
	HabitID int    `json:"habit_id"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Day     int    `json:"day"`
	State   string `json:"state"` // ADDED | REMOVED
}
