package model

import "time"

type Habit struct {
	ID     int
	UserID int
	Title  string
	// Description is optional, empty means none.
	Description string
	StartDate   time.Time
}
