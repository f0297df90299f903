package model

// Entry marks one calendar day of a habit as done. Its existence is the
// completion; the date parts are not checked against a real calendar.
type Entry struct {
	ID      int
	HabitID int
	Year    int
	Month   int
	Day     int
}

// ToggleState reports what toggling an entry did.
type ToggleState string

const (
	ToggleAdded   ToggleState = "ADDED"
	ToggleRemoved ToggleState = "REMOVED"
)
