package model

import "time"

// User is an account. PasswordHash never leaves the service layer.
type User struct {
	ID           int
	Email        string
	Username     string
	PasswordHash string
	Firstname    string
	Lastname     string
	CreatedAt    time.Time
	// TokenCount is embedded in refresh tokens; bumping it revokes all of them.
	TokenCount int
}
