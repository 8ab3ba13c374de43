package models

import "github.com/google/uuid"

// User represents a row in the users table. Rank is assigned once at
// registration time (the user's position in registration order) and is what
// the matchmaking compatibility policy compares.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Nickname string    `json:"nickname"`
	Rank     int       `json:"rank"`

	IsEphemeral bool `json:"is_ephemeral"`
	IsAdmin     bool `json:"is_admin"`
}
