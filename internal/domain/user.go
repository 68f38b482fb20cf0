package domain

import "time"

// User is the domain entity for an account. The username doubles as the
// owner identity that scopes task records.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
