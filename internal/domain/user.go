package domain

import "time"

// User represents a registered account. PasswordHash is never the plaintext.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
