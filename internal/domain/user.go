package domain

import "time"

// User is the domain model for registered authors.
//
// PasswordHash holds the PHC-encoded argon2id digest. It is never serialized
// into any transport payload or log line.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
