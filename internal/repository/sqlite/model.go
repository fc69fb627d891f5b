package sqlite

import "time"

// Entry is a single blob in the key-value table
type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// User is a registered account row
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is an issued session token row
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
