package domain

import "time"

// User is an account known to the auth facade.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// DisplayName prefers the user's name and falls back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Session binds an opaque token to a user until ExpiresAt.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// IsExpired reports whether the session is no longer valid at now.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionState is what the presentation reads to gate navigation.
// User is nil when nobody is signed in.
type SessionState struct {
	User *User
}

// SignedIn reports whether a user is present.
func (s *SessionState) SignedIn() bool {
	return s != nil && s.User != nil
}

// AuthResult is the outcome of a sign-up or sign-in attempt.
type AuthResult struct {
	Success bool
	Message string
}
