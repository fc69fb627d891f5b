package domain

import (
	"todomaster/internal/repository/sqlite"
)

// UserMapper handles conversion between domain and database User models.
type UserMapper struct{}

// NewUserMapper creates a new UserMapper instance.
func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

// ToDatabase converts a domain User to a database User with the given password hash.
func (m *UserMapper) ToDatabase(user User, passwordHash string) sqlite.User {
	return sqlite.User{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt,
	}
}

// FromDatabase converts a database User to a domain User. The hash is dropped.
func (m *UserMapper) FromDatabase(dbUser sqlite.User) User {
	return User{
		ID:        dbUser.ID,
		Email:     dbUser.Email,
		Name:      dbUser.Name,
		CreatedAt: dbUser.CreatedAt,
	}
}

// SessionMapper handles conversion between domain and database Session models.
type SessionMapper struct{}

// NewSessionMapper creates a new SessionMapper instance.
func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// ToDatabase converts a domain Session to a database Session.
func (m *SessionMapper) ToDatabase(session Session) sqlite.Session {
	return sqlite.Session{
		Token:     session.Token,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}
}

// FromDatabase converts a database Session to a domain Session.
func (m *SessionMapper) FromDatabase(dbSession sqlite.Session) Session {
	return Session{
		Token:     dbSession.Token,
		UserID:    dbSession.UserID,
		ExpiresAt: dbSession.ExpiresAt,
	}
}
