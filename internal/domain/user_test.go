package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"todomaster/internal/repository/sqlite"
)

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada", User{Name: "Ada", Email: "ada@example.com"}.DisplayName())
	assert.Equal(t, "ada@example.com", User{Email: "ada@example.com"}.DisplayName())
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.IsExpired(now))
	assert.True(t, Session{ExpiresAt: now}.IsExpired(now))
	assert.True(t, Session{ExpiresAt: now.Add(-time.Minute)}.IsExpired(now))
}

func TestSessionState_SignedIn(t *testing.T) {
	var nilState *SessionState
	assert.False(t, nilState.SignedIn())
	assert.False(t, (&SessionState{}).SignedIn())
	assert.True(t, (&SessionState{User: &User{ID: "u-1"}}).SignedIn())
}

func TestUserMapper(t *testing.T) {
	mapper := NewUserMapper()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	user := User{ID: "u-1", Email: "ada@example.com", Name: "Ada", CreatedAt: created}

	dbUser := mapper.ToDatabase(user, "hash")
	assert.Equal(t, sqlite.User{ID: "u-1", Email: "ada@example.com", Name: "Ada", PasswordHash: "hash", CreatedAt: created}, dbUser)
	assert.Equal(t, user, mapper.FromDatabase(dbUser))
}

func TestSessionMapper(t *testing.T) {
	mapper := NewSessionMapper()
	expires := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	session := Session{Token: "tok", UserID: "u-1", ExpiresAt: expires}

	dbSession := mapper.ToDatabase(session)
	assert.Equal(t, "tok", dbSession.Token)
	assert.Equal(t, session, mapper.FromDatabase(dbSession))
}
