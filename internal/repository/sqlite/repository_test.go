package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "todomaster/internal/errors"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	dbPath := filepath.Join(t.TempDir(), "todo.db")

	repo, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestValueLifecycle(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	_, err := repo.GetValue(ctx, "cachedTodos")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	require.NoError(t, repo.SetValue(ctx, "cachedTodos", []byte(`[{"id":1}]`)))

	entry, err := repo.GetValue(ctx, "cachedTodos")
	require.NoError(t, err)
	assert.Equal(t, "cachedTodos", entry.Key)
	assert.Equal(t, `[{"id":1}]`, string(entry.Value))
	assert.True(t, fixed.Equal(entry.UpdatedAt))

	// Overwrite replaces the value in place
	require.NoError(t, repo.SetValue(ctx, "cachedTodos", []byte(`[]`)))
	entry, err = repo.GetValue(ctx, "cachedTodos")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(entry.Value))

	require.NoError(t, repo.DeleteValue(ctx, "cachedTodos"))
	_, err = repo.GetValue(ctx, "cachedTodos")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	// Deleting a missing key is fine
	assert.NoError(t, repo.DeleteValue(ctx, "cachedTodos"))
}

func TestCreateAndGetUser(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	user := &User{ID: "u-1", Email: "ada@example.com", Name: "Ada", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)
	assert.Equal(t, "Ada", byID.Name)
	assert.Equal(t, "hash", byID.PasswordHash)

	byEmail, err := repo.GetUserByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byEmail.ID)

	_, err = repo.GetUser(ctx, "missing")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &User{ID: "u-1", Email: "ada@example.com", PasswordHash: "x"}))
	err := repo.CreateUser(ctx, &User{ID: "u-2", Email: "Ada@Example.com", PasswordHash: "y"})

	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))
}

func TestSessionLifecycle(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, &User{ID: "u-1", Email: "ada@example.com", PasswordHash: "x"}))

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	live := &Session{Token: "tok-live", UserID: "u-1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	stale := &Session{Token: "tok-stale", UserID: "u-1", ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour)}
	require.NoError(t, repo.CreateSession(ctx, live))
	require.NoError(t, repo.CreateSession(ctx, stale))

	got, err := repo.GetSession(ctx, "tok-live")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.True(t, live.ExpiresAt.Equal(got.ExpiresAt))

	sessions, err := repo.ListSessions(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "tok-live", sessions[0].Token)

	removed, err := repo.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.GetSession(ctx, "tok-stale")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	require.NoError(t, repo.DeleteSession(ctx, "tok-live"))
	err = repo.DeleteSession(ctx, "tok-live")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestNewWithOptions_InMemory(t *testing.T) {
	repo, err := NewWithOptions(":memory:", Options{QueryTimeout: time.Second, WriteTimeout: time.Second})
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.SetValue(ctx, "session", []byte("abc")))
	entry, err := repo.GetValue(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(entry.Value))
}

func TestGetValue_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetValue(ctx, "anything")
	assert.Error(t, err)
}
