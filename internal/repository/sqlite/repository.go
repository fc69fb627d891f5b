package sqlite

import (
	"context"
	"database/sql"
	"time"

	"todomaster/internal/errors"
	"todomaster/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for local store operations
type Repository interface {
	// Key-value blobs
	GetValue(ctx context.Context, key string) (*Entry, error)
	SetValue(ctx context.Context, key string, value []byte) error
	DeleteValue(ctx context.Context, key string) error

	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// Sessions
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	ListSessions(ctx context.Context, userID string) ([]*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// Utility
	Close() error
}

// Options tunes per-statement deadlines
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions creates a repository that bounds every statement by the given timeouts
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// A single connection keeps :memory: databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts, now: time.Now}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.QueryTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

func (r *SQLiteRepository) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.WriteTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.WriteTimeout)
	}
	return context.WithCancel(ctx)
}

// GetValue retrieves a blob by key
func (r *SQLiteRepository) GetValue(ctx context.Context, key string) (*Entry, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `SELECT key, value, updated_at FROM kv WHERE key = ?`
	return QuerySingle(ctx, r.db, query, ScanEntry, "value", key, key)
}

// SetValue inserts or replaces a blob
func (r *SQLiteRepository) SetValue(ctx context.Context, key string, value []byte) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := Execute(ctx, r.db, query, key, value, FormatUTCForDB(r.now()))
	return err
}

// DeleteValue removes a blob. Missing keys are not an error.
func (r *SQLiteRepository) DeleteValue(ctx context.Context, key string) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	_, err := Execute(ctx, r.db, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// CreateUser inserts a new user row
func (r *SQLiteRepository) CreateUser(ctx context.Context, user *User) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now().UTC().Truncate(time.Second)
	}

	query := `
	INSERT INTO users (id, email, name, password_hash, created_at)
	VALUES (?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.Name, user.PasswordHash, FormatUTCForDB(user.CreatedAt)); err != nil {
		return HandleConstraintError(err, "user", user.Email)
	}
	return nil
}

// GetUser retrieves a user by ID
func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (*User, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanUser, "user", id, id)
}

// GetUserByEmail retrieves a user by email, case-insensitively
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `SELECT id, email, name, password_hash, created_at FROM users WHERE email = ? COLLATE NOCASE`
	return QuerySingle(ctx, r.db, query, ScanUser, "user", email, email)
}

// CreateSession inserts a new session row
func (r *SQLiteRepository) CreateSession(ctx context.Context, session *Session) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.now().UTC().Truncate(time.Second)
	}

	query := `
	INSERT INTO sessions (token, user_id, expires_at, created_at)
	VALUES (?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, session.Token, session.UserID, FormatUTCForDB(session.ExpiresAt), FormatUTCForDB(session.CreatedAt)); err != nil {
		return HandleConstraintError(err, "session", session.Token)
	}
	return nil
}

// GetSession retrieves a session by token. Expired sessions are still returned.
func (r *SQLiteRepository) GetSession(ctx context.Context, token string) (*Session, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?`
	return QuerySingle(ctx, r.db, query, ScanSession, "session", token, token)
}

// ListSessions returns all sessions for a user, newest first
func (r *SQLiteRepository) ListSessions(ctx context.Context, userID string) ([]*Session, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	query := `
	SELECT token, user_id, expires_at, created_at
	FROM sessions
	WHERE user_id = ?
	ORDER BY created_at DESC`

	return QueryMultiple(ctx, r.db, query, ScanSessions, "sessions", userID)
}

// DeleteSession removes a session by token
func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	return ExecuteWithRowsAffected(ctx, r.db, `DELETE FROM sessions WHERE token = ?`, "session", token, token)
}

// DeleteExpiredSessions removes every session that expired at or before now
func (r *SQLiteRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	return Execute(ctx, r.db, `DELETE FROM sessions WHERE expires_at <= ?`, FormatUTCForDB(now))
}
