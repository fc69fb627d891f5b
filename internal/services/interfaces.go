package services

import (
	"context"
	"strconv"

	"todomaster/internal/domain"
	"todomaster/internal/query"
)

// ListKey is the query key of the todo list
const ListKey = "todos"

// TodoKey is the query key of a single todo
func TodoKey(id int64) string {
	return "todo:" + strconv.FormatInt(id, 10)
}

// DeleteConfirmPrompt is asked before every delete
const DeleteConfirmPrompt = "Are you sure you want to delete this todo?"

// TodoResource is the remote todo API
type TodoResource interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id int64) (*domain.Todo, error)
	Create(ctx context.Context, draft domain.NewTodo) (*domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) (*domain.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// SnapshotCache persists the last fetched list
type SnapshotCache interface {
	Read(ctx context.Context) ([]domain.Todo, bool)
	Write(ctx context.Context, list []domain.Todo) error
	Clear(ctx context.Context) error
	Exists(ctx context.Context) bool
}

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// TokenStore keeps the active session token of a single-user surface
type TokenStore interface {
	Load(ctx context.Context) (token string, found bool, err error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// TodoService mediates between the snapshot, the query cache and the remote resource
type TodoService interface {
	// Reads
	FetchList(ctx context.Context) ([]domain.Todo, error)
	FetchTodo(ctx context.Context, id int64) (*domain.Todo, error)

	// Mutations
	CreateTodo(ctx context.Context, title string) (*domain.Todo, error)
	UpdateTodo(ctx context.Context, todo domain.Todo) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, id int64, confirmer Confirmer) (bool, error)

	// Cache control
	Refresh(ctx context.Context) error
	Retry(ctx context.Context) ([]domain.Todo, error)
	HasSnapshot(ctx context.Context) bool

	// Observation
	ListState() query.State[[]domain.Todo]
	Subscribe(listener query.Listener[[]domain.Todo]) func()
}

// AuthService is the auth facade consumed by the presentation
type AuthService interface {
	// Form flows for surfaces that keep the token in a TokenStore
	SignUp(ctx context.Context, email, password, name string) domain.AuthResult
	SignIn(ctx context.Context, email, password string) domain.AuthResult
	Session(ctx context.Context) (*domain.SessionState, error)
	SignOut(ctx context.Context) error
	SignOutEverywhere(ctx context.Context) (int, error)

	// Token flows for surfaces that carry the token themselves
	Register(ctx context.Context, email, password, name string) (*domain.Session, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Session, error)
	SessionForToken(ctx context.Context, token string) (*domain.SessionState, error)
	Revoke(ctx context.Context, token string) error

	SocialSignIn(ctx context.Context, provider, callbackURL string) (string, error)
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TodoService TodoService
	AuthService AuthService
}
