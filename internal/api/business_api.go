package api

import (
	"context"
	"strings"

	"todomaster/internal/domain"
	"todomaster/internal/errors"
	"todomaster/internal/query"
	"todomaster/internal/services"
)

// ListRequest selects one page of the todo list
type ListRequest struct {
	Search string
	Status domain.StatusFilter
	Page   int
	// Retry invalidates the list before fetching
	Retry bool
}

// TodoChanges holds the fields an edit changes. Nil fields keep their value.
type TodoChanges struct {
	Title     *string
	Completed *bool
}

// IsEmpty reports whether no field would change
func (c TodoChanges) IsEmpty() bool {
	return c.Title == nil && c.Completed == nil
}

// RefreshResult reports what a snapshot refresh did
type RefreshResult struct {
	HadSnapshot bool
	Count       int
}

// BusinessAPI is the workflow surface shared by the CLI and terminal UI
type BusinessAPI interface {
	// ========== Todo Workflows ==========

	// ListTodos fetches the list and returns the requested page
	ListTodos(ctx context.Context, req ListRequest) (*domain.PageView, error)

	// GetTodo returns a single todo for the detail view
	GetTodo(ctx context.Context, id int64) (*domain.Todo, error)

	// AddTodo creates an incomplete todo from title
	AddTodo(ctx context.Context, title string) (*domain.Todo, error)

	// EditTodo applies changes to the current record and sends the merged result
	EditTodo(ctx context.Context, id int64, changes TodoChanges) (*domain.Todo, error)

	// DeleteTodo deletes after confirmation, reporting false when declined
	DeleteTodo(ctx context.Context, id int64, confirmer services.Confirmer) (bool, error)

	// RefreshTodos drops the stored snapshot and reloads the list from the network
	RefreshTodos(ctx context.Context) (*RefreshResult, error)

	// ListState returns the current list query state
	ListState() query.State[[]domain.Todo]

	// ========== Session Workflows ==========

	SignUp(ctx context.Context, email, password, name string) domain.AuthResult
	SignIn(ctx context.Context, email, password string) domain.AuthResult
	SignOut(ctx context.Context) error

	// SignOutEverywhere revokes every session of the signed-in user
	SignOutEverywhere(ctx context.Context) (int, error)

	// CurrentSession returns the signed-in state
	CurrentSession(ctx context.Context) (*domain.SessionState, error)

	// SocialSignInURL returns the authorization URL of a configured provider
	SocialSignInURL(ctx context.Context, provider string) (string, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	todos services.TodoService
	auth  services.AuthService
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(container *services.ServiceContainer) BusinessAPI {
	return &businessAPIImpl{
		todos: container.TodoService,
		auth:  container.AuthService,
	}
}

// ========== Todo Workflows ==========

func (b *businessAPIImpl) ListTodos(ctx context.Context, req ListRequest) (*domain.PageView, error) {
	var list []domain.Todo
	var err error
	if req.Retry {
		list, err = b.todos.Retry(ctx)
	} else {
		list, err = b.todos.FetchList(ctx)
	}
	if err != nil {
		return nil, err
	}

	page := domain.BuildPage(list, domain.ViewOptions{
		Search: strings.TrimSpace(req.Search),
		Status: req.Status,
		Page:   req.Page,
	})
	return &page, nil
}

func (b *businessAPIImpl) GetTodo(ctx context.Context, id int64) (*domain.Todo, error) {
	return b.todos.FetchTodo(ctx, id)
}

func (b *businessAPIImpl) AddTodo(ctx context.Context, title string) (*domain.Todo, error) {
	// A blank title is rejected by the service without a round trip
	if strings.TrimSpace(title) == "" {
		return b.todos.CreateTodo(ctx, title)
	}

	// Load the list first so the new record is merged into it
	if _, err := b.todos.FetchList(ctx); err != nil {
		return nil, err
	}
	return b.todos.CreateTodo(ctx, title)
}

func (b *businessAPIImpl) EditTodo(ctx context.Context, id int64, changes TodoChanges) (*domain.Todo, error) {
	if changes.IsEmpty() {
		return nil, errors.NewInvalidInputError("changes", nil, "nothing to update")
	}

	current, err := b.todos.FetchTodo(ctx, id)
	if err != nil {
		return nil, err
	}

	edit := services.NewEditSession(b.todos)
	edit.Open(*current)
	if changes.Title != nil {
		edit.SetTitle(*changes.Title)
	}
	if changes.Completed != nil {
		edit.SetCompleted(*changes.Completed)
	}
	return edit.Submit(ctx)
}

func (b *businessAPIImpl) DeleteTodo(ctx context.Context, id int64, confirmer services.Confirmer) (bool, error) {
	return b.todos.DeleteTodo(ctx, id, confirmer)
}

func (b *businessAPIImpl) RefreshTodos(ctx context.Context) (*RefreshResult, error) {
	result := &RefreshResult{HadSnapshot: b.todos.HasSnapshot(ctx)}
	if err := b.todos.Refresh(ctx); err != nil {
		return nil, err
	}

	list, err := b.todos.FetchList(ctx)
	if err != nil {
		return nil, err
	}
	result.Count = len(list)
	return result, nil
}

func (b *businessAPIImpl) ListState() query.State[[]domain.Todo] {
	return b.todos.ListState()
}

// ========== Session Workflows ==========

func (b *businessAPIImpl) SignUp(ctx context.Context, email, password, name string) domain.AuthResult {
	return b.auth.SignUp(ctx, email, password, name)
}

func (b *businessAPIImpl) SignIn(ctx context.Context, email, password string) domain.AuthResult {
	return b.auth.SignIn(ctx, email, password)
}

func (b *businessAPIImpl) SignOut(ctx context.Context) error {
	return b.auth.SignOut(ctx)
}

func (b *businessAPIImpl) SignOutEverywhere(ctx context.Context) (int, error) {
	return b.auth.SignOutEverywhere(ctx)
}

func (b *businessAPIImpl) CurrentSession(ctx context.Context) (*domain.SessionState, error) {
	return b.auth.Session(ctx)
}

func (b *businessAPIImpl) SocialSignInURL(ctx context.Context, provider string) (string, error) {
	return b.auth.SocialSignIn(ctx, provider, "")
}
