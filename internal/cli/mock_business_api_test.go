package cli

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"todomaster/internal/api"
	"todomaster/internal/domain"
	"todomaster/internal/errors"
	"todomaster/internal/query"
	"todomaster/internal/services"
	"todomaster/internal/validation"
)

type mockAccount struct {
	password string
	user     domain.User
}

// mockBusinessAPI implements the BusinessAPI interface for testing
type mockBusinessAPI struct {
	todos    []domain.Todo
	nextID   int64
	accounts map[string]mockAccount
	user     *domain.User
	snapshot bool
	// sessions is what SignOutEverywhere reports
	sessions int

	// listErr is returned by ListTodos and RefreshTodos when set
	listErr error
	// lastList is the most recent list request
	lastList api.ListRequest
	prompts  []string
}

// newMockBusinessAPI creates a new mock BusinessAPI instance
func newMockBusinessAPI(todos ...domain.Todo) *mockBusinessAPI {
	m := &mockBusinessAPI{
		todos:    append([]domain.Todo(nil), todos...),
		nextID:   201,
		accounts: make(map[string]mockAccount),
	}
	return m
}

// signIn registers Ada and signs her in
func (m *mockBusinessAPI) signIn() {
	m.SignUp(context.Background(), "ada@example.com", "correct horse", "Ada")
}

func (m *mockBusinessAPI) ListTodos(ctx context.Context, req api.ListRequest) (*domain.PageView, error) {
	m.lastList = req
	if m.listErr != nil {
		return nil, m.listErr
	}
	page := domain.BuildPage(m.todos, domain.ViewOptions{
		Search: strings.TrimSpace(req.Search),
		Status: req.Status,
		Page:   req.Page,
	})
	return &page, nil
}

func (m *mockBusinessAPI) GetTodo(ctx context.Context, id int64) (*domain.Todo, error) {
	todo, ok := domain.FindTodo(m.todos, id)
	if !ok {
		return nil, errors.NewNotFoundError("todo", strconv.FormatInt(id, 10))
	}
	return &todo, nil
}

func (m *mockBusinessAPI) AddTodo(ctx context.Context, title string) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError(validation.TitleRequiredMessage, nil)
	}
	todo := domain.Todo{ID: m.nextID, Title: title, UserID: 1}
	m.nextID++
	m.todos = domain.PrependTodo(m.todos, todo)
	return &todo, nil
}

func (m *mockBusinessAPI) EditTodo(ctx context.Context, id int64, changes api.TodoChanges) (*domain.Todo, error) {
	if changes.IsEmpty() {
		return nil, errors.NewInvalidInputError("changes", nil, "nothing to update")
	}
	for i := range m.todos {
		if m.todos[i].ID != id {
			continue
		}
		draft := m.todos[i]
		if changes.Title != nil {
			draft.Title = strings.TrimSpace(*changes.Title)
		}
		if changes.Completed != nil {
			draft.Completed = *changes.Completed
		}
		if draft.Title == "" {
			return nil, errors.NewValidationError(validation.TitleRequiredMessage, nil)
		}
		m.todos[i] = draft
		return &draft, nil
	}
	return nil, errors.NewNotFoundError("todo", strconv.FormatInt(id, 10))
}

func (m *mockBusinessAPI) DeleteTodo(ctx context.Context, id int64, confirmer services.Confirmer) (bool, error) {
	if confirmer == nil {
		return false, errors.NewInvalidInputError("confirmer", nil, "a confirmation is required")
	}
	m.prompts = append(m.prompts, services.DeleteConfirmPrompt)
	ok, err := confirmer.Confirm(ctx, services.DeleteConfirmPrompt)
	if err != nil || !ok {
		return false, err
	}
	for i, t := range m.todos {
		if t.ID == id {
			m.todos = append(m.todos[:i:i], m.todos[i+1:]...)
			return true, nil
		}
	}
	return false, errors.NewNotFoundError("todo", strconv.FormatInt(id, 10))
}

func (m *mockBusinessAPI) RefreshTodos(ctx context.Context) (*api.RefreshResult, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	had := m.snapshot
	m.snapshot = true
	return &api.RefreshResult{HadSnapshot: had, Count: len(m.todos)}, nil
}

func (m *mockBusinessAPI) ListState() query.State[[]domain.Todo] {
	return query.State[[]domain.Todo]{Key: services.ListKey, Data: m.todos, HasData: true, Status: query.StatusSuccess}
}

func (m *mockBusinessAPI) SignUp(ctx context.Context, email, password, name string) domain.AuthResult {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, exists := m.accounts[email]; exists {
		return domain.AuthResult{Message: services.DuplicateEmailMessage}
	}
	if len(password) < 8 {
		return domain.AuthResult{Message: "Password must be at least 8 characters"}
	}
	user := domain.User{ID: "user-" + strconv.Itoa(len(m.accounts)+1), Email: email, Name: name}
	m.accounts[email] = mockAccount{password: password, user: user}
	m.user = &user
	return domain.AuthResult{Success: true, Message: services.SignUpSuccessMessage}
}

func (m *mockBusinessAPI) SignIn(ctx context.Context, email, password string) domain.AuthResult {
	account, ok := m.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok || account.password != password {
		return domain.AuthResult{Message: services.InvalidCredentialsMessage}
	}
	user := account.user
	m.user = &user
	return domain.AuthResult{Success: true, Message: services.SignInSuccessMessage}
}

func (m *mockBusinessAPI) SignOut(ctx context.Context) error {
	m.user = nil
	return nil
}

func (m *mockBusinessAPI) SignOutEverywhere(ctx context.Context) (int, error) {
	if m.user == nil {
		return 0, errors.NewUnauthenticatedError("not signed in")
	}
	m.user = nil
	return m.sessions, nil
}

func (m *mockBusinessAPI) CurrentSession(ctx context.Context) (*domain.SessionState, error) {
	return &domain.SessionState{User: m.user}, nil
}

func (m *mockBusinessAPI) SocialSignInURL(ctx context.Context, provider string) (string, error) {
	if provider != "google" {
		return "", errors.NewInvalidInputError("provider", provider, "unknown provider")
	}
	return "https://auth.example.com/sign-in/social?provider=google", nil
}

// setupTestAppWithMockBusinessAPI creates an App over the mock with input as
// the terminal's answers and a buffer capturing its output.
func setupTestAppWithMockBusinessAPI(t *testing.T, input string, todos ...domain.Todo) (*App, *mockBusinessAPI, *bytes.Buffer) {
	t.Helper()
	mock := newMockBusinessAPI(todos...)
	out := &bytes.Buffer{}
	app := NewApp(mock).WithIO(strings.NewReader(input), out)
	return app, mock, out
}

func seed(n int) []domain.Todo {
	todos := make([]domain.Todo, 0, n)
	for i := 1; i <= n; i++ {
		todos = append(todos, domain.Todo{
			ID:        int64(i),
			Title:     "todo " + strconv.Itoa(i),
			Completed: i%3 == 0,
			UserID:    1,
		})
	}
	return todos
}
