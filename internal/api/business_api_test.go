package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todomaster/internal/config"
	"todomaster/internal/domain"
	"todomaster/internal/errors"
	"todomaster/internal/remote"
	"todomaster/internal/remote/remotetest"
	"todomaster/internal/services"
)

func seed(n int) []domain.Todo {
	todos := make([]domain.Todo, 0, n)
	for i := 1; i <= n; i++ {
		todos = append(todos, domain.Todo{
			ID:        int64(i),
			Title:     fmt.Sprintf("todo %02d", i),
			Completed: i%3 == 0,
			UserID:    1,
		})
	}
	return todos
}

func setupTestBusinessAPI(t *testing.T, todos ...domain.Todo) (BusinessAPI, *remotetest.Server) {
	t.Helper()
	server := remotetest.NewServer(todos...)
	t.Cleanup(server.Close)

	repo, err := config.CreateTestRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cfg := config.NewConfig()
	client := remote.New(server.URL, cfg.Remote.Timeout)
	rt := NewWithDependencies(cfg, repo, client, nil)
	return rt.API, server
}

func yes() services.Confirmer {
	return services.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
}

func no() services.Confirmer {
	return services.ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
}

func TestListTodos(t *testing.T) {
	tests := []struct {
		name          string
		req           ListRequest
		expectedCount int
		expectedPages int
		expectedFirst string
		noResults     bool
	}{
		{
			name:          "should return the first page of everything",
			req:           ListRequest{Page: 1},
			expectedCount: 25,
			expectedPages: 3,
			expectedFirst: "todo 01",
		},
		{
			name:          "should return the last partial page",
			req:           ListRequest{Page: 3},
			expectedCount: 25,
			expectedPages: 3,
			expectedFirst: "todo 21",
		},
		{
			name:          "should filter by search text case-insensitively",
			req:           ListRequest{Search: "  TODO 1", Page: 1},
			expectedCount: 10,
			expectedPages: 1,
			expectedFirst: "todo 10",
		},
		{
			name:          "should combine search and status",
			req:           ListRequest{Search: "todo 1", Status: domain.StatusComplete, Page: 1},
			expectedCount: 3,
			expectedPages: 1,
			expectedFirst: "todo 12",
		},
		{
			name:          "should render no results when the page is past the end",
			req:           ListRequest{Status: domain.StatusComplete, Page: 3},
			expectedCount: 8,
			expectedPages: 1,
			noResults:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			businessAPI, _ := setupTestBusinessAPI(t, seed(25)...)

			page, err := businessAPI.ListTodos(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCount, page.MatchCount)
			assert.Equal(t, tt.expectedPages, page.TotalPages)
			assert.Equal(t, tt.noResults, page.NoResults())
			if tt.expectedFirst != "" {
				require.NotEmpty(t, page.Items)
				assert.Equal(t, tt.expectedFirst, page.Items[0].Title)
			}
		})
	}
}

func TestListTodos_ErrorThenRetry(t *testing.T) {
	businessAPI, server := setupTestBusinessAPI(t, seed(3)...)
	ctx := context.Background()
	server.FailWith("GET /todos", http.StatusInternalServerError)

	_, err := businessAPI.ListTodos(ctx, ListRequest{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNetwork))

	server.FailWith("GET /todos", 0)
	page, err := businessAPI.ListTodos(ctx, ListRequest{Retry: true})
	require.NoError(t, err)
	assert.Equal(t, 3, page.MatchCount)
	assert.Equal(t, 2, server.Calls("GET /todos"))
}

func TestAddTodo(t *testing.T) {
	businessAPI, server := setupTestBusinessAPI(t, seed(3)...)
	ctx := context.Background()

	created, err := businessAPI.AddTodo(ctx, "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.False(t, created.Completed)

	page, err := businessAPI.ListTodos(ctx, ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", page.Items[0].Title)
	assert.Equal(t, 1, server.Calls("GET /todos"))
}

func TestAddTodo_BlankTitleMakesNoRequest(t *testing.T) {
	businessAPI, server := setupTestBusinessAPI(t, seed(3)...)

	_, err := businessAPI.AddTodo(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, "Title is required.", errors.GetUserMessage(err))
	assert.Equal(t, 0, server.TotalCalls())
}

func TestEditTodo(t *testing.T) {
	businessAPI, server := setupTestBusinessAPI(t, seed(3)...)
	ctx := context.Background()
	title := "renamed"
	done := true

	updated, err := businessAPI.EditTodo(ctx, 2, TodoChanges{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.False(t, updated.Completed)

	updated, err = businessAPI.EditTodo(ctx, 2, TodoChanges{Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, updated.Completed)

	stored, _ := domain.FindTodo(server.Todos(), 2)
	assert.Equal(t, domain.Todo{ID: 2, Title: "renamed", Completed: true, UserID: 1}, stored)
}

func TestEditTodo_Errors(t *testing.T) {
	businessAPI, server := setupTestBusinessAPI(t, seed(3)...)
	ctx := context.Background()
	blank := " "

	_, err := businessAPI.EditTodo(ctx, 2, TodoChanges{})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))

	_, err = businessAPI.EditTodo(ctx, 2, TodoChanges{Title: &blank})
	require.Error(t, err)
	assert.Equal(t, "Title is required.", errors.GetUserMessage(err))
	assert.Equal(t, 0, server.Calls("PUT /todos/{id}"))

	_, err = businessAPI.EditTodo(ctx, 99, TodoChanges{Title: &blank})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestDeleteTodo(t *testing.T) {
	businessAPI, server := setupTestBusinessAPI(t, seed(5)...)
	ctx := context.Background()

	deleted, err := businessAPI.DeleteTodo(ctx, 5, no())
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 0, server.Calls("DELETE /todos/{id}"))

	deleted, err = businessAPI.DeleteTodo(ctx, 5, yes())
	require.NoError(t, err)
	assert.True(t, deleted)

	page, err := businessAPI.ListTodos(ctx, ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 4, page.MatchCount)
	_, found := domain.FindTodo(page.Items, 5)
	assert.False(t, found)
}

func TestRefreshTodos(t *testing.T) {
	businessAPI, server := setupTestBusinessAPI(t, seed(2)...)
	ctx := context.Background()

	_, err := businessAPI.ListTodos(ctx, ListRequest{})
	require.NoError(t, err)

	result, err := businessAPI.RefreshTodos(ctx)
	require.NoError(t, err)
	assert.True(t, result.HadSnapshot)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 2, server.Calls("GET /todos"))
}

func TestGetTodo(t *testing.T) {
	businessAPI, _ := setupTestBusinessAPI(t, seed(2)...)

	todo, err := businessAPI.GetTodo(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "todo 02", todo.Title)

	_, err = businessAPI.GetTodo(context.Background(), 7)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestSessionWorkflows(t *testing.T) {
	businessAPI, _ := setupTestBusinessAPI(t)
	ctx := context.Background()

	state, err := businessAPI.CurrentSession(ctx)
	require.NoError(t, err)
	assert.False(t, state.SignedIn())

	result := businessAPI.SignUp(ctx, "ada@example.com", "password123", "Ada")
	assert.True(t, result.Success)

	require.NoError(t, businessAPI.SignOut(ctx))
	result = businessAPI.SignIn(ctx, "ada@example.com", "password123")
	assert.Equal(t, domain.AuthResult{Success: true, Message: "Login successful!"}, result)

	state, err = businessAPI.CurrentSession(ctx)
	require.NoError(t, err)
	assert.True(t, state.SignedIn())

	link, err := businessAPI.SocialSignInURL(ctx, "google")
	require.NoError(t, err)
	assert.Contains(t, link, "provider=google")

	revoked, err := businessAPI.SignOutEverywhere(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, revoked)
	state, err = businessAPI.CurrentSession(ctx)
	require.NoError(t, err)
	assert.False(t, state.SignedIn())
}
