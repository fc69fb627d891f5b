package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todomaster/internal/errors"
)

func TestNewCommandRegistry(t *testing.T) {
	app, _, _ := setupTestAppWithMockBusinessAPI(t, "")

	registry := NewCommandRegistry(app)

	assert.NotNil(t, registry)
	for _, name := range []string{"list", "show", "add", "edit", "delete", "refresh", "whoami", "signup", "login", "logout"} {
		_, ok := registry.Access(name)
		assert.True(t, ok, "missing command %s", name)
	}
}

func TestCommandRegistry_Access(t *testing.T) {
	app, _, _ := setupTestAppWithMockBusinessAPI(t, "")
	registry := app.Registry()

	tests := []struct {
		name     string
		expected Access
	}{
		{"list", Protected},
		{"add", Protected},
		{"delete", Protected},
		{"whoami", Protected},
		{"signup", GuestOnly},
		{"login", GuestOnly},
		{"logout", Public},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, ok := registry.Access(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.expected, access)
		})
	}
}

func TestCommandRegistry_ProtectedNeedsSession(t *testing.T) {
	app, _, out := setupTestAppWithMockBusinessAPI(t, "", seed(3)...)
	ctx := context.Background()

	for _, name := range []string{"list", "add", "refresh", "whoami"} {
		t.Run(name, func(t *testing.T) {
			err := app.Registry().Execute(ctx, name, []string{"1"})
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeUnauthenticated))
			assert.Equal(t, SignUpRequiredMessage, errors.GetUserMessage(err))
		})
	}
	assert.Empty(t, out.String())
}

func TestCommandRegistry_GuestOnlyShowsListWhenSignedIn(t *testing.T) {
	app, mock, out := setupTestAppWithMockBusinessAPI(t, "", seed(3)...)
	mock.signIn()

	err := app.Registry().Execute(context.Background(), "login", nil)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Already signed in as Ada.")
	assert.Contains(t, out.String(), "Page 1 of 1")
}

func TestCommandRegistry_PublicRunsSignedOut(t *testing.T) {
	app, _, out := setupTestAppWithMockBusinessAPI(t, "")

	err := app.Registry().Execute(context.Background(), "logout", nil)
	require.NoError(t, err)
	assert.Equal(t, "Signed out.\n", out.String())
}

func TestCommandRegistry_UnknownCommand(t *testing.T) {
	app, _, _ := setupTestAppWithMockBusinessAPI(t, "")

	err := app.Registry().Execute(context.Background(), "frobnicate", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestCommandRegistry_GetUsage(t *testing.T) {
	app, _, _ := setupTestAppWithMockBusinessAPI(t, "")

	usage := app.Registry().GetUsage()
	assert.Contains(t, usage, "usage: todo <command>")
	assert.Contains(t, usage, "add, delete, edit, list, login, logout, refresh, show, signup, whoami")
}

func TestApp_RunWithoutArgs(t *testing.T) {
	app, _, _ := setupTestAppWithMockBusinessAPI(t, "")

	err := app.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: todo")
}

func TestApp_RunDispatches(t *testing.T) {
	app, mock, out := setupTestAppWithMockBusinessAPI(t, "", seed(2)...)
	mock.signIn()

	require.NoError(t, app.Run(context.Background(), []string{"add", "Buy", "milk"}))
	assert.Equal(t, "Added todo 201: Buy milk\n", out.String())
}

func TestCommandFunc(t *testing.T) {
	called := false
	cmd := CommandFunc(func(ctx context.Context, args []string) error {
		called = len(args) == 1
		return nil
	})
	require.NoError(t, cmd.Execute(context.Background(), []string{"x"}))
	assert.True(t, called)
}
