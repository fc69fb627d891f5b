package cli

import (
	"context"
	"sort"
	"strings"

	"todomaster/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandFunc adapts a function to Command
type CommandFunc func(ctx context.Context, args []string) error

// Execute calls f
func (f CommandFunc) Execute(ctx context.Context, args []string) error {
	return f(ctx, args)
}

// Access decides who may run a command
type Access int

const (
	// Public commands run regardless of session
	Public Access = iota
	// GuestOnly commands send signed-in users to the list instead
	GuestOnly
	// Protected commands need a signed-in user
	Protected
)

// SignUpRequiredMessage is returned when a protected command runs signed out
const SignUpRequiredMessage = "You need an account to manage todos. Run `todo signup` to create one or `todo login` to sign in."

type registration struct {
	command Command
	access  Access
}

// CommandRegistry manages all available commands and gates them on the session
type CommandRegistry struct {
	app      *App
	commands map[string]registration
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		app:      app,
		commands: make(map[string]registration),
	}

	// Register all commands
	registry.Register("list", Protected, NewListCommand(app, ListOptions{}))
	registry.Register("show", Protected, NewShowCommand(app))
	registry.Register("add", Protected, NewAddCommand(app))
	registry.Register("edit", Protected, NewEditCommand(app, EditOptions{}))
	registry.Register("delete", Protected, NewDeleteCommand(app))
	registry.Register("refresh", Protected, NewRefreshCommand(app))
	registry.Register("whoami", Protected, NewWhoamiCommand(app))
	registry.Register("signup", GuestOnly, NewSignupCommand(app, CredentialOptions{}))
	registry.Register("login", GuestOnly, NewLoginCommand(app, CredentialOptions{}))
	registry.Register("logout", Public, NewLogoutCommand(app, LogoutOptions{}))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, access Access, command Command) {
	r.commands[name] = registration{command: command, access: access}
}

// Access returns the access rule of a registered command
func (r *CommandRegistry) Access(name string) (Access, bool) {
	reg, ok := r.commands[name]
	return reg.access, ok
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	reg, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return r.Run(ctx, reg.access, reg.command, args)
}

// Run applies the session gate for access and then executes command
func (r *CommandRegistry) Run(ctx context.Context, access Access, command Command, args []string) error {
	if access == Public {
		return command.Execute(ctx, args)
	}

	state, err := r.app.businessAPI.CurrentSession(ctx)
	if err != nil {
		return err
	}

	switch access {
	case Protected:
		if !state.SignedIn() {
			return errors.NewUnauthenticatedError(SignUpRequiredMessage)
		}
	case GuestOnly:
		if state.SignedIn() {
			r.app.printf("Already signed in as %s.\n", state.User.DisplayName())
			return r.commands["list"].command.Execute(ctx, nil)
		}
	}
	return command.Execute(ctx, args)
}

// GetUsage returns the usage string for the CLI
func (r *CommandRegistry) GetUsage() string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return "usage: todo <command> [args], where command is one of: " + strings.Join(names, ", ")
}
