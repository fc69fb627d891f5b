package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"todomaster/internal/api"
	"todomaster/internal/config"
)

// App represents the main CLI application
type App struct {
	businessAPI  api.BusinessAPI
	config       *config.Config
	registry     *CommandRegistry
	errorHandler *ErrorHandler
	in           io.Reader
	out          io.Writer
}

// NewApp creates a new CLI application instance with default configuration
func NewApp(businessAPI api.BusinessAPI) *App {
	return NewAppWithConfig(businessAPI, config.NewConfig())
}

// NewAppWithConfig creates a new CLI application instance with dependency injection
func NewAppWithConfig(businessAPI api.BusinessAPI, cfg *config.Config) *App {
	app := &App{
		businessAPI:  businessAPI,
		config:       cfg,
		errorHandler: NewErrorHandler(),
		in:           os.Stdin,
		out:          os.Stdout,
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// WithIO replaces the terminal streams
func (a *App) WithIO(in io.Reader, out io.Writer) *App {
	a.in = in
	a.out = out
	return a
}

// WithLogger routes handled command errors to logger
func (a *App) WithLogger(logger *log.Logger) *App {
	a.errorHandler.WithLogger(logger)
	return a
}

// Registry returns the command registry
func (a *App) Registry() *CommandRegistry {
	return a.registry
}

// Run executes the CLI application with the given arguments
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", a.registry.GetUsage())
	}

	commandName := args[0]
	commandArgs := args[1:]

	return a.registry.Execute(ctx, commandName, commandArgs)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}
