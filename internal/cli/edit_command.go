package cli

import (
	"context"
	"strings"

	"todomaster/internal/api"
	"todomaster/internal/errors"
	"todomaster/internal/validation"
)

// EditOptions are the edit command flags. Nil fields are left unchanged.
type EditOptions struct {
	Title     *string
	Completed *bool
}

// EditCommand handles the edit command
type EditCommand struct {
	app       *App
	opts      EditOptions
	validator *validation.TodoValidator
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App, opts EditOptions) *EditCommand {
	return &EditCommand{app: app, opts: opts, validator: validation.NewTodoValidatorWithConfig(app.config)}
}

// Execute updates one todo. Words after the id replace the title when no
// title flag was given.
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("id", nil, "a todo id is required")
	}
	id, err := c.validator.ParseTodoID(args[0])
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	changes := api.TodoChanges{Title: c.opts.Title, Completed: c.opts.Completed}
	if changes.Title == nil && len(args) > 1 {
		title := strings.Join(args[1:], " ")
		changes.Title = &title
	}

	todo, err := c.app.businessAPI.EditTodo(ctx, id, changes)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	c.app.printf("Updated todo %d: %s %s\n", todo.ID, todo.Checkbox(), todo.Title)
	return nil
}
