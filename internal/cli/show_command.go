package cli

import (
	"context"

	"todomaster/internal/errors"
	"todomaster/internal/validation"
)

// ShowCommand handles the show command
type ShowCommand struct {
	app       *App
	validator *validation.TodoValidator
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app, validator: validation.NewTodoValidatorWithConfig(app.config)}
}

// Execute prints one todo
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("id", args, "expected exactly one todo id")
	}
	id, err := c.validator.ParseTodoID(args[0])
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	todo, err := c.app.businessAPI.GetTodo(ctx, id)
	if err != nil {
		return c.app.errorHandler.Handle("show todo", err)
	}

	status := "incomplete"
	if todo.Completed {
		status = "complete"
	}
	c.app.printf("Todo %d\n", todo.ID)
	c.app.printf("  Title:  %s\n", todo.Title)
	c.app.printf("  Status: %s %s\n", todo.Checkbox(), status)
	c.app.printf("  User:   %d\n", todo.UserID)
	return nil
}
