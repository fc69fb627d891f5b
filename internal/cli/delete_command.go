package cli

import (
	"context"

	"todomaster/internal/errors"
	"todomaster/internal/validation"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app       *App
	validator *validation.TodoValidator
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app, validator: validation.NewTodoValidatorWithConfig(app.config)}
}

// Execute deletes one todo after asking for confirmation
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("id", args, "expected exactly one todo id")
	}
	id, err := c.validator.ParseTodoID(args[0])
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	deleted, err := c.app.businessAPI.DeleteTodo(ctx, id, NewPrompter(c.app.in, c.app.out))
	if err != nil {
		return c.app.errorHandler.Handle("delete todo", err)
	}
	if !deleted {
		c.app.println("Delete cancelled.")
		return nil
	}

	c.app.printf("Deleted todo %d\n", id)
	return nil
}
