package cli

import (
	"context"
	"strings"
)

// AddCommand handles the add command
type AddCommand struct {
	app *App
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute creates a todo from the joined arguments
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	title := strings.Join(args, " ")

	todo, err := c.app.businessAPI.AddTodo(ctx, title)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	c.app.printf("Added todo %d: %s\n", todo.ID, todo.Title)
	return nil
}
