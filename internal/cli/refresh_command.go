package cli

import (
	"context"
)

// RefreshCommand handles the refresh command
type RefreshCommand struct {
	app *App
}

// NewRefreshCommand creates a new refresh command handler
func NewRefreshCommand(app *App) *RefreshCommand {
	return &RefreshCommand{app: app}
}

// Execute drops the stored snapshot and reloads from the network
func (c *RefreshCommand) Execute(ctx context.Context, args []string) error {
	result, err := c.app.businessAPI.RefreshTodos(ctx)
	if err != nil {
		c.app.println(FetchFailedMessage)
		return c.app.errorHandler.HandleSimple(err)
	}

	if result.HadSnapshot {
		c.app.printf("Cleared cached todos and reloaded %d from the server.\n", result.Count)
	} else {
		c.app.printf("No cached todos; loaded %d from the server.\n", result.Count)
	}
	return nil
}
