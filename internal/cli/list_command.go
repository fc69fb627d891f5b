package cli

import (
	"context"
	"strings"

	"todomaster/internal/api"
	"todomaster/internal/domain"
)

// NoResultsMessage is printed for an empty page
const NoResultsMessage = "No todos found matching your criteria."

// ListOptions are the list command flags
type ListOptions struct {
	Search string
	Status string
	Page   int
	Retry  bool
}

// ListCommand handles the list command
type ListCommand struct {
	app  *App
	opts ListOptions
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App, opts ListOptions) *ListCommand {
	return &ListCommand{app: app, opts: opts}
}

// Execute runs the list command. Positional args are joined into the search text.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	status, err := domain.ParseStatusFilter(c.opts.Status)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	search := c.opts.Search
	if len(args) > 0 {
		search = strings.Join(args, " ")
	}

	page, err := c.app.businessAPI.ListTodos(ctx, api.ListRequest{
		Search: search,
		Status: status,
		Page:   c.opts.Page,
		Retry:  c.opts.Retry,
	})
	if err != nil {
		c.app.println(FetchFailedMessage)
		if c.app.errorHandler.IsRetryable(err) {
			c.app.println("Run `todo list --retry` to try again.")
		}
		return c.app.errorHandler.HandleSimple(err)
	}

	c.printPage(page)
	return nil
}

// printPage prints the header, one line per todo and the page footer
func (c *ListCommand) printPage(page *domain.PageView) {
	header := "Todos"
	if page.Search != "" {
		header += " matching \"" + page.Search + "\""
	}
	if page.Status != domain.StatusAll {
		header += " (" + page.Status.String() + ")"
	}
	c.app.println(header)

	if page.NoResults() {
		c.app.println(NoResultsMessage)
	}
	for _, todo := range page.Items {
		c.app.printf("%s %4d  %s\n", todo.Checkbox(), todo.ID, todo.Title)
	}

	c.app.printf("Page %d of %d\n", page.Page, page.TotalPages)
	if page.HasPrevious() {
		c.app.printf("Previous: todo list -p %d\n", page.PreviousPage())
	}
	if page.HasNext() {
		c.app.printf("Next: todo list -p %d\n", page.NextPage())
	}
}
