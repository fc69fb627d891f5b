// Package tui is the interactive terminal front end for browsing and editing todos.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todomaster/internal/api"
	"todomaster/internal/domain"
	"todomaster/internal/errors"
	"todomaster/internal/services"
)

const (
	fetchFailedMessage = "Failed to fetch todos."
	noResultsMessage   = "No todos found matching your criteria."
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeAdd
	modeEdit
	modeConfirmDelete
)

type pageLoadedMsg struct {
	view *domain.PageView
	err  error
}

type mutationDoneMsg struct {
	notice string
	err    error
}

// Model is the bubbletea model of the todo browser
type Model struct {
	ctx     context.Context
	api     api.BusinessAPI
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model
	mode    mode

	search string
	status domain.StatusFilter
	page   int
	view   *domain.PageView
	cursor int

	loading  bool
	loadErr  error
	notice   string
	formErr  string
	editing  int64
	quitting bool
}

// NewModel creates a model backed by businessAPI
func NewModel(ctx context.Context, businessAPI api.BusinessAPI) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		api:     businessAPI,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		input:   ti,
		status:  domain.StatusAll,
		page:    1,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(false))
}

// load fetches the current page. retry invalidates the list first.
func (m Model) load(retry bool) tea.Cmd {
	req := api.ListRequest{Search: m.search, Status: m.status, Page: m.page, Retry: retry}
	return func() tea.Msg {
		view, err := m.api.ListTodos(m.ctx, req)
		return pageLoadedMsg{view: view, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.view = msg.view
			m.clampCursor()
		}
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.notice = ""
			m.formErr = errors.GetUserMessage(msg.err)
			return m, nil
		}
		m.leaveForm()
		m.notice = msg.notice
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load(false))

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeAdd, modeEdit:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if m.loadErr == nil {
			return m, nil
		}
		return m.reload(true)

	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		m.loading = true
		return m, func() tea.Msg {
			if _, err := m.api.RefreshTodos(m.ctx); err != nil {
				return pageLoadedMsg{err: err}
			}
			view, err := m.api.ListTodos(m.ctx, api.ListRequest{Search: m.search, Status: m.status, Page: m.page})
			return pageLoadedMsg{view: view, err: err}
		}
	}

	if m.loadErr != nil || m.view == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.view.HasPrevious() {
			m.page = m.view.PreviousPage()
			m.cursor = 0
			return m.reload(false)
		}
	case key.Matches(msg, m.keys.NextPage):
		if m.view.HasNext() {
			m.page = m.view.NextPage()
			m.cursor = 0
			return m.reload(false)
		}
	case key.Matches(msg, m.keys.Status):
		m.status = m.status.Next()
		m.cursor = 0
		return m.reload(false)
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.input.Placeholder = "Search todos"
		m.input.SetValue(m.search)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.formErr = ""
		m.input.Placeholder = "What needs doing?"
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.formErr = ""
		m.editing = todo.ID
		m.input.Placeholder = "Title"
		m.input.SetValue(todo.Title)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Toggle):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		completed := !todo.Completed
		m.formErr = ""
		return m, m.mutate(func(ctx context.Context) (string, error) {
			updated, err := m.api.EditTodo(ctx, todo.ID, api.TodoChanges{Completed: &completed})
			if err != nil {
				return "", err
			}
			state := "incomplete"
			if updated.Completed {
				state = "complete"
			}
			return fmt.Sprintf("Marked %q %s", updated.Title, state), nil
		})
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
			m.formErr = ""
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.leaveForm()
		return m, nil
	case tea.KeyEnter:
		m.search = strings.TrimSpace(m.input.Value())
		m.cursor = 0
		m.leaveForm()
		return m.reload(false)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.leaveForm()
		return m, nil
	case tea.KeyEnter:
		title := m.input.Value()
		if m.mode == modeAdd {
			return m, m.mutate(func(ctx context.Context) (string, error) {
				created, err := m.api.AddTodo(ctx, title)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Added %q", created.Title), nil
			})
		}
		id := m.editing
		return m, m.mutate(func(ctx context.Context) (string, error) {
			updated, err := m.api.EditTodo(ctx, id, api.TodoChanges{Title: &title})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Updated %q", updated.Title), nil
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	todo, ok := m.selected()
	switch strings.ToLower(msg.String()) {
	case "y":
		if !ok {
			m.mode = modeBrowse
			return m, nil
		}
		accept := services.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
		return m, m.mutate(func(ctx context.Context) (string, error) {
			if _, err := m.api.DeleteTodo(ctx, todo.ID, accept); err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted %q", todo.Title), nil
		})
	case "n", "esc", "q":
		m.mode = modeBrowse
		m.notice = "Delete cancelled."
	}
	return m, nil
}

func (m Model) mutate(fn func(context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		notice, err := fn(ctx)
		return mutationDoneMsg{notice: notice, err: err}
	}
}

func (m Model) reload(retry bool) (tea.Model, tea.Cmd) {
	m.loading = true
	m.notice = ""
	return m, tea.Batch(m.spinner.Tick, m.load(retry))
}

func (m *Model) leaveForm() {
	m.mode = modeBrowse
	m.formErr = ""
	m.editing = 0
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) clampCursor() {
	if m.view == nil || len(m.view.Items) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(m.view.Items) {
		m.cursor = len(m.view.Items) - 1
	}
}

func (m Model) selected() (domain.Todo, bool) {
	if m.view == nil || m.cursor < 0 || m.cursor >= len(m.view.Items) {
		return domain.Todo{}, false
	}
	return m.view.Items[m.cursor], true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Todos"))
	if m.search != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  matching %q", m.search)))
	}
	b.WriteString(accentStyle.Render(fmt.Sprintf("  [%s]", m.status)))
	b.WriteString("\n\n")

	switch {
	case m.loading && m.view == nil:
		b.WriteString(m.spinner.View() + " Loading todos...\n")
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render(fetchFailedMessage) + "\n")
		b.WriteString(mutedStyle.Render("Press r to retry.") + "\n")
	default:
		b.WriteString(m.renderList())
	}

	switch m.mode {
	case modeSearch, modeAdd, modeEdit:
		label := map[mode]string{modeSearch: "Search", modeAdd: "New todo", modeEdit: "Edit todo"}[m.mode]
		form := titleStyle.Render(label) + "\n" + m.input.View()
		if m.formErr != "" {
			form += "\n" + errorStyle.Render(m.formErr)
		}
		b.WriteString("\n" + panelStyle.Render(form) + "\n")
	case modeConfirmDelete:
		b.WriteString("\n" + panelStyle.Render(services.DeleteConfirmPrompt+" (y/n)") + "\n")
	}

	if m.mode == modeBrowse && m.formErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.formErr) + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + successStyle.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderList() string {
	if m.view == nil {
		return ""
	}
	var b strings.Builder
	if m.view.NoResults() {
		b.WriteString(mutedStyle.Render(noResultsMessage) + "\n")
	}
	for i, t := range m.view.Items {
		line := fmt.Sprintf("%s %4d  %s", t.Checkbox(), t.ID, t.Title)
		switch {
		case i == m.cursor:
			line = selectedStyle.Render(line)
		case t.Completed:
			line = doneStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	pager := fmt.Sprintf("Page %d of %d", m.view.Page, m.view.TotalPages)
	if m.loading {
		pager += " " + m.spinner.View()
	}
	b.WriteString("\n" + mutedStyle.Render(pager) + "\n")
	return b.String()
}
