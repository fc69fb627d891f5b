package services

import (
	"context"
	"strings"

	"todomaster/internal/domain"
	"todomaster/internal/errors"
	"todomaster/internal/validation"
)

// EditSession is the state of an edit dialog for one todo
type EditSession struct {
	service TodoService
	draft   domain.Todo
	open    bool

	// Err is the inline message shown in the dialog
	Err string
}

// NewEditSession creates a closed edit dialog bound to service
func NewEditSession(service TodoService) *EditSession {
	return &EditSession{service: service}
}

// Open starts editing a copy of todo
func (e *EditSession) Open(todo domain.Todo) {
	e.draft = todo
	e.open = true
	e.Err = ""
}

// IsOpen reports whether the dialog is showing
func (e *EditSession) IsOpen() bool {
	return e.open
}

// Draft returns the record being edited
func (e *EditSession) Draft() domain.Todo {
	return e.draft
}

// SetTitle changes the draft title
func (e *EditSession) SetTitle(title string) {
	e.draft.Title = title
}

// SetCompleted changes the draft completion flag
func (e *EditSession) SetCompleted(completed bool) {
	e.draft.Completed = completed
}

// Cancel closes the dialog without saving
func (e *EditSession) Cancel() {
	e.open = false
	e.Err = ""
}

// Submit saves the draft. A blank title keeps the dialog open with an inline
// error and sends nothing; a successful save closes it.
func (e *EditSession) Submit(ctx context.Context) (*domain.Todo, error) {
	if !e.open {
		return nil, errors.NewInvalidInputError("edit", e.draft.ID, "no todo is being edited")
	}
	if strings.TrimSpace(e.draft.Title) == "" {
		e.Err = validation.TitleRequiredMessage
		ve := validation.NewValidationError()
		ve.AddRequiredMessage("title", validation.TitleRequiredMessage)
		return nil, errors.NewValidationError(validation.TitleRequiredMessage, ve)
	}

	updated, err := e.service.UpdateTodo(ctx, e.draft)
	if err != nil {
		e.Err = errors.GetUserMessage(err)
		return nil, err
	}

	e.open = false
	e.Err = ""
	return updated, nil
}
