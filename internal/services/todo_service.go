package services

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"todomaster/internal/domain"
	"todomaster/internal/errors"
	"todomaster/internal/logging"
	"todomaster/internal/query"
	"todomaster/internal/validation"
)

// DefaultStaleTime is how long a fetched list is served from memory
const DefaultStaleTime = 5 * time.Minute

// TodoServiceOptions tunes a TodoService
type TodoServiceOptions struct {
	StaleTime time.Duration
	Validator *validation.TodoValidator
	Logger    *log.Logger
	Now       func() time.Time
}

// todoServiceImpl implements the TodoService interface
type todoServiceImpl struct {
	remote    TodoResource
	snapshot  SnapshotCache
	lists     *query.Cache[[]domain.Todo]
	details   *query.Cache[*domain.Todo]
	validator *validation.TodoValidator
	staleTime time.Duration
	logger    *log.Logger

	// snapshotSpent is set once the cold-start snapshot read has happened or
	// the list has been invalidated; later loads always go to the network.
	snapshotSpent atomic.Bool
}

// NewTodoService creates a new TodoService instance
func NewTodoService(remote TodoResource, snapshot SnapshotCache, opts TodoServiceOptions) TodoService {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Validator == nil {
		opts.Validator = validation.NewTodoValidator()
	}
	queryOpts := query.Options{Now: opts.Now, Logger: opts.Logger}

	return &todoServiceImpl{
		remote:    remote,
		snapshot:  snapshot,
		lists:     query.New[[]domain.Todo](queryOpts),
		details:   query.New[*domain.Todo](queryOpts),
		validator: opts.Validator,
		staleTime: opts.StaleTime,
		logger:    opts.Logger,
	}
}

// FetchList returns the todo list, from memory while fresh
func (s *todoServiceImpl) FetchList(ctx context.Context) ([]domain.Todo, error) {
	return s.lists.Fetch(ctx, ListKey, s.staleTime, s.loadList)
}

// loadList serves the snapshot on the first load only, and otherwise fetches
// remotely and writes the result through to the snapshot.
func (s *todoServiceImpl) loadList(ctx context.Context) ([]domain.Todo, error) {
	if s.snapshotSpent.CompareAndSwap(false, true) {
		if list, ok := s.snapshot.Read(ctx); ok {
			s.logger.Debug("serving todo list from snapshot", "count", len(list))
			return list, nil
		}
	}

	list, err := s.remote.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Todo{}
	}

	if err := s.snapshot.Write(ctx, list); err != nil {
		s.logger.Warn("snapshot write failed", "err", err)
	}
	return list, nil
}

// FetchTodo returns a single todo for the detail view
func (s *todoServiceImpl) FetchTodo(ctx context.Context, id int64) (*domain.Todo, error) {
	if err := s.validator.ValidateTodoID(id); err != nil {
		return nil, validationFailure(err)
	}
	return s.details.Fetch(ctx, TodoKey(id), s.staleTime, func(ctx context.Context) (*domain.Todo, error) {
		return s.remote.Get(ctx, id)
	})
}

// CreateTodo sends a new incomplete todo and prepends the server record to the cached list
func (s *todoServiceImpl) CreateTodo(ctx context.Context, title string) (*domain.Todo, error) {
	if err := s.validator.ValidateForCreate(title); err != nil {
		return nil, validationFailure(err)
	}
	title = strings.TrimSpace(title)

	created, err := s.remote.Create(ctx, domain.DraftTodo(title))
	if err != nil {
		s.logger.Error("create todo failed", "title", title, "err", err)
		return nil, err
	}

	// Only a loaded list is merged; otherwise the next fetch brings the record
	if st, ok := s.lists.Get(ListKey); ok && st.HasData {
		var merged []domain.Todo
		s.lists.SetData(ListKey, func(old []domain.Todo, _ bool) []domain.Todo {
			merged = domain.PrependTodo(old, *created)
			return merged
		})
		if err := s.snapshot.Write(ctx, merged); err != nil {
			s.logger.Warn("snapshot write failed", "err", err)
		}
	}

	return created, nil
}

// UpdateTodo sends the full merged record, then invalidates and re-fetches the list
func (s *todoServiceImpl) UpdateTodo(ctx context.Context, todo domain.Todo) (*domain.Todo, error) {
	if err := s.validator.ValidateForUpdate(todo); err != nil {
		return nil, validationFailure(err)
	}
	todo.Title, _ = s.validator.GetValidTitle(todo.Title)

	updated, err := s.remote.Update(ctx, todo)
	if err != nil {
		s.logger.Error("update todo failed", "id", todo.ID, "err", err)
		return nil, err
	}

	s.details.Invalidate(TodoKey(todo.ID))
	s.invalidateList()
	s.refetchAfterMutation(ctx)

	return updated, nil
}

// DeleteTodo deletes after confirmation. It reports false when the user declined.
func (s *todoServiceImpl) DeleteTodo(ctx context.Context, id int64, confirmer Confirmer) (bool, error) {
	if err := s.validator.ValidateTodoID(id); err != nil {
		return false, validationFailure(err)
	}
	if confirmer == nil {
		return false, errors.NewInvalidInputError("confirmer", nil, "delete requires confirmation")
	}

	ok, err := confirmer.Confirm(ctx, DeleteConfirmPrompt)
	if err != nil {
		return false, err
	}
	if !ok {
		s.logger.Debug("delete declined", "id", id)
		return false, nil
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.logger.Error("delete todo failed", "id", id, "err", err)
		return false, err
	}

	s.details.Remove(TodoKey(id))
	s.invalidateList()
	s.refetchAfterMutation(ctx)

	return true, nil
}

// Refresh clears the snapshot and invalidates the list
func (s *todoServiceImpl) Refresh(ctx context.Context) error {
	if err := s.snapshot.Clear(ctx); err != nil {
		return errors.NewDatabaseError("clear snapshot", err)
	}
	s.invalidateList()
	return nil
}

// Retry invalidates and re-fetches the list
func (s *todoServiceImpl) Retry(ctx context.Context) ([]domain.Todo, error) {
	s.invalidateList()
	return s.FetchList(ctx)
}

// HasSnapshot reports whether a list snapshot is stored
func (s *todoServiceImpl) HasSnapshot(ctx context.Context) bool {
	return s.snapshot.Exists(ctx)
}

// ListState returns the current list query state
func (s *todoServiceImpl) ListState() query.State[[]domain.Todo] {
	st, _ := s.lists.Get(ListKey)
	return st
}

// Subscribe registers a listener for list query transitions
func (s *todoServiceImpl) Subscribe(listener query.Listener[[]domain.Todo]) func() {
	return s.lists.Subscribe(listener)
}

func (s *todoServiceImpl) invalidateList() {
	s.snapshotSpent.Store(true)
	s.lists.Invalidate(ListKey)
}

// refetchAfterMutation reloads the list. The mutation already succeeded, so a
// failure here is only logged; the next read retries.
func (s *todoServiceImpl) refetchAfterMutation(ctx context.Context) {
	if _, err := s.FetchList(ctx); err != nil {
		s.logger.Warn("list refetch after mutation failed", "err", err)
	}
}

// validationFailure wraps field errors so the user message is the first field message
func validationFailure(err error) error {
	if ve, ok := validation.AsValidationError(err); ok {
		return errors.NewValidationError(ve.GetUserFriendlyMessage(), err)
	}
	return err
}
