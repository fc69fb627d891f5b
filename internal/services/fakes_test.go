package services

import (
	"context"
	"sync"

	"todomaster/internal/domain"
	"todomaster/internal/errors"
)

// fakeRemote is an in-memory TodoResource that counts calls
type fakeRemote struct {
	mu     sync.Mutex
	todos  []domain.Todo
	nextID int64
	calls  map[string]int

	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func newFakeRemote(todos ...domain.Todo) *fakeRemote {
	next := int64(200)
	for _, t := range todos {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return &fakeRemote{todos: todos, nextID: next, calls: make(map[string]int)}
}

func (f *fakeRemote) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRemote) List(ctx context.Context) ([]domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Todo, len(f.todos))
	copy(out, f.todos)
	return out, nil
}

func (f *fakeRemote) Get(ctx context.Context, id int64) (*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["get"]++
	t, ok := domain.FindTodo(f.todos, id)
	if !ok {
		return nil, errors.NewNotFoundError("todo", "x")
	}
	return &t, nil
}

func (f *fakeRemote) Create(ctx context.Context, draft domain.NewTodo) (*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if f.createErr != nil {
		return nil, f.createErr
	}
	// Like the demo API, the record is echoed back but not persisted
	t := domain.Todo{ID: f.nextID, Title: draft.Title, Completed: draft.Completed, UserID: 1}
	f.nextID++
	return &t, nil
}

func (f *fakeRemote) Update(ctx context.Context, todo domain.Todo) (*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.todos {
		if f.todos[i].ID == todo.ID {
			f.todos[i] = todo
		}
	}
	return &todo, nil
}

func (f *fakeRemote) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.todos[:0]
	for _, t := range f.todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	f.todos = kept
	return nil
}

func answer(yes bool) (Confirmer, *int) {
	asked := 0
	return ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		asked++
		return yes, nil
	}), &asked
}
