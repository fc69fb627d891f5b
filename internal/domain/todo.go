package domain

import "strings"

// Todo is a single todo record as served by the remote resource.
// IDs are always assigned remotely.
type Todo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

// NewTodo is the creation payload sent to the remote resource.
type NewTodo struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// DraftTodo builds a creation payload. New todos always start incomplete.
func DraftTodo(title string) NewTodo {
	return NewTodo{Title: title}
}

// IsValid checks if the todo has a displayable title.
func (t Todo) IsValid() bool {
	return strings.TrimSpace(t.Title) != ""
}

// String returns the title for display purposes.
func (t Todo) String() string {
	return t.Title
}

// Checkbox renders the completion marker used by list views.
func (t Todo) Checkbox() string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

// PrependTodo returns a new list with todo at the front. The input is not modified.
func PrependTodo(list []Todo, todo Todo) []Todo {
	out := make([]Todo, 0, len(list)+1)
	out = append(out, todo)
	return append(out, list...)
}

// FindTodo returns the todo with the given id.
func FindTodo(list []Todo, id int64) (Todo, bool) {
	for _, t := range list {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}
