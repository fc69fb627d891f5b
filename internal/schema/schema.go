// Package schema checks todo payloads against embedded JSON schemas before
// they are decoded into domain values.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"todomaster/internal/domain"
)

const (
	todoSchemaURL  = "https://todomaster.local/schema/todo.json"
	todosSchemaURL = "https://todomaster.local/schema/todos.json"
)

var (
	//go:embed todo.json
	todoSchemaJSON string
	//go:embed todos.json
	todosSchemaJSON string
)

// ErrNotArray is returned when a list payload is valid JSON but not an array.
var ErrNotArray = errors.New("payload is not a JSON array")

// Problem is one schema violation at an instance location.
type Problem struct {
	Path    string
	Message string
}

// Error reports every schema violation in a payload.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	if len(e.Problems) == 0 {
		return "schema validation failed"
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Path == "" {
			parts = append(parts, p.Message)
			continue
		}
		parts = append(parts, p.Path+": "+p.Message)
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

type compiled struct {
	todo  *jsonschema.Schema
	todos *jsonschema.Schema
}

var load = sync.OnceValues(func() (*compiled, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(todoSchemaURL, strings.NewReader(todoSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add todo schema: %w", err)
	}
	if err := compiler.AddResource(todosSchemaURL, strings.NewReader(todosSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add todo list schema: %w", err)
	}

	todo, err := compiler.Compile(todoSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile todo schema: %w", err)
	}
	todos, err := compiler.Compile(todosSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile todo list schema: %w", err)
	}
	return &compiled{todo: todo, todos: todos}, nil
})

// DecodeTodoList validates raw against the list schema and decodes it.
// A JSON value that is not an array yields ErrNotArray.
func DecodeTodoList(raw []byte) ([]domain.Todo, error) {
	schemas, err := load()
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := doc.([]interface{}); !ok {
		return nil, ErrNotArray
	}
	if err := schemas.todos.Validate(doc); err != nil {
		return nil, toError(err)
	}

	list := []domain.Todo{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode todo list: %w", err)
	}
	return list, nil
}

// DecodeTodo validates raw against the single todo schema and decodes it.
func DecodeTodo(raw []byte) (*domain.Todo, error) {
	schemas, err := load()
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}
	if err := schemas.todo.Validate(doc); err != nil {
		return nil, toError(err)
	}

	var todo domain.Todo
	if err := json.Unmarshal(raw, &todo); err != nil {
		return nil, fmt.Errorf("decode todo: %w", err)
	}
	return &todo, nil
}

// decodeDocument parses raw into the generic form the validator expects.
// Numbers stay json.Number so integer checks see the literal.
func decodeDocument(raw []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid JSON: trailing data after document")
	}
	return doc, nil
}

func toError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	out := &Error{}
	collectProblems(out, ve)
	return out
}

func collectProblems(out *Error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		out.Problems = append(out.Problems, Problem{
			Path:    err.InstanceLocation,
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectProblems(out, cause)
	}
}
