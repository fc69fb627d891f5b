// Package remotetest runs an in-memory stand-in for the remote todo resource.
package remotetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"todomaster/internal/domain"
)

// Server serves /todos with the same shapes as the public demo API
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	todos  map[int64]domain.Todo
	nextID int64
	calls  map[string]int
	fail   map[string]int
}

// NewServer starts a server seeded with todos
func NewServer(todos ...domain.Todo) *Server {
	s := &Server{
		todos:  make(map[int64]domain.Todo),
		nextID: 1,
		calls:  make(map[string]int),
		fail:   make(map[string]int),
	}
	for _, t := range todos {
		s.todos[t.ID] = t
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}

	r := mux.NewRouter()
	r.HandleFunc("/todos", s.list).Methods(http.MethodGet)
	r.HandleFunc("/todos", s.create).Methods(http.MethodPost)
	r.HandleFunc("/todos/{id:[0-9]+}", s.get).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id:[0-9]+}", s.update).Methods(http.MethodPut)
	r.HandleFunc("/todos/{id:[0-9]+}", s.remove).Methods(http.MethodDelete)
	r.Use(s.record)

	s.Server = httptest.NewServer(r)
	return s
}

// Calls returns how many requests hit method, e.g. "GET /todos"
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of requests served
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// FailWith makes every request to route answer status until cleared with 0
func (s *Server) FailWith(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.fail, route)
		return
	}
	s.fail[route] = status
}

// Todos returns the stored todos ordered by id
func (s *Server) Todos() []domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *Server) sortedLocked() []domain.Todo {
	out := make([]domain.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func routeOf(r *http.Request) string {
	path := "/todos"
	if _, ok := mux.Vars(r)["id"]; ok {
		path = "/todos/{id}"
	}
	return r.Method + " " + path
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeOf(r)
		s.mu.Lock()
		s.calls[route]++
		status := s.fail[route]
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := s.sortedLocked()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	t, ok := s.todos[id]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var draft domain.NewTodo
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, fmt.Sprintf("bad body: %v", err), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	t := domain.Todo{ID: s.nextID, Title: draft.Title, Completed: draft.Completed, UserID: 1}
	s.todos[t.ID] = t
	s.nextID++
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var t domain.Todo
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, fmt.Sprintf("bad body: %v", err), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	_, ok := s.todos[id]
	if ok {
		t.ID = id
		s.todos[id] = t
	}
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	delete(s.todos, id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, struct{}{})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
