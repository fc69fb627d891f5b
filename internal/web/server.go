// Package web serves the server-rendered todo pages.
package web

import (
	"bytes"
	"context"
	"embed"
	stderrors "errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"todomaster/internal/config"
	"todomaster/internal/domain"
	"todomaster/internal/logging"
	"todomaster/internal/services"
)

// SessionCookie carries the session token
const SessionCookie = "todo_session"

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"list", "detail", "delete", "login", "signup", "error", "notfound"}

// Server renders the todo pages over the shared services
type Server struct {
	todos  services.TodoService
	auth   services.AuthService
	cfg    *config.Config
	logger *log.Logger
	pages  map[string]*template.Template
	router *mux.Router
}

// NewServer parses the page templates and builds the router
func NewServer(container *services.ServiceContainer, cfg *config.Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		todos:  container.TodoService,
		auth:   container.AuthService,
		cfg:    cfg,
		logger: logger,
		pages:  pages,
	}
	s.router = s.routes()
	return s, nil
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogging, s.withSession)

	r.HandleFunc("/", s.protected(s.handleList)).Methods(http.MethodGet)
	r.HandleFunc("/todos", s.protected(s.handleCreate)).Methods(http.MethodPost)
	r.HandleFunc("/todos/{id:[0-9]+}", s.protected(s.handleDetail)).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id:[0-9]+}/edit", s.protected(s.handleEdit)).Methods(http.MethodPost)
	r.HandleFunc("/todos/{id:[0-9]+}/delete", s.protected(s.handleDeleteConfirm)).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id:[0-9]+}/delete", s.protected(s.handleDelete)).Methods(http.MethodPost)
	r.HandleFunc("/refresh", s.protected(s.handleRefresh)).Methods(http.MethodPost)
	r.HandleFunc("/retry", s.protected(s.handleRetry)).Methods(http.MethodPost)

	r.HandleFunc("/login", s.guestOnly(s.handleLoginPage)).Methods(http.MethodGet)
	r.HandleFunc("/login", s.guestOnly(s.handleLogin)).Methods(http.MethodPost)
	r.HandleFunc("/signup", s.guestOnly(s.handleSignupPage)).Methods(http.MethodGet)
	r.HandleFunc("/signup", s.guestOnly(s.handleSignup)).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	r.NotFoundHandler = s.withSession(http.HandlerFunc(s.handleNotFound))
	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// pageData is the view model shared by every page
type pageData struct {
	Title string
	User  *domain.User
	Flash string
	Error string

	Page     *domain.PageView
	Search   string
	Status   string
	Statuses []domain.StatusFilter
	PrevURL  string
	NextURL  string
	// HasSnapshot gates the Refresh button
	HasSnapshot bool

	Todo           *domain.Todo
	Draft          string
	DraftCompleted bool
	Prompt         string

	Email     string
	Name      string
	Providers []string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if state := sessionFrom(r.Context()); state.SignedIn() {
		data.User = state.User
	}

	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.logger.Error("render failed", "page", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
