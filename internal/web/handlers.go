package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"todomaster/internal/domain"
	"todomaster/internal/errors"
	"todomaster/internal/services"
)

// FetchFailedMessage heads the error view
const FetchFailedMessage = "Failed to fetch todos."

type listQuery struct {
	search string
	status domain.StatusFilter
	page   int
}

func parseListQuery(values url.Values) listQuery {
	q := listQuery{search: strings.TrimSpace(values.Get("search")), page: 1}
	status, err := domain.ParseStatusFilter(values.Get("status"))
	if err != nil {
		status = domain.StatusAll
	}
	q.status = status
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.page = page
	}
	return q
}

func (q listQuery) url(page int) string {
	values := url.Values{}
	if q.search != "" {
		values.Set("search", q.search)
	}
	if q.status != domain.StatusAll {
		values.Set("status", q.status.String())
	}
	values.Set("page", strconv.Itoa(page))
	return "/?" + values.Encode()
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.renderList(w, r, http.StatusOK, parseListQuery(r.URL.Query()), pageData{})
}

// renderList fetches the list and renders one page of it over data
func (s *Server) renderList(w http.ResponseWriter, r *http.Request, status int, q listQuery, data pageData) {
	// Read before the fetch, which writes the snapshot through
	data.HasSnapshot = s.todos.HasSnapshot(r.Context())

	list, err := s.todos.FetchList(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	page := domain.BuildPage(list, domain.ViewOptions{Search: q.search, Status: q.status, Page: q.page})
	data.Title = "Todos"
	data.Page = &page
	data.Search = q.search
	data.Status = q.status.String()
	data.Statuses = domain.StatusFilters()
	data.PrevURL = q.url(page.PreviousPage())
	data.NextURL = q.url(page.NextPage())
	s.render(w, r, status, "list", data)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	title := r.PostFormValue("title")
	if _, err := s.todos.CreateTodo(r.Context(), title); err != nil {
		s.renderList(w, r, statusFor(err), listQuery{status: domain.StatusAll, page: 1}, pageData{
			Error: errors.GetUserMessage(err),
			Draft: title,
		})
		return
	}
	redirect(w, r, "/")
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.loadTodo(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "detail", pageData{
		Title:          todo.Title,
		Todo:           todo,
		Draft:          todo.Title,
		DraftCompleted: todo.Completed,
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.loadTodo(w, r)
	if !ok {
		return
	}

	title := r.PostFormValue("title")
	completed := r.PostFormValue("completed") != ""

	session := services.NewEditSession(s.todos)
	session.Open(*todo)
	session.SetTitle(title)
	session.SetCompleted(completed)
	if _, err := session.Submit(r.Context()); err != nil {
		s.render(w, r, statusFor(err), "detail", pageData{
			Title:          todo.Title,
			Todo:           todo,
			Draft:          title,
			DraftCompleted: completed,
			Error:          session.Err,
		})
		return
	}
	redirect(w, r, todoPath(todo.ID))
}

func (s *Server) handleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.loadTodo(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "delete", pageData{
		Title:  "Delete " + todo.Title,
		Todo:   todo,
		Prompt: services.DeleteConfirmPrompt,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.todoID(w, r)
	if !ok {
		return
	}

	confirmed := r.PostFormValue("confirm") == "yes"
	answer := services.ConfirmFunc(func(context.Context, string) (bool, error) { return confirmed, nil })
	deleted, err := s.todos.DeleteTodo(r.Context(), id, answer)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			s.renderNotFound(w, r, errors.GetUserMessage(err))
			return
		}
		s.renderError(w, r, err)
		return
	}
	if !deleted {
		redirect(w, r, todoPath(id))
		return
	}
	redirect(w, r, "/")
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.todos.Refresh(r.Context()); err != nil {
		s.renderError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	if _, err := s.todos.Retry(r.Context()); err != nil {
		s.renderError(w, r, err)
		return
	}
	redirect(w, r, "/")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderNotFound(w, r, "")
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	s.render(w, r, http.StatusNotFound, "notfound", pageData{Title: "Not found", Error: message})
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.ShouldLogError(err) {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Warn("request rejected", "path", r.URL.Path, "err", err)
	}
	s.render(w, r, statusFor(err), "error", pageData{Title: "Error", Error: FetchFailedMessage})
}

// loadTodo resolves the {id} route variable, rendering 404 for unknown todos
func (s *Server) loadTodo(w http.ResponseWriter, r *http.Request) (*domain.Todo, bool) {
	id, ok := s.todoID(w, r)
	if !ok {
		return nil, false
	}
	todo, err := s.todos.FetchTodo(r.Context(), id)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			s.renderNotFound(w, r, errors.GetUserMessage(err))
			return nil, false
		}
		s.renderError(w, r, err)
		return nil, false
	}
	return todo, true
}

func (s *Server) todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		s.renderNotFound(w, r, "")
		return 0, false
	}
	return id, true
}

func todoPath(id int64) string {
	return "/todos/" + strconv.FormatInt(id, 10)
}

// statusFor maps an error to the response status of the page that reports it
func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusUnprocessableEntity
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeUnauthenticated:
		return http.StatusUnauthorized
	case errors.ErrorTypeConflict:
		return http.StatusConflict
	case errors.ErrorTypeNetwork, errors.ErrorTypeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
