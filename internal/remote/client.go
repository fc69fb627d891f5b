// Package remote is the HTTP client for the remote todo resource.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"todomaster/internal/config"
	"todomaster/internal/domain"
	"todomaster/internal/errors"
	"todomaster/internal/logging"
	"todomaster/internal/schema"
)

const (
	contentType     = "application/json; charset=UTF-8"
	maxResponseSize = 10 << 20
)

// Client talks to a JSON todo resource rooted at a base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for request tracing and payload warnings
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for baseURL with a per-request timeout
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client from the remote configuration section
func NewFromConfig(cfg config.RemoteConfig, logger *log.Logger) *Client {
	return New(cfg.BaseURL, cfg.Timeout, WithUserAgent(cfg.UserAgent), WithLogger(logger))
}

// BaseURL returns the resource root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches every todo. A payload that is not an array is treated as an empty list.
func (c *Client) List(ctx context.Context) ([]domain.Todo, error) {
	body, err := c.do(ctx, "list todos", http.MethodGet, "/todos", "", nil)
	if err != nil {
		return nil, err
	}

	list, err := schema.DecodeTodoList(body)
	if stderrors.Is(err, schema.ErrNotArray) {
		c.logger.Warn("todo list payload is not an array, using empty list")
		return []domain.Todo{}, nil
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeNetwork, "unexpected todo list payload")
	}
	return list, nil
}

// Get fetches a single todo by id
func (c *Client) Get(ctx context.Context, id int64) (*domain.Todo, error) {
	ids := strconv.FormatInt(id, 10)
	body, err := c.do(ctx, "get todo", http.MethodGet, "/todos/"+ids, ids, nil)
	if err != nil {
		return nil, err
	}
	return decodeTodo(body)
}

// Create posts a new todo and returns the record the server assigned
func (c *Client) Create(ctx context.Context, draft domain.NewTodo) (*domain.Todo, error) {
	body, err := c.do(ctx, "create todo", http.MethodPost, "/todos", "", draft)
	if err != nil {
		return nil, err
	}
	return decodeTodo(body)
}

// Update replaces a todo with the full record
func (c *Client) Update(ctx context.Context, todo domain.Todo) (*domain.Todo, error) {
	ids := strconv.FormatInt(todo.ID, 10)
	body, err := c.do(ctx, "update todo", http.MethodPut, "/todos/"+ids, ids, todo)
	if err != nil {
		return nil, err
	}
	return decodeTodo(body)
}

// Delete removes a todo by id
func (c *Client) Delete(ctx context.Context, id int64) error {
	ids := strconv.FormatInt(id, 10)
	_, err := c.do(ctx, "delete todo", http.MethodDelete, "/todos/"+ids, ids, nil)
	return err
}

func decodeTodo(body []byte) (*domain.Todo, error) {
	todo, err := schema.DecodeTodo(body)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeNetwork, "unexpected todo payload")
	}
	return todo, nil
}

// do sends one request and returns the response body for 2xx answers.
// id names the todo for not-found errors; empty means 404 is a plain failure.
func (c *Client) do(ctx context.Context, op, method, path, id string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.NewInvalidInputError("body", payload, err.Error())
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.NewNetworkError(op, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, errors.NewTimeoutError(op, c.httpClient.Timeout)
		}
		return nil, errors.NewNetworkError(op, 0, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("remote request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.NewNetworkError(op, resp.StatusCode, err)
	}

	if resp.StatusCode == http.StatusNotFound && id != "" {
		return nil, errors.NewNotFoundError("todo", id)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewNetworkError(op, resp.StatusCode, fmt.Errorf("%s %s: %s", method, path, resp.Status))
	}
	return body, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return stderrors.As(err, &te) && te.Timeout()
}
