package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todomaster/internal/config"
	"todomaster/internal/domain"
	"todomaster/internal/errors"
	"todomaster/internal/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 2*time.Second, WithUserAgent("todomaster-test"))
}

func TestList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		assert.Equal(t, "todomaster-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"userId":1,"id":1,"title":"delectus aut autem","completed":false}]`))
	})

	list, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Todo{{ID: 1, Title: "delectus aut autem", UserID: 1}}, list)
}

func TestList_NonArrayCoercedToEmpty(t *testing.T) {
	var logBuf bytes.Buffer
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"maintenance"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, WithLogger(logging.New(&logBuf, logging.DefaultOptions())))
	list, err := client.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.Contains(t, logBuf.String(), "not an array")
}

func TestList_MalformedItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"x"}]`))
	})

	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNetwork))
}

func TestList_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNetwork))

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	status, _ := appErr.GetContext("status")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/todos/3":
			w.Write([]byte(`{"userId":1,"id":3,"title":"fugiat veniam minus","completed":false}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{}`))
		}
	})

	todo, err := client.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "fugiat veniam minus", todo.Title)

	_, err = client.Get(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCreate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		assert.Equal(t, "application/json; charset=UTF-8", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"title":"Buy milk","completed":false}`, string(body))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"title":"Buy milk","completed":false,"id":201}`))
	})

	todo, err := client.Create(context.Background(), domain.DraftTodo("Buy milk"))
	require.NoError(t, err)
	assert.Equal(t, int64(201), todo.ID)
	assert.False(t, todo.Completed)
}

func TestUpdate_SendsFullRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/todos/3", r.URL.Path)

		var sent map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		assert.Equal(t, map[string]interface{}{
			"id": float64(3), "title": "Buy eggs", "completed": true, "userId": float64(1),
		}, sent)

		w.Write([]byte(`{"id":3,"title":"Buy eggs","completed":true,"userId":1}`))
	})

	todo, err := client.Update(context.Background(), domain.Todo{ID: 3, Title: "Buy eggs", Completed: true, UserID: 1})
	require.NoError(t, err)
	assert.True(t, todo.Completed)
}

func TestDelete(t *testing.T) {
	var called bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/todos/5", r.URL.Path)
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.Delete(context.Background(), 5))
	assert.True(t, called)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := New(srv.URL, 50*time.Millisecond)
	_, err := client.List(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout))
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(url, time.Second)
	err := client.Delete(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNetwork))
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	client := NewFromConfig(cfg.Remote, logging.Discard())

	assert.Equal(t, "https://jsonplaceholder.typicode.com", client.BaseURL())
	assert.Equal(t, cfg.Remote.Timeout, client.httpClient.Timeout)
	assert.Equal(t, cfg.Remote.UserAgent, client.userAgent)
}
