package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/gamelists/internal/models"
	"github.com/desertthunder/gamelists/internal/repositories"
	"github.com/desertthunder/gamelists/internal/services"
	"github.com/desertthunder/gamelists/internal/shared"
)

type testAPI struct {
	handler http.Handler
	logs    *bytes.Buffer
}

func newTestAPI(t *testing.T, cfg shared.ServerConfig) *testAPI {
	t.Helper()
	ctx := context.Background()

	db, err := shared.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, shared.RunMigrations(db))

	games := repositories.NewGameRepository(db)
	lists := repositories.NewGameListRepository(db)

	require.NoError(t, lists.Create(ctx, &models.GameList{ID: 1, Name: "Aventura e RPG"}))
	require.NoError(t, lists.Create(ctx, &models.GameList{ID: 2, Name: "Jogos de plataforma"}))
	for i, title := range []string{"A", "B", "C", "D", "E"} {
		g := &models.Game{ID: int64(i + 1), Title: title, Year: 2000 + i}
		require.NoError(t, games.Create(ctx, g))
		_, err := lists.AddGame(ctx, 1, g.ID)
		require.NoError(t, err)
	}

	logs := &bytes.Buffer{}
	logger := shared.NewLogger(logs)
	logger.SetLevel(log.DebugLevel)

	handler := NewAPI(cfg,
		services.NewGameService(games),
		services.NewGameListService(lists, games, repositories.NewBelongingRepository(db)),
		logger,
	)
	return &testAPI{handler: handler, logs: logs}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func titlesOf(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var games []models.GameSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &games))
	titles := make([]string, 0, len(games))
	for _, g := range games {
		titles = append(titles, g.Title)
	}
	return titles
}

func TestGameEndpoints(t *testing.T) {
	api := newTestAPI(t, shared.ServerConfig{})

	t.Run("list games", func(t *testing.T) {
		w := api.do(http.MethodGet, "/games", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"A", "B", "C", "D", "E"}, titlesOf(t, w))
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	})

	t.Run("get game", func(t *testing.T) {
		w := api.do(http.MethodGet, "/games/2", "")
		require.Equal(t, http.StatusOK, w.Code)

		var g models.Game
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
		assert.Equal(t, "B", g.Title)
		assert.Equal(t, 2001, g.Year)
	})

	t.Run("missing game", func(t *testing.T) {
		w := api.do(http.MethodGet, "/games/99", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, codeNotFound, decodeError(t, w).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		for _, path := range []string{"/games/abc", "/games/0", "/games/-3"} {
			w := api.do(http.MethodGet, path, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
		}
	})
}

func TestListEndpoints(t *testing.T) {
	api := newTestAPI(t, shared.ServerConfig{})

	t.Run("list lists", func(t *testing.T) {
		w := api.do(http.MethodGet, "/lists", "")
		require.Equal(t, http.StatusOK, w.Code)

		var lists []models.GameList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lists))
		assert.Len(t, lists, 2)
	})

	t.Run("get list", func(t *testing.T) {
		w := api.do(http.MethodGet, "/lists/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"name":"Aventura e RPG"}`, w.Body.String())
	})

	t.Run("missing list", func(t *testing.T) {
		w := api.do(http.MethodGet, "/lists/7", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list games", func(t *testing.T) {
		w := api.do(http.MethodGet, "/lists/1/games", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"A", "B", "C", "D", "E"}, titlesOf(t, w))
	})

	t.Run("empty list games", func(t *testing.T) {
		w := api.do(http.MethodGet, "/lists/2/games", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("health", func(t *testing.T) {
		w := api.do(http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("unknown route", func(t *testing.T) {
		w := api.do(http.MethodGet, "/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReplacementEndpoint(t *testing.T) {
	t.Run("moves and reorders", func(t *testing.T) {
		api := newTestAPI(t, shared.ServerConfig{})

		w := api.do(http.MethodPost, "/lists/1/replacement", `{"sourceIndex":0,"destinationIndex":2}`)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
		assert.Empty(t, w.Body.String())

		w = api.do(http.MethodGet, "/lists/1/games", "")
		assert.Equal(t, []string{"B", "C", "A", "D", "E"}, titlesOf(t, w))

		w = api.do(http.MethodPost, "/lists/1/replacement", `{"sourceIndex":4,"destinationIndex":0}`)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = api.do(http.MethodGet, "/lists/1/games", "")
		assert.Equal(t, []string{"E", "B", "C", "A", "D"}, titlesOf(t, w))
	})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "source out of range", path: "/lists/1/replacement", body: `{"sourceIndex":5,"destinationIndex":0}`, status: http.StatusBadRequest, code: codeIndexOutOfRange},
		{name: "destination out of range", path: "/lists/1/replacement", body: `{"sourceIndex":0,"destinationIndex":9}`, status: http.StatusBadRequest, code: codeIndexOutOfRange},
		{name: "negative index", path: "/lists/1/replacement", body: `{"sourceIndex":-1,"destinationIndex":0}`, status: http.StatusBadRequest, code: codeInvalidInput},
		{name: "missing field", path: "/lists/1/replacement", body: `{"sourceIndex":1}`, status: http.StatusBadRequest, code: codeInvalidInput},
		{name: "malformed body", path: "/lists/1/replacement", body: `{"sourceIndex":`, status: http.StatusBadRequest, code: codeInvalidInput},
		{name: "missing list", path: "/lists/99/replacement", body: `{"sourceIndex":0,"destinationIndex":1}`, status: http.StatusNotFound, code: codeNotFound},
		{name: "empty list", path: "/lists/2/replacement", body: `{"sourceIndex":0,"destinationIndex":0}`, status: http.StatusNotFound, code: codeNotFound},
		{name: "bad list id", path: "/lists/x/replacement", body: `{"sourceIndex":0,"destinationIndex":1}`, status: http.StatusBadRequest, code: codeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, shared.ServerConfig{})

			w := api.do(http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeError(t, w).Code)

			w = api.do(http.MethodGet, "/lists/1/games", "")
			assert.Equal(t, []string{"A", "B", "C", "D", "E"}, titlesOf(t, w), "failed move must not write")
		})
	}

	t.Run("missing field names json key", func(t *testing.T) {
		api := newTestAPI(t, shared.ServerConfig{})
		w := api.do(http.MethodPost, "/lists/1/replacement", `{"sourceIndex":1}`)
		assert.Contains(t, decodeError(t, w).Message, "destinationIndex is required")
	})

	t.Run("wrong method", func(t *testing.T) {
		api := newTestAPI(t, shared.ServerConfig{})
		w := api.do(http.MethodGet, "/lists/1/replacement", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: 3", shared.ErrListNotFound), http.StatusNotFound, codeNotFound},
		{shared.ErrGameNotFound, http.StatusNotFound, codeNotFound},
		{fmt.Errorf("wrapped: %w", shared.ErrIndexOutOfRange), http.StatusBadRequest, codeIndexOutOfRange},
		{shared.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput},
		{fmt.Errorf("%w: locked", shared.ErrTransactionFailed), http.StatusConflict, codeTransactionFailed},
		{errors.New("disk on fire"), http.StatusInternalServerError, codeInternal},
	}

	for _, tt := range tests {
		status, code := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	w := httptest.NewRecorder()
	writeServiceError(w, errors.New("sql: connection refused at /var/lib/db"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "/var/lib/db")
}

func TestMiddleware(t *testing.T) {
	t.Run("request id generated and echoed", func(t *testing.T) {
		api := newTestAPI(t, shared.ServerConfig{})
		w := api.do(http.MethodGet, "/health", "")

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Contains(t, api.logs.String(), id)
		assert.Contains(t, api.logs.String(), "path=/health")
	})

	t.Run("request id preserved", func(t *testing.T) {
		api := newTestAPI(t, shared.ServerConfig{})
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		api.handler.ServeHTTP(w, r)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("rate limit", func(t *testing.T) {
		api := newTestAPI(t, shared.ServerConfig{RateLimit: 0.001, RateBurst: 2})

		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "").Code)
		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "").Code)

		w := api.do(http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "rate_limited", decodeError(t, w).Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		api := newTestAPI(t, shared.ServerConfig{CORSOrigins: []string{"http://localhost:5173"}})

		r := httptest.NewRequest(http.MethodOptions, "/lists/1/replacement", nil)
		r.Header.Set("Origin", "http://localhost:5173")
		r.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		api.handler.ServeHTTP(w, r)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("cors rejects unknown origin", func(t *testing.T) {
		api := newTestAPI(t, shared.ServerConfig{CORSOrigins: []string{"http://localhost:5173"}})

		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		api.handler.ServeHTTP(w, r)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestKeyedRateLimiter(t *testing.T) {
	limiter := NewKeyedRateLimiter(0.001, 1)

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"), "keys are independent")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx, "a"))
}

func TestServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(shared.ServerConfig{ShutdownTimeoutSeconds: 1}, http.HandlerFunc(health), shared.NewLogger(&bytes.Buffer{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
