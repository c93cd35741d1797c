package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ainotes/pkg/adapters/memory"
	"github.com/aretw0/ainotes/pkg/core"
	"github.com/aretw0/ainotes/pkg/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T, summarizer core.Summarizer) (*core.Store, *httptest.Server) {
	t.Helper()
	store := core.NewStore(storage.New(memory.New(), storage.Config{}), summarizer)
	require.NoError(t, store.Initialize(context.Background()))
	srv := httptest.NewServer(New(store, Config{PingInterval: time.Second}))
	t.Cleanup(srv.Close)
	return store, srv
}

func do(t *testing.T, method, url string, body any) (*http.Response, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rd = strings.NewReader(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			rd = bytes.NewReader(b)
		}
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestServer_NotesCRUD(t *testing.T) {
	_, srv := newTestServer(t, nil)
	api := srv.URL + "/api/v1"

	resp, env := do(t, http.MethodPost, api+"/notes", map[string]any{"title": "Groceries", "content": "milk, eggs", "tags": []string{"home"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)
	created := decodeData[core.Note](t, env)
	assert.Equal(t, "Groceries", created.Title)
	assert.NotEmpty(t, created.ID)

	resp, env = do(t, http.MethodGet, api+"/notes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decodeData[core.Note](t, env))

	resp, env = do(t, http.MethodPut, api+"/notes/"+created.ID, map[string]any{"content": "milk, eggs, bread"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeData[core.Note](t, env)
	assert.Equal(t, "Groceries", updated.Title)
	assert.Equal(t, "milk, eggs, bread", updated.Content)

	resp, _ = do(t, http.MethodDelete, api+"/notes/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, env = do(t, http.MethodGet, api+"/notes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestServer_ListQuery(t *testing.T) {
	store, srv := newTestServer(t, nil)
	ctx := context.Background()
	_, err := store.Create(ctx, core.Draft{Title: "Groceries", Content: "milk", Tags: []string{"home"}})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = store.Create(ctx, core.Draft{Title: "Budget", Content: "rent", Tags: []string{"work"}})
	require.NoError(t, err)

	titles := func(query string) []string {
		resp, env := do(t, http.MethodGet, srv.URL+"/api/v1/notes"+query, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out []string
		for _, n := range decodeData[[]core.Note](t, env) {
			out = append(out, n.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Budget", "Groceries"}, titles(""))
	assert.Equal(t, []string{"Groceries", "Budget"}, titles("?sort=oldest"))
	assert.Equal(t, []string{"Budget", "Groceries"}, titles("?sort=title"))
	assert.Equal(t, []string{"Groceries"}, titles("?q=MILK"))
	assert.Equal(t, []string{"Budget"}, titles("?tag=w*"))

	resp, env := do(t, http.MethodGet, srv.URL+"/api/v1/notes?sort=random", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, env.Error)
}

func TestServer_Validation(t *testing.T) {
	store, srv := newTestServer(t, nil)
	api := srv.URL + "/api/v1"

	cases := []struct {
		name string
		body any
	}{
		{"Malformed JSON", "{"},
		{"Missing Title", map[string]any{"content": "x"}},
		{"Blank Title", map[string]any{"title": "   ", "content": "x"}},
		{"Empty Tag", map[string]any{"title": "t", "content": "x", "tags": []string{""}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := do(t, http.MethodPost, api+"/notes", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
	assert.Empty(t, store.Notes())
	assert.Empty(t, store.Snapshot().Error, "validation failures do not set the snapshot error")

	resp, _ := do(t, http.MethodPut, api+"/notes/missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodDelete, api+"/notes/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Summary(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	summarizer := core.SummarizerFunc(func(ctx context.Context, content string) core.SummaryResult {
		if fail.Load() {
			return core.SummaryErr(errors.New("quota exceeded"))
		}
		return core.SummaryOK("Short.")
	})
	store, srv := newTestServer(t, summarizer)
	api := srv.URL + "/api/v1"

	n, err := store.Create(context.Background(), core.Draft{Title: "T", Content: "C"})
	require.NoError(t, err)

	resp, env := do(t, http.MethodPost, api+"/notes/"+n.ID+"/summary", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, env.Error, "quota exceeded")

	resp, env = do(t, http.MethodGet, api+"/state/error", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, core.MsgSummarizeFailed, decodeData[errorState](t, env).Error)

	resp, _ = do(t, http.MethodDelete, api+"/state/error", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, store.Snapshot().Error)

	fail.Store(false)
	resp, env = do(t, http.MethodPost, api+"/notes/"+n.ID+"/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Short.", decodeData[core.Note](t, env).Summary)

	resp, _ = do(t, http.MethodPost, api+"/notes/missing/summary", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ThemeAndStats(t *testing.T) {
	store, srv := newTestServer(t, nil)
	api := srv.URL + "/api/v1"

	resp, env := do(t, http.MethodGet, api+"/theme", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeData[themeResponse](t, env).Dark)

	resp, _ = do(t, http.MethodPut, api+"/theme", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = do(t, http.MethodPut, api+"/theme", map[string]any{"dark": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeData[themeResponse](t, env).Dark)
	assert.True(t, store.Theme())

	_, err := store.Create(context.Background(), core.Draft{Title: "T", Content: "one two three", Tags: []string{"a", "A", "b"}})
	require.NoError(t, err)
	resp, env = do(t, http.MethodGet, api+"/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, core.Stats{Notes: 1, Words: 3, Tags: 2}, decodeData[core.Stats](t, env))
}

func TestServer_HealthAndMetrics(t *testing.T) {
	_, srv := newTestServer(t, nil)

	resp, env := do(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	do(t, http.MethodGet, srv.URL+"/api/v1/notes/abc", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `ainotes_http_requests_total{code="404",method="GET",route="/api/v1/notes/{id}"} 1`)
	assert.Contains(t, string(body), "ainotes_notes 0")
}

func TestServer_WebSocket(t *testing.T) {
	store, srv := newTestServer(t, nil)
	ctx := context.Background()
	_, err := store.Create(ctx, core.Draft{Title: "Existing", Content: "x"})
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "snapshot", msg.Type)
	require.NotNil(t, msg.Snapshot)
	require.Len(t, msg.Snapshot.Notes, 1)

	n, err := store.Create(ctx, core.Draft{Title: "New", Content: "y"})
	require.NoError(t, err)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "event", msg.Type)
	require.NotNil(t, msg.Event)
	assert.Equal(t, core.EventCreate, msg.Event.Type)
	assert.Equal(t, n.ID, msg.Event.ID)
}

func TestServe_Shutdown(t *testing.T) {
	store := core.NewStore(storage.New(memory.New(), storage.Config{}), nil)
	s := New(store, Config{ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&core.ValidationError{Fields: []string{"title"}}))
	assert.Equal(t, http.StatusNotFound, statusFor(core.ErrNotFound))
	assert.Equal(t, http.StatusBadGateway, statusFor(core.ErrSummary))
	assert.Equal(t, http.StatusInternalServerError, statusFor(core.ErrPersistence))
}
