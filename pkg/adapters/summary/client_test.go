package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/ainotes/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{Endpoint: srv.URL + "/v1beta/models/gemini:generateContent", APIKey: "test-key", Rate: -1}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := NewHTTPClient(cfg)
	require.NoError(t, err)
	c.backoff = time.Millisecond
	return c
}

func reply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":` + quote(text) + `}]}}]}`))
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestHTTPClient_Success(t *testing.T) {
	var got generateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get(APIKeyHeader))
		assert.Empty(t, r.URL.Query().Get("key"), "credential must not travel in the URL")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		reply(w, "  A concise summary.  ")
	})

	res := c.Summarize(context.Background(), "test")
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, "A concise summary.", res.Text)

	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Equal(t, "Summarize the following note content in 3-4 sentences:\n\ntest", got.Contents[0].Parts[0].Text)
}

func TestHTTPClient_Failures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{"Client Error With Message", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
		}, "API key not valid"},
		{"Server Error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, "server error (503)"},
		{"Malformed Body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}, "parse response"},
		{"No Candidates", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}, "empty response"},
		{"Blank Text", func(w http.ResponseWriter, r *http.Request) {
			reply(w, "   ")
		}, "empty summary"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.handler)
			res := c.Summarize(context.Background(), "content")
			require.False(t, res.OK())
			assert.ErrorContains(t, res.Err, tc.want)
			assert.Empty(t, res.Text)
		})
	}
}

func TestHTTPClient_Retries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		reply(w, "third time lucky")
	}, func(cfg *Config) { cfg.MaxRetries = 2 })

	res := c.Summarize(context.Background(), "x")
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPClient_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}, func(cfg *Config) { cfg.MaxRetries = 3 })

	res := c.Summarize(context.Background(), "x")
	require.False(t, res.OK())
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_Cancellation(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := c.Summarize(ctx, "x")
	require.False(t, res.OK())
	assert.True(t, errors.Is(res.Err, context.DeadlineExceeded), "got %v", res.Err)
}

func TestNewHTTPClient_Validation(t *testing.T) {
	_, err := NewHTTPClient(Config{APIKey: "k"})
	assert.Error(t, err)
	_, err = NewHTTPClient(Config{Endpoint: "http://localhost"})
	assert.Error(t, err)
}

func TestLocal(t *testing.T) {
	res := Local{}.Summarize(context.Background(), "Milk and eggs. Bread!  Butter?")
	require.True(t, res.OK())
	assert.Equal(t, "This note contains 5 words and 3 sentences. It appears to discuss key concepts and ideas in a structured format.", res.Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res = Local{Delay: time.Hour}.Summarize(ctx, "x")
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestFallback(t *testing.T) {
	failing := core.SummarizerFunc(func(ctx context.Context, content string) core.SummaryResult {
		return core.SummaryErr(errors.New("down"))
	})

	res := Fallback{Next: failing}.Summarize(context.Background(), "x")
	require.True(t, res.OK())
	assert.Equal(t, DefaultFallbackText, res.Text)

	res = Fallback{Next: failing, Text: "n/a"}.Summarize(context.Background(), "x")
	assert.Equal(t, "n/a", res.Text)

	res = Fallback{Next: Local{}}.Summarize(context.Background(), "one")
	assert.Contains(t, res.Text, "1 words")

	assert.Equal(t, "summary/local+fallback", Fallback{Next: Local{}}.ComponentType())

	res = Fallback{}.Summarize(context.Background(), "x")
	require.True(t, res.OK())
	assert.Equal(t, DefaultFallbackText, res.Text)
	assert.Equal(t, "summary/fallback", Fallback{}.ComponentType())
}

func TestStoreWithHTTPClient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reply(w, "Summary of the note.")
	})

	store := core.NewStore(&memPersistence{}, c)
	ctx := context.Background()
	n, err := store.Create(ctx, core.Draft{Title: "T", Content: "test"})
	require.NoError(t, err)

	n, err = store.Summarize(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summary of the note.", n.Summary)
}

// memPersistence discards writes.
type memPersistence struct{}

func (memPersistence) LoadNotes(ctx context.Context) []core.Note          { return nil }
func (memPersistence) SaveNotes(ctx context.Context, n []core.Note) error { return nil }
func (memPersistence) LoadTheme(ctx context.Context) bool                 { return false }
func (memPersistence) SaveTheme(ctx context.Context, dark bool) error     { return nil }
