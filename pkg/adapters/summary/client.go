// Package summary provides core.Summarizer implementations: a client for the
// remote text generation endpoint, an offline summarizer and a fallback
// decorator.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aretw0/ainotes/pkg/core"
)

// Prompt precedes the note content in every request.
const Prompt = "Summarize the following note content in 3-4 sentences:\n\n"

// APIKeyHeader carries the credential so it never appears in URLs or logs.
const APIKeyHeader = "x-goog-api-key"

const (
	defaultTimeout     = 30 * time.Second
	defaultRate        = 1.0
	defaultBurst       = 3
	defaultBaseBackoff = 500 * time.Millisecond
	maxErrorBody       = 512
)

// Config configures an HTTPClient.
type Config struct {
	Endpoint string
	APIKey   string
	// Timeout bounds a single request. Zero means 30s.
	Timeout time.Duration
	// Rate is the sustained requests per second; Burst the bucket size.
	// Zero means 1 rps with a burst of 3. Negative Rate disables limiting.
	Rate  float64
	Burst int
	// MaxRetries applies to transport errors, 429 and 5xx responses only.
	MaxRetries int
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// HTTPClient summarizes content through the remote generation endpoint.
type HTTPClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// NewHTTPClient validates cfg and builds a client.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("summary endpoint required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("summary API key required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	switch {
	case cfg.Rate < 0:
		limiter = rate.NewLimiter(rate.Inf, 0)
	case cfg.Rate == 0:
		limiter = rate.NewLimiter(rate.Limit(defaultRate), defaultBurst)
	default:
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &HTTPClient{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: hc,
		limiter:    limiter,
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    defaultBaseBackoff,
		logger:     logger,
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// retryableError marks failures worth another attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Summarize implements core.Summarizer.
func (c *HTTPClient) Summarize(ctx context.Context, text string) core.SummaryResult {
	if err := c.limiter.Wait(ctx); err != nil {
		return core.SummaryErr(fmt.Errorf("rate limiter: %w", err))
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: Prompt + text}}}},
	})
	if err != nil {
		return core.SummaryErr(fmt.Errorf("encode request: %w", err))
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return core.SummaryErr(ctx.Err())
			}
		}

		summary, err := c.do(ctx, body)
		if err == nil {
			return core.SummaryOK(summary)
		}
		lastErr = err

		var re *retryableError
		if !errors.As(err, &re) {
			break
		}
		c.logger.Debug("summary request failed, retrying", "attempt", attempt+1, "error", err)
	}
	return core.SummaryErr(lastErr)
}

func (c *HTTPClient) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(APIKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &retryableError{err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, truncate(data))}
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, truncate(data))
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from API")
	}
	summary := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if summary == "" {
		return "", errors.New("empty summary in response")
	}
	return summary, nil
}

// ComponentType implements introspection.Component.
func (c *HTTPClient) ComponentType() string {
	return "summary/http"
}

func truncate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}

var _ core.Summarizer = (*HTTPClient)(nil)
