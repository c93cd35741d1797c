package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/ainotes/pkg/core"
)

// options holds the internal configuration for an ainotes instance.
type options struct {
	kv         core.KeyValue
	summarizer core.Summarizer
	logger     *slog.Logger
	backend    string
	config     map[string]interface{}
}

// Option defines a functional option for configuring ainotes.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		backend: "fs",
		config:  make(map[string]interface{}),
	}
}

// WithBackend selects the storage backend by name: "fs", "sqlite" or "memory".
// Defaults to "fs".
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithKeyValue injects a custom backend. When set, WithBackend is ignored and
// the caller keeps ownership of its lifecycle.
func WithKeyValue(kv core.KeyValue) Option {
	return func(o *options) {
		o.kv = kv
	}
}

// WithSummarizer sets the summary source. Without it Summarize always fails.
func WithSummarizer(s core.Summarizer) Option {
	return func(o *options) {
		o.summarizer = s
	}
}

// WithLogger sets the logger for the store and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly opens the fs backend read-only. Writes fail, and the dev
// sandbox is bypassed since nothing can be damaged.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) the data directory is re-rooted under the system temp dir.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithStrict makes persistence failures visible: the store rolls back and
// reports them instead of only logging.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithEventBuffer sets the per-subscriber event buffer. Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithSummaryFallback stores text as the summary when generation fails.
func WithSummaryFallback(text string) Option {
	return func(o *options) {
		o.config["summary_fallback"] = text
	}
}

// WithWatcherErrorHandler receives errors raised while watching the fs backend.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithDebounce sets how long the fs watcher waits for a burst of changes to settle.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.config["debounce"] = d
	}
}
