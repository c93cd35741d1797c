package ainotes

import (
	"log/slog"
	"time"

	"github.com/aretw0/ainotes/internal/platform"
	"github.com/aretw0/ainotes/pkg/core"
)

// --- Types ---

// Note is a public alias for the domain note.
type Note = core.Note

// Draft holds the fields of a note to be created.
type Draft = core.Draft

// Patch is a partial update of a note.
type Patch = core.Patch

// Store is the state container for the note collection.
type Store = core.Store

// App is a Store wired to its persistence backend.
type App = platform.App

// SortKey orders query results.
type SortKey = core.SortKey

const (
	SortNewest = core.SortNewest
	SortOldest = core.SortOldest
	SortTitle  = core.SortTitle
)

// --- Configuration ---

// Option defines a functional option for configuring ainotes.
type Option = platform.Option

// WithBackend selects the storage backend: "fs" (default), "sqlite" or "memory".
func WithBackend(name string) Option {
	return platform.WithBackend(name)
}

// WithKeyValue allows injecting a custom storage backend.
func WithKeyValue(kv core.KeyValue) Option {
	return platform.WithKeyValue(kv)
}

// WithSummarizer sets the summary source.
func WithSummarizer(s core.Summarizer) Option {
	return platform.WithSummarizer(s)
}

// WithSummaryFallback stores text as the summary when generation fails.
func WithSummaryFallback(text string) Option {
	return platform.WithSummaryFallback(text)
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the data directory without writing to it.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety toggles the temp-dir sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithStrict reports persistence failures instead of only logging them.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithEventBuffer allows specifying the size of the event broker buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithDebounce sets the settle time of the fs watcher.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// --- Factory ---

// New opens the data directory at path and returns a ready Store.
func New(path string, opts ...Option) (*App, error) {
	return platform.New(path, opts...)
}

// Open returns the raw key-value backend selected by opts.
func Open(path string, opts ...Option) (core.KeyValue, error) {
	return platform.Open(path, opts...)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards from startDir for a project-local .ainotes directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
