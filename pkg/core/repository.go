package core

import "context"

// KeyValue defines the contract for the raw local store notes are kept in.
// Adhering to this interface keeps the persistence format independent of the
// underlying backend (files, SQLite, memory).
type KeyValue interface {
	// Get returns the stored bytes or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases backend resources.
	Close() error
}

// Watchable defines an interface for backends that report external changes.
type Watchable interface {
	// Watch emits the key of every value changed outside this process.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}

// Persistence is the contract the Store uses to read and write its state.
// Loads are fail-soft: they return the zero value instead of an error.
type Persistence interface {
	LoadNotes(ctx context.Context) []Note
	SaveNotes(ctx context.Context, notes []Note) error
	LoadTheme(ctx context.Context) bool
	SaveTheme(ctx context.Context, dark bool) error
}

// Summarizer produces a short summary of a note's content.
// Implementations always return a result; failures are carried in SummaryResult.Err.
type Summarizer interface {
	Summarize(ctx context.Context, content string) SummaryResult
}

// SummarizerFunc adapts a function to the Summarizer interface.
type SummarizerFunc func(ctx context.Context, content string) SummaryResult

func (f SummarizerFunc) Summarize(ctx context.Context, content string) SummaryResult {
	return f(ctx, content)
}
