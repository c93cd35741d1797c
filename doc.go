// Package ainotes is the Composition Root for the AI notes engine.
//
// It connects the note Store (Domain Layer) with the storage and summary
// adapters (Infrastructure Layer) using the Hexagonal Architecture pattern.
//
// Features:
//
//   - **Single Source of Truth**: one Store owns the ordered note collection,
//     a loading flag and the last error message, published as immutable snapshots.
//   - **Fail-Soft Persistence**: the collection is saved as JSON under the
//     `ai-notes` key; unreadable data loads as an empty collection.
//   - **Pluggable Backends**: plain files (default, with change watching),
//     SQLite or memory, via `core.KeyValue`.
//   - **Summaries**: notes are summarized by a remote generative-language
//     endpoint, with an offline fallback.
//
// Usage:
//
//	app, err := ainotes.New("./notes",
//		ainotes.WithSummarizer(summary.Local{}),
//		ainotes.WithLogger(logger),
//	)
//
//	note, err := app.Store.Create(ctx, ainotes.Draft{Title: "Groceries", Content: "milk, eggs"})
//	note, err = app.Store.Summarize(ctx, note.ID)
package ainotes
