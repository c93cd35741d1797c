// Package storage persists the note collection and the theme flag over any
// core.KeyValue backend, encoded as JSON under two fixed keys.
//
// Loads are fail-soft: a missing, empty or malformed value yields the zero
// value and a logged warning, never an error.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/ainotes/pkg/core"
)

const (
	// NotesKey holds the JSON array of notes.
	NotesKey = "ai-notes"
	// ThemeKey holds the JSON boolean dark-theme flag.
	ThemeKey = "ai-notes-theme"
)

// Config controls how write failures are reported.
type Config struct {
	// Strict returns save errors to the caller instead of only logging them.
	Strict bool
	Logger *slog.Logger
}

// Adapter implements core.Persistence.
type Adapter struct {
	kv     core.KeyValue
	config Config
}

// New wraps kv.
func New(kv core.KeyValue, config Config) *Adapter {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{kv: kv, config: config}
}

// LoadNotes returns the persisted collection in stored order.
// Records without an id are dropped.
func (a *Adapter) LoadNotes(ctx context.Context) []core.Note {
	data, ok := a.read(ctx, NotesKey)
	if !ok {
		return []core.Note{}
	}

	var raw []core.Note
	if err := json.Unmarshal(data, &raw); err != nil {
		a.config.Logger.Warn("discarding malformed notes", "key", NotesKey, "error", err)
		return []core.Note{}
	}

	notes := make([]core.Note, 0, len(raw))
	for _, n := range raw {
		if n.ID == "" {
			a.config.Logger.Warn("dropping note without id", "title", n.Title)
			continue
		}
		n.Tags = core.CleanTags(n.Tags)
		notes = append(notes, n)
	}
	return notes
}

// SaveNotes replaces the persisted collection with notes.
// Absent and empty tag lists are both stored without a tags field, so an
// empty list loads back as nil. The Store itself only holds nil for no tags.
func (a *Adapter) SaveNotes(ctx context.Context, notes []core.Note) error {
	if notes == nil {
		notes = []core.Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return a.writeFailed(NotesKey, fmt.Errorf("encode notes: %w", err))
	}
	return a.write(ctx, NotesKey, data)
}

// LoadTheme reports whether the dark theme was saved; false when unset.
func (a *Adapter) LoadTheme(ctx context.Context) bool {
	data, ok := a.read(ctx, ThemeKey)
	if !ok {
		return false
	}
	var dark bool
	if err := json.Unmarshal(data, &dark); err != nil {
		a.config.Logger.Warn("discarding malformed theme", "key", ThemeKey, "error", err)
		return false
	}
	return dark
}

// SaveTheme persists the theme flag.
func (a *Adapter) SaveTheme(ctx context.Context, dark bool) error {
	data, _ := json.Marshal(dark)
	return a.write(ctx, ThemeKey, data)
}

// Close closes the underlying backend.
func (a *Adapter) Close() error {
	return a.kv.Close()
}

// Backend returns the wrapped key-value store.
func (a *Adapter) Backend() core.KeyValue {
	return a.kv
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	type component interface{ ComponentType() string }
	if c, ok := a.kv.(component); ok {
		return "storage/" + c.ComponentType()
	}
	return "storage"
}

func (a *Adapter) read(ctx context.Context, key string) ([]byte, bool) {
	data, err := a.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, core.ErrKeyNotFound) {
			a.config.Logger.Warn("read failed", "key", key, "error", err)
		}
		return nil, false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}
	return data, true
}

func (a *Adapter) write(ctx context.Context, key string, data []byte) error {
	if err := a.kv.Set(ctx, key, data); err != nil {
		return a.writeFailed(key, err)
	}
	return nil
}

func (a *Adapter) writeFailed(key string, err error) error {
	a.config.Logger.Warn("write failed", "key", key, "error", err, "strict", a.config.Strict)
	if a.config.Strict {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

var _ core.Persistence = (*Adapter)(nil)
