package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the single source of truth for the note collection.
//
// Every mutation replaces the current Snapshot and writes the whole collection
// through to Persistence before returning. Mutations are serialized by the
// store itself; the remote summary call is the only step performed outside
// the writer lock, so other commands may interleave with it.
type Store struct {
	persistence Persistence
	summarizer  Summarizer
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
	fallback    string

	writeMu     sync.Mutex // serializes mutations and their persistence write
	mu          sync.RWMutex
	snap        Snapshot
	theme       bool
	pending     int
	initialized bool

	events *broker
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source (useful for testing).
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the note ID generator.
// The default generates random UUIDs.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithSummaryFallback stores text as the summary when the summarizer fails,
// instead of reporting the failure.
func WithSummaryFallback(text string) StoreOption {
	return func(s *Store) {
		s.fallback = text
	}
}

// WithEventBuffer sets the per-subscriber event buffer. Zero means default (100).
func WithEventBuffer(size int) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.events.size = size
		}
	}
}

// NewStore creates a Store backed by p. summarizer may be nil, in which case
// Summarize always fails with ErrSummary.
func NewStore(p Persistence, summarizer Summarizer, opts ...StoreOption) *Store {
	s := &Store{
		persistence: p,
		summarizer:  summarizer,
		logger:      slog.New(slog.DiscardHandler),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return uuid.NewString() },
		events:      newBroker(100),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events.logger = s.logger
	return s
}

// Initialize loads the persisted collection and installs it as the current
// snapshot. Nothing is written back. Calling it again is a no-op.
func (s *Store) Initialize(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.initLocked(ctx)
}

func (s *Store) initLocked(ctx context.Context) error {
	if s.initialized {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	notes := s.persistence.LoadNotes(ctx)
	theme := s.persistence.LoadTheme(ctx)

	s.mu.Lock()
	s.snap = Snapshot{Notes: notes, Loading: s.pending > 0}
	s.theme = theme
	s.initialized = true
	s.mu.Unlock()

	s.logger.Debug("store initialized", "notes", len(notes))
	return nil
}

// Reload re-reads the persisted collection, replacing the in-memory one.
// It is used when the backend reports a change made by another process.
func (s *Store) Reload(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	notes := s.persistence.LoadNotes(ctx)
	theme := s.persistence.LoadTheme(ctx)

	s.mu.Lock()
	next := s.snap
	next.Notes = notes
	s.snap = next
	s.theme = theme
	s.initialized = true
	s.mu.Unlock()

	s.logger.Debug("store reloaded", "notes", len(notes))
	s.events.publish(newEvent(EventReload, "", s.now()))
	return nil
}

// Create validates the draft and prepends a new note to the collection.
func (s *Store) Create(ctx context.Context, d Draft) (Note, error) {
	if err := d.Validate(); err != nil {
		return Note{}, err
	}
	d = d.Normalize()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.initLocked(ctx); err != nil {
		return Note{}, err
	}

	s.beginOp()
	defer s.endOp()

	now := s.now()
	n := Note{
		ID:        s.newID(),
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      slices.Clone(d.Tags),
	}

	current := s.currentNotes()
	for _, existing := range current {
		if existing.ID == n.ID {
			return Note{}, s.fail(MsgCreateFailed, fmt.Errorf("duplicate note id %q", n.ID))
		}
	}

	next := make([]Note, 0, len(current)+1)
	next = append(next, n)
	next = append(next, current...)

	if err := s.commit(ctx, next, MsgCreateFailed); err != nil {
		return Note{}, err
	}

	s.logger.Info("note created", "id", n.ID)
	s.events.publish(newEvent(EventCreate, n.ID, now))
	return n.Clone(), nil
}

// Update merges patch into the note identified by id.
// It returns ErrNotFound if the note does not exist and a ValidationError if
// the result would have an empty title or content; in both cases nothing changes.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Note, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.initLocked(ctx); err != nil {
		return Note{}, err
	}

	s.beginOp()
	defer s.endOp()

	n, err := s.updateLocked(ctx, id, patch, MsgUpdateFailed)
	if err != nil {
		return Note{}, err
	}

	s.logger.Info("note updated", "id", id)
	s.events.publish(newEvent(EventModify, id, n.UpdatedAt))
	return n, nil
}

func (s *Store) updateLocked(ctx context.Context, id string, patch Patch, failMsg string) (Note, error) {
	current := s.currentNotes()
	idx := slices.IndexFunc(current, func(n Note) bool { return n.ID == id })
	if idx < 0 {
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	prev := current[idx]
	updated := patch.apply(prev)
	if err := validateNote(updated); err != nil {
		return Note{}, err
	}

	updated.UpdatedAt = s.now()
	if updated.UpdatedAt.Before(prev.UpdatedAt) {
		updated.UpdatedAt = prev.UpdatedAt
	}

	next := slices.Clone(current)
	next[idx] = updated

	if err := s.commit(ctx, next, failMsg); err != nil {
		return Note{}, err
	}
	return updated.Clone(), nil
}

// Delete removes the note identified by id and persists the remainder.
// It returns ErrNotFound, leaving the collection unchanged, if there is no such note.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.initLocked(ctx); err != nil {
		return err
	}

	s.beginOp()
	defer s.endOp()

	current := s.currentNotes()
	next := slices.DeleteFunc(slices.Clone(current), func(n Note) bool { return n.ID == id })
	if len(next) == len(current) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.commit(ctx, next, MsgDeleteFailed); err != nil {
		return err
	}

	s.logger.Info("note deleted", "id", id)
	s.events.publish(newEvent(EventDelete, id, s.now()))
	return nil
}

// Summarize asks the summarizer for a summary of the note's content and
// attaches it to the note.
//
// The summarizer runs without holding the writer lock. If it fails, the
// snapshot error is set and an error wrapping ErrSummary is returned, unless
// a fallback text was configured with WithSummaryFallback.
func (s *Store) Summarize(ctx context.Context, id string) (Note, error) {
	s.writeMu.Lock()
	if err := s.initLocked(ctx); err != nil {
		s.writeMu.Unlock()
		return Note{}, err
	}
	n, ok := s.Get(id)
	if !ok {
		s.writeMu.Unlock()
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.beginOp()
	s.writeMu.Unlock()

	result := s.summarize(ctx, n.Content)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	defer s.endOp()

	text := result.Text
	if !result.OK() {
		s.logger.Warn("summary generation failed", "id", id, "error", result.Err)
		if s.fallback == "" {
			return Note{}, s.fail(MsgSummarizeFailed, fmt.Errorf("%w: %w", ErrSummary, result.Err))
		}
		text = s.fallback
	}

	updated, err := s.updateLocked(ctx, id, Patch{Summary: &text}, MsgSummarizeFailed)
	if err != nil {
		return Note{}, err
	}

	s.logger.Info("note summarized", "id", id)
	s.events.publish(newEvent(EventSummarize, id, updated.UpdatedAt))
	return updated, nil
}

func (s *Store) summarize(ctx context.Context, content string) (res SummaryResult) {
	if s.summarizer == nil {
		return SummaryErr(errors.New("no summarizer configured"))
	}
	defer func() {
		if r := recover(); r != nil {
			res = SummaryErr(fmt.Errorf("summarizer panic: %v", r))
		}
	}()
	res = s.summarizer.Summarize(ctx, content)
	if res.OK() && res.Text == "" {
		res = SummaryErr(errors.New("empty summary"))
	}
	return res
}

// ClearError resets the snapshot error. It has no persistence effect.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap
	next.Error = ""
	s.snap = next
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Notes returns a copy of the collection in storage order (newest created first).
func (s *Store) Notes() []Note {
	return s.Snapshot().Notes
}

// Get returns a copy of the note identified by id.
func (s *Store) Get(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.snap.Notes {
		if n.ID == id {
			return n.Clone(), true
		}
	}
	return Note{}, false
}

// Theme reports whether the dark theme is selected.
func (s *Store) Theme() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme selects the dark (true) or light theme and persists the choice.
func (s *Store) SetTheme(ctx context.Context, dark bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.initLocked(ctx); err != nil {
		return err
	}

	if err := s.persistence.SaveTheme(context.WithoutCancel(ctx), dark); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.mu.Lock()
	s.theme = dark
	s.mu.Unlock()

	s.events.publish(newEvent(EventTheme, "", s.now()))
	return nil
}

// Subscribe returns a channel receiving every store event until ctx is done.
// Slow subscribers miss events rather than block the store.
func (s *Store) Subscribe(ctx context.Context) <-chan Event {
	return s.events.subscribe(ctx)
}

func (s *Store) currentNotes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Notes
}

// commit installs next as the collection and writes it through.
// The write ignores cancellation of ctx: once installed, a change is persisted.
// On a persistence error the previous collection is restored.
// Must be called with writeMu held.
func (s *Store) commit(ctx context.Context, next []Note, failMsg string) error {
	s.mu.Lock()
	prev := s.snap.Notes
	installed := s.snap
	installed.Notes = next
	s.snap = installed
	s.mu.Unlock()

	if err := s.persistence.SaveNotes(context.WithoutCancel(ctx), next); err != nil {
		s.mu.Lock()
		restored := s.snap
		restored.Notes = prev
		s.snap = restored
		s.mu.Unlock()
		return s.fail(failMsg, fmt.Errorf("%w: %w", ErrPersistence, err))
	}
	return nil
}

// fail records msg as the snapshot error and returns err.
func (s *Store) fail(msg string, err error) error {
	s.logger.Error(msg, "error", err)
	s.mu.Lock()
	next := s.snap
	next.Error = msg
	s.snap = next
	s.mu.Unlock()
	return err
}

func (s *Store) beginOp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending++
	next := s.snap
	next.Loading = true
	next.Error = ""
	s.snap = next
}

func (s *Store) endOp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	next := s.snap
	next.Loading = s.pending > 0
	s.snap = next
}
