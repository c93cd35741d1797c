package core

import (
	"fmt"
	"time"
)

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate    EventType = "CREATE"
	EventModify    EventType = "MODIFY"
	EventDelete    EventType = "DELETE"
	EventSummarize EventType = "SUMMARIZE"
	EventReload    EventType = "RELOAD"
	EventTheme     EventType = "THEME"
)

// Event represents a change in the store.
type Event struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id,omitempty"`
	Timestamp int64     `json:"timestamp"` // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

// Snapshot is an immutable view of the store state.
// A new Snapshot replaces the previous one on every transition.
type Snapshot struct {
	Notes   []Note `json:"notes"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// clone deep-copies the snapshot.
func (s Snapshot) clone() Snapshot {
	notes := make([]Note, len(s.Notes))
	for i, n := range s.Notes {
		notes[i] = n.Clone()
	}
	s.Notes = notes
	return s
}

// SummaryResult is the outcome of a summary request: either Text or Err is set.
type SummaryResult struct {
	Text string
	Err  error
}

// SummaryOK builds a successful result.
func SummaryOK(text string) SummaryResult {
	return SummaryResult{Text: text}
}

// SummaryErr builds a failed result.
func SummaryErr(err error) SummaryResult {
	return SummaryResult{Err: err}
}

// OK reports whether the result carries usable text.
func (r SummaryResult) OK() bool {
	return r.Err == nil
}

func newEvent(t EventType, id string, now time.Time) Event {
	return Event{Type: t, ID: id, Timestamp: now.Unix()}
}
