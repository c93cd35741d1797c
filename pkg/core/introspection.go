package core

import (
	"fmt"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes           int    `json:"notes"`
	Loading         bool   `json:"loading"`
	Error           string `json:"error,omitempty"`
	Initialized     bool   `json:"initialized"`
	DarkTheme       bool   `json:"dark_theme"`
	Subscribers     int    `json:"subscribers"`
	EventBufferSize int    `json:"event_buffer_size"`
	PersistenceType string `json:"persistence_type"`
	SummarizerType  string `json:"summarizer_type"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Notes:           len(s.snap.Notes),
		Loading:         s.snap.Loading,
		Error:           s.snap.Error,
		Initialized:     s.initialized,
		DarkTheme:       s.theme,
		Subscribers:     s.events.len(),
		EventBufferSize: s.events.size,
		PersistenceType: componentType(s.persistence, "persistence"),
		SummarizerType:  componentType(s.summarizer, "none"),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

// componentType returns v's component type when it implements
// introspection.Component, its Go type otherwise.
func componentType(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	if comp, ok := v.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return fmt.Sprintf("%T", v)
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
