package fs

import (
	"slices"
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string     `json:"path"`
	ReadOnly      bool       `json:"read_only"`
	Keys          []string   `json:"keys_written,omitempty"`
	WatcherActive bool       `json:"watcher_active"`
	LastChange    *time.Time `json:"last_external_change,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.written))
	for k := range s.written {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return StoreState{
		Path:          s.Path,
		ReadOnly:      s.config.ReadOnly,
		Keys:          keys,
		WatcherActive: s.watcherActive,
		LastChange:    s.lastChange,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Store) recordChange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastChange = &now
}
