// Package fs implements core.KeyValue with one JSON file per key.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/ainotes/pkg/core"
)

// Extension is appended to every key to form its file name.
const Extension = ".json"

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	MustExist bool // fail instead of creating Path
	ReadOnly  bool
	Logger    *slog.Logger
	// ErrorHandler receives watcher errors. When nil they are only logged.
	ErrorHandler func(error)
	// Debounce collapses bursts of change notifications. Zero means 50ms.
	Debounce time.Duration
}

// Store keeps each key in <Path>/<key>.json.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	written       map[string][]byte // last bytes this process wrote, per key
	watcherActive bool
	lastChange    *time.Time
}

// New creates a filesystem store. Call Initialize before use.
func New(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Store{
		Path:    config.Path,
		config:  config,
		written: make(map[string][]byte),
	}
}

// Initialize ensures the data directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", s.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Path)
		}
		return nil
	}
	if err := os.MkdirAll(s.Path, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Get implements core.KeyValue.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set implements core.KeyValue.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return fmt.Errorf("cannot write %s: store is read-only", key)
	}
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Record before renaming so the watcher never sees our own write as foreign.
	s.mu.Lock()
	prev, hadPrev := s.written[key]
	s.written[key] = bytes.Clone(value)
	s.mu.Unlock()

	if err := writeFileAtomic(path, value, 0o644); err != nil {
		s.mu.Lock()
		if hadPrev {
			s.written[key] = prev
		} else {
			delete(s.written, key)
		}
		s.mu.Unlock()
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.config.Logger.Debug("key written", "key", key, "bytes", len(value))
	return nil
}

// Close implements core.KeyValue. The filesystem holds no resources.
func (s *Store) Close() error {
	return nil
}

func (s *Store) pathFor(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.Path, key+Extension), nil
}

// keyFor maps a file in the data directory back to its key.
func (s *Store) keyFor(path string) (string, bool) {
	if isTempFile(path) || filepath.Dir(path) != filepath.Clean(s.Path) {
		return "", false
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, Extension) {
		return "", false
	}
	return strings.TrimSuffix(base, Extension), true
}

// isOwnWrite reports whether the file for key still holds what this process wrote last.
func (s *Store) isOwnWrite(key string) bool {
	s.mu.RLock()
	written, ok := s.written[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	data, err := os.ReadFile(filepath.Join(s.Path, key+Extension))
	if err != nil {
		return false
	}
	return bytes.Equal(data, written)
}

var (
	_ core.KeyValue  = (*Store)(nil)
	_ core.Watchable = (*Store)(nil)
)
