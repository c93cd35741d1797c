package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/ainotes/pkg/core"
	"github.com/aretw0/ainotes/pkg/storage"
)

// ErrNotWatchable is returned by Watch when the backend cannot report changes.
var ErrNotWatchable = errors.New("backend does not support watching")

// App wires a Store to its persistence backend.
type App struct {
	Store       *core.Store
	Persistence *storage.Adapter

	backend core.KeyValue
	owned   bool
	logger  *slog.Logger
}

// New opens the configured backend, builds the Store on top of it and loads
// the persisted notes.
//
//	app, err := platform.New("~/.local/share/ainotes", platform.WithBackend("sqlite"))
func New(uri string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	kv, err := open(uri, o)
	if err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	strict, _ := o.config["strict"].(bool)
	persistence := storage.New(kv, storage.Config{Strict: strict, Logger: logger})

	storeOpts := []core.StoreOption{core.WithLogger(logger)}
	if size, ok := o.config["event_buffer"].(int); ok {
		storeOpts = append(storeOpts, core.WithEventBuffer(size))
	}
	if text, ok := o.config["summary_fallback"].(string); ok && text != "" {
		storeOpts = append(storeOpts, core.WithSummaryFallback(text))
	}

	app := &App{
		Store:       core.NewStore(persistence, o.summarizer, storeOpts...),
		Persistence: persistence,
		backend:     kv,
		owned:       o.kv == nil,
		logger:      logger,
	}

	if err := app.Store.Initialize(context.Background()); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

// Backend returns the key-value store under the Store.
func (a *App) Backend() core.KeyValue {
	return a.backend
}

// Close releases the backend unless it was injected with WithKeyValue.
func (a *App) Close() error {
	if !a.owned {
		return nil
	}
	return a.backend.Close()
}

// Watch reloads the Store whenever another process changes the backend,
// until ctx is done. onReload, if non-nil, is called with the changed key
// after each reload.
func (a *App) Watch(ctx context.Context, onReload func(key string)) error {
	w, ok := a.backend.(core.Watchable)
	if !ok {
		return ErrNotWatchable
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch backend: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for key := range changes {
			if err := a.Store.Reload(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Error("reload failed", "key", key, "error", err)
				continue
			}
			a.logger.Info("external change reloaded", "key", key)
			if onReload != nil {
				onReload(key)
			}
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		a.logger.Error("watch loop panic", "error", err)
	}))
	return nil
}
