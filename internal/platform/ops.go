package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/ainotes/pkg/adapters/fs"
	"github.com/aretw0/ainotes/pkg/adapters/memory"
	"github.com/aretw0/ainotes/pkg/adapters/sqlite"
	"github.com/aretw0/ainotes/pkg/core"
)

// Open creates the key-value backend selected by the options.
// The uri argument is the data directory for "fs" and "sqlite" and is
// ignored by "memory".
func Open(uri string, opts ...Option) (core.KeyValue, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return open(uri, o)
}

func open(uri string, o *options) (core.KeyValue, error) {
	if o.kv != nil {
		return o.kv, nil
	}

	switch o.backend {
	case "fs":
		return openFS(uri, o)
	case "sqlite":
		path := filepath.Join(resolvePath(uri, o), sqlite.DefaultFileName)
		store, err := sqlite.OpenStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", o.backend)
	}
}

func openFS(uri string, o *options) (core.KeyValue, error) {
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	debounce, _ := o.config["debounce"].(time.Duration)

	store := fs.New(fs.Config{
		Path:         resolvePath(uri, o),
		MustExist:    mustExist,
		ReadOnly:     readOnly,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
		Debounce:     debounce,
	})
	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

// resolvePath applies the dev sandbox rules to uri.
func resolvePath(uri string, o *options) string {
	tempDir, _ := o.config["temp_dir"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only access cannot damage anything.
	bypass := readOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypass)
	resolved := ResolveDataPath(uri, useTemp)

	if o.logger != nil {
		switch {
		case useTemp && resolved != uri:
			o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", uri, "resolved_path", resolved)
		case IsDevRun() && bypass && !readOnly:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	return resolved
}
