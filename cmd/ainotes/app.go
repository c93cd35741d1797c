package main

import (
	"log/slog"
	"os"

	"github.com/aretw0/ainotes/internal/config"
	"github.com/aretw0/ainotes/internal/platform"
	"github.com/aretw0/ainotes/pkg/adapters/summary"
	"github.com/aretw0/ainotes/pkg/core"
)

// resolveDataDir picks the data directory: --data-dir, then a project-local
// .ainotes directory, then the configured one.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if wd, err := os.Getwd(); err == nil {
		if root, err := platform.FindRoot(wd); err == nil {
			return root
		}
	}
	return cfg.Storage.DataDir
}

// newSummarizer returns the remote client when an API key is configured and
// the offline summarizer otherwise, wrapped in summary.Fallback when
// summary.fallback is set.
func newSummarizer(c config.SummaryConfig, logger *slog.Logger) (core.Summarizer, error) {
	var next core.Summarizer = summary.Local{}
	if c.APIKey.IsSet() {
		client, err := summary.NewHTTPClient(summary.Config{
			Endpoint:   c.Endpoint,
			APIKey:     c.APIKey.Value(),
			Timeout:    c.Timeout,
			Rate:       c.Rate,
			Burst:      c.Burst,
			MaxRetries: c.MaxRetries,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		next = client
	} else {
		logger.Debug("no summary API key configured, using local summarizer")
	}

	if c.Fallback {
		return summary.Fallback{Next: next, Text: c.FallbackText, Logger: logger}, nil
	}
	return next, nil
}

func openApp(extra ...platform.Option) (*platform.App, error) {
	logger := slog.Default()
	summarizer, err := newSummarizer(cfg.Summary, logger)
	if err != nil {
		return nil, err
	}

	opts := []platform.Option{
		platform.WithBackend(cfg.Storage.Backend),
		platform.WithStrict(cfg.Storage.Strict),
		platform.WithSummarizer(summarizer),
		platform.WithLogger(logger),
	}
	opts = append(opts, extra...)

	return platform.New(resolveDataDir(), opts...)
}

func mustOpenApp(extra ...platform.Option) *platform.App {
	app, err := openApp(extra...)
	if err != nil {
		fatal("Failed to open notes", err)
	}
	return app
}
