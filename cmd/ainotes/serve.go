package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/ainotes/internal/platform"
	"github.com/aretw0/ainotes/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the notes over HTTP",
	Long: `Serve exposes the collection as a JSON API under /api/v1, streams store
events on /ws and publishes Prometheus metrics on /metrics.

It listens on 127.0.0.1:7070 unless --addr or server.addr say otherwise.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app := mustOpenApp()
		defer app.Close()

		if err := app.Watch(ctx, nil); err != nil && !errors.Is(err, platform.ErrNotWatchable) {
			fatal("Failed to watch data directory", err)
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := server.New(app.Store, server.Config{
			Logger:          slog.Default(),
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		})
		if err := srv.ListenAndServe(ctx, addr); err != nil {
			fatal("Server failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}
