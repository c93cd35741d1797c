package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/ainotes/internal/platform"
	storelifecycle "github.com/aretw0/ainotes/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print store events as they happen",
	Long: `Watch follows the data directory and prints an event line whenever the
collection changes, including edits made by other ainotes processes.
Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app := mustOpenApp()
		defer app.Close()

		src := storelifecycle.NewSource(app.Store)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		if err := app.Watch(ctx, nil); err != nil {
			if !errors.Is(err, platform.ErrNotWatchable) {
				fatal("Failed to watch data directory", err)
			}
			slog.Warn("backend cannot report external changes", "backend", cfg.Storage.Backend)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", resolveDataDir())
		for e := range src.Events() {
			fmt.Fprintf(out, "%s %s\n", time.Now().Format("15:04:05"), e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
