package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/ainotes/internal/config"
)

var (
	verbose    bool
	dataDir    string
	backend    string
	configPath string

	// cfg is loaded once before any command runs.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ainotes",
	Short: "Take notes and summarize them with a generative model",
	Long: `ainotes keeps an ordered collection of titled notes on disk and can
attach a short AI-generated summary to any of them.

Notes live in the first .ainotes directory found above the working directory,
or in the configured data directory (~/.local/share/ainotes by default).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("backend") {
			loaded.Storage.Backend = backend
			if err := loaded.Validate(); err != nil {
				return err
			}
		}
		cfg = loaded

		level := slog.LevelInfo
		switch strings.ToLower(cfg.Log.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the notes (overrides config and .ainotes lookup)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: fs, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/ainotes/config.yaml)")
}
