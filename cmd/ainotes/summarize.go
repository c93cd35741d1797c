package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [id]",
	Short: "Generate a summary for a note",
	Long: `Summarize sends the note content to the configured summary endpoint and
stores the result on the note. Without an API key (summary.api_key or
AINOTES_SUMMARY_API_KEY) an offline summary is produced instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app := mustOpenApp()
		defer app.Close()

		n, err := app.Store.Summarize(ctx, args[0])
		if err != nil {
			fatal("Failed to summarize note", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), n.Summary)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
