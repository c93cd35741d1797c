package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/ainotes/pkg/core"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp()
		defer app.Close()

		st := core.ComputeStats(app.Store.Notes())
		out := cmd.OutOrStdout()
		done, err := encode(out, statsFormat, st)
		if err != nil {
			fatal("Failed to encode stats", err)
		}
		if done {
			return
		}
		fmt.Fprintf(out, "Notes:     %d\n", st.Notes)
		fmt.Fprintf(out, "Summaries: %d\n", st.Summaries)
		fmt.Fprintf(out, "Words:     %d\n", st.Words)
		fmt.Fprintf(out, "Tags:      %d\n", st.Tags)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", formatText, "Output format: text, json or yaml")
}
