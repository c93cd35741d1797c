package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/ainotes/pkg/core"
)

var (
	listSearch string
	listSort   string
	listTag    string
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long: `List notes, newest first by default. Notes marked with * have a summary.

--search matches title, content and tags ignoring case. --tag takes a glob
such as "work/*".`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := core.ParseSortKey(listSort)
		if err != nil {
			fatal("Invalid --sort", err)
		}

		app := mustOpenApp()
		defer app.Close()

		notes := core.Query(app.Store.Notes(), core.Filter{Term: listSearch, TagPattern: listTag}, key)

		out := cmd.OutOrStdout()
		done, err := encode(out, listFormat, notes)
		if err != nil {
			fatal("Failed to encode notes", err)
		}
		if done {
			return
		}

		if len(notes) == 0 {
			fmt.Fprintln(out, "No notes found.")
			return
		}
		for _, n := range notes {
			printNoteLine(out, n)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only notes containing this text")
	listCmd.Flags().StringVar(&listSort, "sort", "newest", "Order: newest, oldest or title")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only notes with a tag matching this glob")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", formatText, "Output format: text, json or yaml")
}
