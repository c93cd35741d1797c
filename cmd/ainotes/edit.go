package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/ainotes/pkg/core"
)

var (
	editTitle   string
	editContent string
	editTags    string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a note",
	Long: `Edit replaces the fields given as flags and keeps the others.
The note keeps its position in the collection.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var patch core.Patch
		if cmd.Flags().Changed("title") {
			patch.Title = core.String(editTitle)
		}
		if cmd.Flags().Changed("content") {
			patch.Content = core.String(editContent)
		}
		if cmd.Flags().Changed("tags") {
			patch.Tags = core.Strings(core.ParseTags(editTags)...)
		}
		if patch.IsEmpty() {
			fatal("Nothing to edit", fmt.Errorf("pass at least one of --title, --content or --tags"))
		}

		app := mustOpenApp()
		defer app.Close()

		n, err := app.Store.Update(context.Background(), args[0], patch)
		if err != nil {
			fatal("Failed to update note", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note updated: %s\n", n.ID)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
	editCmd.Flags().StringVar(&editTags, "tags", "", `New comma separated tags ("" clears them)`)
}
