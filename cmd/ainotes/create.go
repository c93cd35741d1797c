package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/ainotes/pkg/core"
)

var (
	createTitle   string
	createContent string
	createTags    string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Long: `Create a note with the given title and content. Pass "-" as content to
read it from stdin. New notes are placed first in the collection.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		content := createContent
		if content == "-" {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			content = string(b)
		}

		app := mustOpenApp()
		defer app.Close()

		n, err := app.Store.Create(context.Background(), core.Draft{
			Title:   createTitle,
			Content: content,
			Tags:    core.ParseTags(createTags),
		})
		if err != nil {
			fatal("Failed to create note", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note created: %s\n", n.ID)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createTitle, "title", "", "Note title")
	createCmd.Flags().StringVar(&createContent, "content", "", `Note content ("-" reads stdin)`)
	createCmd.Flags().StringVar(&createTags, "tags", "", "Comma separated tags")
	createCmd.MarkFlagRequired("title")
	createCmd.MarkFlagRequired("content")
}
