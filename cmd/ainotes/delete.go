package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note from the collection.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp()
		defer app.Close()

		if err := app.Store.Delete(context.Background(), args[0]); err != nil {
			fatal("Failed to delete note", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
