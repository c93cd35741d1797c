package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp()
		defer app.Close()

		n, ok := app.Store.Get(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Note not found: %s\n", args[0])
			os.Exit(1)
		}

		done, err := encode(cmd.OutOrStdout(), showFormat, n)
		if err != nil {
			fatal("Failed to encode note", err)
		}
		if !done {
			printNote(cmd.OutOrStdout(), n)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showFormat, "format", "f", formatText, "Output format: text, json or yaml")
}
