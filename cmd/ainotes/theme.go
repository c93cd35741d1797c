package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Show or set the theme preference",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"dark", "light", "toggle"},
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp()
		defer app.Close()

		dark := app.Store.Theme()
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), themeName(dark))
			return
		}

		switch args[0] {
		case "dark":
			dark = true
		case "light":
			dark = false
		case "toggle":
			dark = !dark
		}
		if err := app.Store.SetTheme(context.Background(), dark); err != nil {
			fatal("Failed to save theme", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", themeName(dark))
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
