package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/ainotes"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ainotes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ainotes version %s\n", ainotes.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
