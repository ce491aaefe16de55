package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Displays taskgraph's version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", version)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// We're simply overriding the root pre-run, since the version command
		// doesn't need it.
		return nil
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
