package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is exported to scripts as $ELVI_VERSION.
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "elvi %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
