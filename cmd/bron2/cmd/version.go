package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gwdata/bron2/pkg/bron"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the container's BRON_VERSION marker",
	Long: `Print the BRON_VERSION marker stored at the container root.

Example:
  bron2 --container wells.db version`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := containerFromContext(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		version, err := bron.ReadVersion(store)
		if err != nil {
			fmt.Printf("Error reading version: %v\n", err)
			return
		}

		fmt.Printf("BRON_VERSION %s (supported: %s)\n", version, bron.CurrentVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
