package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gwdata/bron2/pkg/bron"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a JSON document into a container",
	Long: `Read a JSON document of well records and encode it into the
container. Null cells in float64 columns become the NaN fill value.

Example:
  bron2 --container wells.db import wells.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := containerFromContext(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", args[0], err)
			return
		}

		var gmws []*bron.GMW
		if err := json.Unmarshal(data, &gmws); err != nil {
			fmt.Printf("Error decoding JSON: %v\n", err)
			return
		}

		if err := bron.Write(store, "", gmws); err != nil {
			fmt.Printf("Error writing container: %v\n", err)
			return
		}

		cfg := configFromContext(cmd)
		fmt.Printf("Imported %d wells (operator: %s)\n", len(gmws), cfg.Operator)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
