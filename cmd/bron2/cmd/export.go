package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gwdata/bron2/pkg/bron"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Export a container to a JSON document",
	Long: `Decode every record in the container and write the document as
JSON. Float64 fill cells (NaN) are exported as null.

Example:
  bron2 --container wells.db export wells.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := containerFromContext(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		gmws, err := bron.Read(store, "")
		if err != nil {
			fmt.Printf("Error reading container: %v\n", err)
			return
		}

		data, err := json.MarshalIndent(gmws, "", "  ")
		if err != nil {
			fmt.Printf("Error encoding JSON: %v\n", err)
			return
		}

		if err := os.WriteFile(args[0], data, 0644); err != nil {
			fmt.Printf("Error writing %s: %v\n", args[0], err)
			return
		}

		fmt.Printf("Exported %d wells to %s\n", len(gmws), args[0])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
