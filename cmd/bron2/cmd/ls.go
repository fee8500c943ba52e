package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gwdata/bron2/pkg/bron"
)

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the records stored in a container",
	Long: `List the groundwater monitoring well records in a container with
their table row counts.

Example:
  bron2 --container wells.db ls`,
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

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WELL\tHISTORY ROWS\tTUBE ROWS\tWELL ROWS")
		for i, gmw := range gmws {
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\n",
				i+1, gmw.History.Rows(), gmw.Tube.Rows(), gmw.Well.Rows())
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
