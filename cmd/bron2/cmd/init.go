package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gwdata/bron2/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a bron2 configuration file",
	Long: `Create a configuration file with a generated API key.

Example:
  bron2 init --config ./bron2.yaml --container ./wells.db`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.GetDefaultConfigPath()
		}
		if config.ConfigExists(path) {
			fmt.Printf("Config already exists at %s\n", path)
			return
		}
		container, _ := cmd.Flags().GetString("container")

		cfg, err := config.BootstrapConfig(path, container)
		if err != nil {
			fmt.Printf("Error bootstrapping config: %v\n", err)
			return
		}

		fmt.Printf("Wrote %s\n", path)
		fmt.Printf("Container: %s\n", cfg.Container)
		fmt.Printf("API key:   %s\n", cfg.API.APIKey)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
