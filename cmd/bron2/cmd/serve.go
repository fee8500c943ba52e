package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gwdata/bron2/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only inspection API",
	Long: `Start the bron2 HTTP API for inspecting a container: record
listing, per-record JSON views and the version marker.

Examples:
  bron2 --container wells.db serve --api-key=mysecretkey --port=8080`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := containerFromContext(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		cfg := configFromContext(cmd)

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.API.Port
		}
		bind, _ := cmd.Flags().GetString("bind")
		if bind == "" {
			bind = cfg.API.Bind
		}
		apiKey, _ := cmd.Flags().GetString("api-key")
		if apiKey == "" {
			apiKey = cfg.API.APIKey
		}
		if apiKey == "" || apiKey == "auto" {
			cmd.Println("Error: an API key is required (--api-key or config)")
			return
		}

		serverConfig := api.ServerConfig{
			Port:     port,
			Bind:     bind,
			APIKey:   apiKey,
			Operator: cfg.Operator,
		}
		if err := api.StartServer(store, serverConfig); err != nil {
			fmt.Printf("Server error: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on")
	serveCmd.Flags().String("bind", "", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key clients must present")
}
