package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gwdata/bron2/pkg/config"
	"github.com/gwdata/bron2/pkg/hstore"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bron2",
	Short: "bron2 - Bron v2 groundwater monitoring well containers",
	Long: `bron2 reads and writes Bron v2 containers holding groundwater
monitoring well (GMW) records: nested tables of well, tube and history
data stored in an embedded hierarchical store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		container, _ := cmd.Flags().GetString("container")
		if container == "" {
			container = cfg.Container
		}
		store, err := hstore.Open(container)
		if err != nil {
			return fmt.Errorf("failed to open container: %w", err)
		}
		ctx := context.WithValue(cmd.Context(), "container", store)
		ctx = context.WithValue(ctx, "config", cfg)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store, ok := cmd.Context().Value("container").(*hstore.Store); ok {
			return store.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("container", "c", "", "Path to the container database")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetDefaultConfigPath()
		if !config.ConfigExists(path) {
			return config.DefaultConfig(), nil
		}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func containerFromContext(cmd *cobra.Command) (*hstore.Store, error) {
	store, ok := cmd.Context().Value("container").(*hstore.Store)
	if !ok {
		return nil, fmt.Errorf("container not found in context")
	}
	return store, nil
}

func configFromContext(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value("config").(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}
