package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	driver     string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "reading-adventure",
		Short:        "Thai reading adventure quiz game",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&driver, "storage", os.Getenv("STORAGE_DRIVER"), "storage driver override (memory, sqlite, redis, postgres)")
	cmd.AddCommand(NewPlayCmd(&configPath))
	cmd.AddCommand(NewServeCmd(&configPath))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewWorldsCmd(&configPath))
	cmd.AddCommand(NewLevelCmd(&configPath))
	cmd.AddCommand(NewCatalogCmd(&configPath))
	cmd.AddCommand(NewPlayerCmd(&configPath))
	return cmd
}
