package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/app"
	"github.com/matthieukhl/storefront/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront - browse, fill a cart and check out",
	Long: `Storefront is a small shop you drive from the terminal.

Browse the catalog, keep a cart that survives between runs, sign in with a
mocked account and walk through shipping, payment and review to place an
order. The run command starts the backend health server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ./deploy, ., $HOME/.storefront, /etc/storefront)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func loadApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start storefront: %w", err)
	}
	return a, nil
}
