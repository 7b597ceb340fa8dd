package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"GannForce/internal/di"
	"GannForce/pkg/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "gannforce",
	Short: "COT, retail sentiment and order-book reconciliation service",
	Long: `GannForce joins CFTC Commitments of Traders positioning, retail
sentiment and FastBull order-book snapshots into one trading bias per
instrument, and serves the result over HTTP.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, Kafka ingest and scheduled collection",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	defer cleanup()

	return app.Run(cmd.Context())
}
