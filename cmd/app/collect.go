package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"GannForce/internal/di"
)

var collectCmd = &cobra.Command{
	Use:   "collect-orderbook",
	Short: "Fetch the FastBull order book once and deliver it",
	Long: `Run a single FastBull collection pass. The snapshot is published to
Kafka when enabled, otherwise written straight to ClickHouse.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		collector, cleanup, err := di.InitializeCollector(cfg)
		if err != nil {
			return fmt.Errorf("collector initialization failed: %w", err)
		}
		defer cleanup()

		snap, err := collector.Collect(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "collected %d symbols at %s\n",
			snap.TotalSymbols, snap.ScrapedAt.Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
}
