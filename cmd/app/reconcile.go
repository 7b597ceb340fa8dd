package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"GannForce/internal/di"
	"GannForce/internal/usecase"
)

var reconcileFormat string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Print the reconciled dashboard once",
	Long: `Load the latest COT, sentiment and order-book snapshots, reconcile them
and print one row per configured instrument.

Examples:
  gannforce reconcile
  gannforce reconcile --format json`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileFormat, "format", "table", "output format (table|json)")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	if reconcileFormat != "table" && reconcileFormat != "json" {
		return fmt.Errorf("unknown format %q", reconcileFormat)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dash, cleanup, err := di.InitializeDashboard(cfg)
	if err != nil {
		return fmt.Errorf("dashboard initialization failed: %w", err)
	}
	defer cleanup()

	d, err := dash.Get(cmd.Context())
	if err != nil {
		return err
	}
	if reconcileFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	return printDashboard(cmd.OutOrStdout(), d)
}

func printDashboard(w io.Writer, d *usecase.Dashboard) error {
	fmt.Fprintf(w, "COT report: %s\n", orDash(d.ReportDate))
	fmt.Fprintf(w, "Sentiment: %s (%s)\n\n", orDash(d.SentimentSource), orDash(d.SentimentAge))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTRUMENT\tCOT\tUNFULFILLED\tSENTIMENT\tPIVOT\tRECOMMENDATION")
	for _, in := range d.Instruments {
		uc := "-"
		if in.CotAsset != nil && in.CotAsset.UnfulfilledCalls != nil {
			uc = fmt.Sprintf("%.2f", *in.CotAsset.UnfulfilledCalls)
		}
		pivot := "-"
		if in.PivotPrice != nil {
			pivot = *in.PivotPrice
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			in.Display, in.CotSignal, uc, orDash(in.SentimentSignalLabel), pivot, in.RecommendationLabel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(d.Errors) > 0 {
		legs := make([]string, 0, len(d.Errors))
		for leg := range d.Errors {
			legs = append(legs, leg)
		}
		sort.Strings(legs)
		fmt.Fprintln(w)
		for _, leg := range legs {
			fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(leg), d.Errors[leg])
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
