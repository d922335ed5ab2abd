package cmd

import (
	"context"
	"fmt"
	"os"

	"bankrecon/cmd/bankrecon/config"
	"bankrecon/internal/recon"
	"bankrecon/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the periods command
var (
	periodsTogglePeriod string
	periodsOutputFormat string
)

// periodsCmd represents the periods command
var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "Show monthly reconciliation periods and toggle their status",
	Long: `Periods aggregates the company's imported transactions into calendar
months and shows each month's inflow, outflow, net and reconciliation
status, newest first.

With --toggle the named month is flipped between open and reconciled
before the list is printed. Locked months cannot be toggled.

Examples:
  bankrecon periods --database-url postgres://localhost/bankrecon
  bankrecon periods --database-url ... --toggle 2025-01
  bankrecon periods --database-url ... --output-format json`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDatabase(); err != nil {
			return err
		}
		if !report.Format(periodsOutputFormat).IsValid() {
			return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", periodsOutputFormat)
		}
		return nil
	},
	RunE: runPeriods,
}

func init() {
	rootCmd.AddCommand(periodsCmd)

	periodsCmd.Flags().StringVarP(&periodsTogglePeriod, "toggle", "t", "", "period to toggle between open and reconciled (YYYY-MM)")
	periodsCmd.Flags().StringVarP(&periodsOutputFormat, "output-format", "f", "console", "output format: console, json, csv")
}

func runPeriods(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := newLogger()
	handler := NewCLIErrorHandler(log)

	st, cleanup, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	tracker := recon.NewTracker(st, viper.GetString("company"), log)

	if periodsTogglePeriod != "" {
		if err := tracker.Refresh(ctx); err != nil {
			os.Exit(handler.HandleError(err))
		}
		status, err := tracker.Toggle(ctx, periodsTogglePeriod)
		if err != nil {
			os.Exit(handler.HandleError(err))
		}
		fmt.Printf("Period %s is now %s.\n\n", periodsTogglePeriod, status)
	}

	summaries, err := tracker.Summaries(ctx)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}
	if len(summaries) == 0 {
		fmt.Println("No imported transactions yet.")
		return nil
	}

	reportConfig, err := config.CreateReportConfig(periodsOutputFormat, true)
	if err != nil {
		return err
	}
	generator, err := report.NewGenerator(reportConfig)
	if err != nil {
		return err
	}
	return generator.WritePeriodReport(summaries, os.Stdout)
}
