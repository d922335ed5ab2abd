package cmd

import (
	"context"
	"fmt"
	"os"

	"bankrecon/cmd/bankrecon/config"
	"bankrecon/internal/ingest"
	"bankrecon/internal/matcher"
	"bankrecon/internal/report"
	"bankrecon/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the match command
var (
	matchMapOverrides   []string
	matchOutputFormat   string
	matchOutputFile     string
	matchAmountTol      float64
	matchHighDays       int
	matchMediumDays     int
	matchIncludeMatched bool
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match <statement.csv> <invoices.csv>",
	Short: "Match statement payments against open supplier invoices",
	Long: `Match parses a bank statement and an invoice export, then pairs
outgoing payments with open invoices by amount and due date proximity.
Each pairing carries a confidence tier; inflows and unmatched payments
are listed with an explanatory note.

The invoice export needs at least a number and a total column. Settled
booked invoices are ignored.

Examples:
  # Basic matching with a console report
  bankrecon match statement.csv invoices.csv

  # JSON report to a file with a wider amount tolerance
  bankrecon match statement.csv invoices.csv \
    --output-format json --output-file report.json --amount-tolerance 10

  # Fix an unrecognized column before matching
  bankrecon match statement.csv invoices.csv --map date=Bokföringsdag`,
	Args:    cobra.ExactArgs(2),
	PreRunE: validateMatchFlags,
	RunE:    runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringArrayVar(&matchMapOverrides, "map", nil, "mapping override as field=Header (repeatable)")

	// Output flags
	matchCmd.Flags().StringVarP(&matchOutputFormat, "output-format", "f", "console", "output format: console, json, csv")
	matchCmd.Flags().StringVarP(&matchOutputFile, "output-file", "o", "", "output file path (default: stdout)")
	matchCmd.Flags().BoolVar(&matchIncludeMatched, "include-matched", true, "list matched transactions in full")

	// Matching configuration flags
	matchCmd.Flags().Float64VarP(&matchAmountTol, "amount-tolerance", "a", 0, "candidate amount tolerance in currency units (0 keeps the default)")
	matchCmd.Flags().IntVar(&matchHighDays, "high-days", 0, "high confidence due date window in days (0 keeps the default)")
	matchCmd.Flags().IntVar(&matchMediumDays, "medium-days", 0, "medium confidence due date window in days (0 keeps the default)")

	viper.BindPFlag("output-format", matchCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("amount-tolerance", matchCmd.Flags().Lookup("amount-tolerance"))
}

func validateMatchFlags(cmd *cobra.Command, args []string) error {
	if !report.Format(matchOutputFormat).IsValid() {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", matchOutputFormat)
	}
	if matchAmountTol < 0 {
		return fmt.Errorf("amount tolerance cannot be negative")
	}
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := newLogger()
	handler := NewCLIErrorHandler(log)

	statementText, err := readInputFile(args[0], "statement file")
	if err != nil {
		return err
	}
	invoiceText, err := readInputFile(args[1], "invoice file")
	if err != nil {
		return err
	}

	ledger, err := store.NewCSVLedger(invoiceText)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	matcherConfig, err := config.CreateMatcherConfig(matchAmountTol, matchHighDays, matchMediumDays)
	if err != nil {
		return err
	}
	engine := matcher.NewEngine(matcherConfig, log)

	svc := ingest.NewService(store.NewMemoryStore(), ledger, engine, log)
	preview, err := svc.Preview(statementText)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	if len(matchMapOverrides) > 0 {
		if err := config.ApplyMappingOverrides(&preview.Mapping, matchMapOverrides); err != nil {
			return err
		}
		preview.Rebuild()
	}

	if len(preview.MissingFields) > 0 {
		fmt.Fprintf(os.Stderr, "Missing required fields: %v\n", preview.MissingFields)
		return fmt.Errorf("the column mapping is incomplete; assign fields with --map field=Header")
	}

	results, err := svc.MatchTransactions(ctx, viper.GetString("company"), preview.Transactions)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	reportConfig, err := config.CreateReportConfig(matchOutputFormat, matchIncludeMatched)
	if err != nil {
		return err
	}
	generator, err := report.NewGenerator(reportConfig)
	if err != nil {
		return err
	}

	output := os.Stdout
	if matchOutputFile != "" {
		output, err = os.Create(matchOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	if err := generator.WriteMatchReport(results, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		summary := report.Summarize(results)
		fmt.Fprintf(os.Stderr, "\nMatched %d of %d transactions (%d high, %d medium, %d low).\n",
			summary.Matched, summary.Total, summary.High, summary.Medium, summary.Low)
	}
	return nil
}
