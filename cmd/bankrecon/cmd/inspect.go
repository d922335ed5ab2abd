package cmd

import (
	"fmt"
	"os"

	"bankrecon/cmd/bankrecon/config"
	"bankrecon/internal/ingest"
	"bankrecon/internal/models"
	"bankrecon/internal/store"

	"github.com/spf13/cobra"
)

var inspectMapOverrides []string

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <statement.csv>",
	Short: "Parse a bank statement and show the detected bank and column mapping",
	Long: `Inspect parses a bank statement export without saving anything. It
shows the detected delimiter and bank, the suggested column mapping,
any required fields that could not be mapped, and a preview of the
transactions the mapping yields.

Examples:
  bankrecon inspect statement.csv
  bankrecon inspect statement.csv --map date=Datum --map description=Text`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringArrayVar(&inspectMapOverrides, "map", nil, "mapping override as field=Header (repeatable)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	log := newLogger()
	handler := NewCLIErrorHandler(log)

	text, err := readInputFile(args[0], "statement file")
	if err != nil {
		return err
	}

	svc := ingest.NewService(store.NewMemoryStore(), nil, nil, log)
	preview, err := svc.Preview(text)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	if len(inspectMapOverrides) > 0 {
		if err := config.ApplyMappingOverrides(&preview.Mapping, inspectMapOverrides); err != nil {
			return err
		}
		preview.Rebuild()
	}

	printPreview(preview)
	return nil
}

func printPreview(preview *ingest.ImportPreview) {
	fmt.Printf("Delimiter: %q\n", preview.Statement.Delimiter)
	if preview.Profile != nil {
		fmt.Printf("Bank:      %s\n", preview.Profile.Name)
	} else {
		fmt.Printf("Bank:      not recognized (generic column names used)\n")
	}
	fmt.Printf("Rows:      %d\n\n", preview.Statement.TotalRows)

	fmt.Println("Column mapping:")
	for _, field := range models.AllFields {
		header := preview.Mapping.Get(field)
		if header == "" {
			continue
		}
		fmt.Printf("  %-13s <- %s\n", field.Label(), header)
	}

	if len(preview.MissingFields) > 0 {
		fmt.Printf("\nMissing required fields: %v\n", preview.MissingFields)
		fmt.Println("Assign them with --map field=Header.")
		return
	}

	fmt.Printf("\nAccepted transactions: %d of %d rows\n", len(preview.Transactions), preview.Statement.TotalRows)
	limit := len(preview.Transactions)
	if limit > 10 {
		limit = 10
	}
	for _, tx := range preview.Transactions[:limit] {
		fmt.Printf("  %s  %12s  %s\n", tx.Date, tx.Amount.StringFixed(2), tx.Description)
	}
	if len(preview.Transactions) > limit {
		fmt.Printf("  ... and %d more\n", len(preview.Transactions)-limit)
	}
}
