package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bankrecon/cmd/bankrecon/config"
	"bankrecon/internal/ingest"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var importMapOverrides []string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <statement.csv>",
	Short: "Parse a bank statement and save its transactions to the database",
	Long: `Import parses a bank statement export and saves the normalized
transactions as a new import for the configured company. Rows that
cannot be normalized are skipped; the import records how many source
rows the file contained.

A database connection is required since an in-memory import would be
lost when the command exits.

Examples:
  bankrecon import statement.csv --database-url postgres://localhost/bankrecon
  bankrecon import statement.csv --database-url ... --map description=Text`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return requireDatabase()
	},
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVar(&importMapOverrides, "map", nil, "mapping override as field=Header (repeatable)")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := newLogger()
	handler := NewCLIErrorHandler(log)

	text, err := readInputFile(args[0], "statement file")
	if err != nil {
		return err
	}

	st, cleanup, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := ingest.NewService(st, nil, nil, log)
	preview, err := svc.Preview(text)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	if len(importMapOverrides) > 0 {
		if err := config.ApplyMappingOverrides(&preview.Mapping, importMapOverrides); err != nil {
			return err
		}
		preview.Rebuild()
	}

	companyID := viper.GetString("company")
	imp, imports, err := svc.Commit(ctx, companyID, filepath.Base(args[0]), preview.Statement, preview.Mapping)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	fmt.Printf("Imported %s: %d of %d rows accepted (import %s).\n",
		imp.Filename, len(imp.Transactions), imp.RowCount, imp.ID)
	fmt.Printf("Company %s now has %d imports.\n", companyID, len(imports))
	return nil
}
