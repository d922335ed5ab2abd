package cmd

import (
	"context"
	"fmt"
	"os"

	"bankrecon/internal/store"
	"bankrecon/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	company string
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bankrecon",
	Short: "Bank statement import and invoice reconciliation tool",
	Long: `Bankrecon imports bank statement exports, detects the source bank,
maps columns to semantic fields and matches payments against open
supplier invoices. It also tracks the reconciliation status of each
calendar month.

Examples:
  bankrecon inspect statement.csv
  bankrecon match statement.csv invoices.csv --output-format json
  bankrecon import statement.csv --database-url postgres://localhost/bankrecon
  bankrecon periods --database-url postgres://localhost/bankrecon --toggle 2025-01`,
	Version: getVersionString(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&company, "company", "c", "default", "company identifier for stored data")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string (in-memory store when empty)")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("company", rootCmd.PersistentFlags().Lookup("company"))
	viper.BindPFlag("database-url", rootCmd.PersistentFlags().Lookup("database-url"))
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)

		// If a config file is specified, read it in.
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}

		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}

	// Read environment variables that match
	viper.SetEnvPrefix("BANKRECON")
	viper.AutomaticEnv()
}

// newLogger creates the CLI logger honoring the verbose flag.
func newLogger() logger.Logger {
	config := logger.DefaultConfig()
	if viper.GetBool("verbose") {
		config.Level = logger.DebugLevel
	}
	return logger.New(config)
}

// openStore connects to PostgreSQL when a connection string is configured
// and falls back to an ephemeral in-memory store otherwise. The returned
// cleanup function is safe to defer in either case.
func openStore(ctx context.Context) (store.Store, func(), error) {
	connString := viper.GetString("database-url")
	if connString == "" {
		return store.NewMemoryStore(), func() {}, nil
	}

	pg, err := store.ConnectPostgres(ctx, connString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("failed to prepare database schema: %w", err)
	}
	return pg, pg.Close, nil
}

// requireDatabase returns an error when no persistent store is configured;
// used by commands whose output would be meaningless against an empty
// in-memory store.
func requireDatabase() error {
	if viper.GetString("database-url") == "" {
		return fmt.Errorf("this command requires --database-url (or BANKRECON_DATABASE_URL)")
	}
	return nil
}

func readInputFile(path, description string) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%s does not exist: %s", description, path)
	}
	if err != nil {
		return "", fmt.Errorf("error accessing %s: %w", description, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, expected a file: %s", description, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s is not readable: %w", description, err)
	}
	return string(data), nil
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
