package cmd

import (
	"fmt"
	"os"

	"bankrecon/pkg/errors"
	"bankrecon/pkg/logger"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Exit codes by error category, so scripts can branch on the failure kind.
const (
	exitOK          = 0
	exitGeneric     = 1
	exitParse       = 2
	exitMapping     = 3
	exitMatching    = 4
	exitPersistence = 5
	exitValidation  = 6
)

// CLIErrorHandler turns pipeline errors into actionable terminal output.
type CLIErrorHandler struct {
	logger  logger.Logger
	verbose bool
}

// NewCLIErrorHandler creates a CLI error handler.
func NewCLIErrorHandler(log logger.Logger) *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  log.WithComponent("cli"),
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError prints a user-facing message for the error and returns the
// process exit code.
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return exitOK
	}

	h.logger.WithError(err).Error("Command failed")

	var appErr *errors.Error
	if pkgerrors.As(err, &appErr) {
		return h.handleAppError(appErr)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitGeneric
}

func (h *CLIErrorHandler) handleAppError(err *errors.Error) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.UserMessage())

	if help := categoryHelp(err.Category); help != "" {
		fmt.Fprintf(os.Stderr, "%s\n", help)
	}

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(os.Stderr, "\nUnderlying error: %v\n", err.Cause)
	}

	switch err.Category {
	case errors.CategoryParse:
		return exitParse
	case errors.CategoryMapping:
		return exitMapping
	case errors.CategoryMatching:
		return exitMatching
	case errors.CategoryPersistence:
		return exitPersistence
	case errors.CategoryValidation:
		return exitValidation
	default:
		return exitGeneric
	}
}

func categoryHelp(category errors.Category) string {
	switch category {
	case errors.CategoryParse:
		return "Check that the file is a CSV export from your bank, not a PDF or Excel file."
	case errors.CategoryMapping:
		return "Use --map field=Header to assign the missing columns, e.g. --map date=Bokföringsdag."
	case errors.CategoryMatching:
		return "The invoice source could not be read; matching was not performed."
	case errors.CategoryPersistence:
		return "The database could not be updated. Verify --database-url and retry."
	default:
		return ""
	}
}
