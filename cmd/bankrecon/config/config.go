// Package config translates CLI flags into the configurations the
// pipeline packages expect.
package config

import (
	"fmt"
	"strings"

	"bankrecon/internal/matcher"
	"bankrecon/internal/models"
	"bankrecon/internal/report"

	"github.com/shopspring/decimal"
)

// CreateMatcherConfig creates a matcher configuration with CLI overrides
// applied. A zero tolerance keeps the default.
func CreateMatcherConfig(amountTolerance float64, highDays, mediumDays int) (*matcher.Config, error) {
	config := matcher.DefaultConfig()

	if amountTolerance > 0 {
		config.AmountTolerance = decimal.NewFromFloat(amountTolerance)
	}
	if highDays > 0 {
		config.HighDayDiff = highDays
	}
	if mediumDays > 0 {
		config.MediumDayDiff = mediumDays
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching configuration: %w", err)
	}
	return config, nil
}

// CreateReportConfig creates a report configuration for the requested
// output format.
func CreateReportConfig(format string, includeMatched bool) (*report.Config, error) {
	config := report.DefaultConfig()
	config.Format = report.Format(format)
	config.IncludeMatched = includeMatched

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyMappingOverrides applies "field=Header" pairs from the CLI onto a
// suggested mapping. Field names match the semantic field identifiers:
// date, description, amount, inflow, outflow, counterparty, reference,
// ocr, currency, account.
func ApplyMappingOverrides(m *models.ColumnMapping, overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid mapping override %q, expected field=Header", override)
		}

		field := models.Field(strings.ToLower(strings.TrimSpace(parts[0])))
		if !field.IsValid() {
			return fmt.Errorf("unknown field %q in mapping override, valid fields: %s",
				parts[0], fieldNames())
		}

		m.Set(field, strings.TrimSpace(parts[1]))
	}
	return nil
}

func fieldNames() string {
	names := make([]string, len(models.AllFields))
	for i, f := range models.AllFields {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
