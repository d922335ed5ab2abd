package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config holds the matching heuristic's tolerances and thresholds.
type Config struct {
	// AmountTolerance is the maximum difference, in currency units,
	// between a payment and an invoice's outstanding amount for the
	// invoice to be considered a candidate at all.
	AmountTolerance decimal.Decimal `json:"amount_tolerance"`

	// AmountDiffWeight scales the amount difference when scoring
	// candidates; the day difference is added unweighted.
	AmountDiffWeight float64 `json:"amount_diff_weight"`

	// MissingDueDateDayDiff is the sentinel day difference used when an
	// invoice has no due date, deprioritizing it without excluding it.
	MissingDueDateDayDiff int `json:"missing_due_date_day_diff"`

	// HighAmountDiff and HighDayDiff bound the high-confidence tier.
	HighAmountDiff decimal.Decimal `json:"high_amount_diff"`
	HighDayDiff    int             `json:"high_day_diff"`

	// MediumAmountDiff and MediumDayDiff bound the medium tier; anything
	// matched beyond them is low confidence.
	MediumAmountDiff decimal.Decimal `json:"medium_amount_diff"`
	MediumDayDiff    int             `json:"medium_day_diff"`
}

// DefaultConfig returns the standard tolerances: candidates within 5
// currency units, high confidence at ≤0.1 units and ≤3 days, medium at
// ≤1 unit and ≤7 days.
func DefaultConfig() *Config {
	return &Config{
		AmountTolerance:       decimal.NewFromInt(5),
		AmountDiffWeight:      10,
		MissingDueDateDayDiff: 999,
		HighAmountDiff:        decimal.NewFromFloat(0.1),
		HighDayDiff:           3,
		MediumAmountDiff:      decimal.NewFromInt(1),
		MediumDayDiff:         7,
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.AmountTolerance.IsNegative() {
		return fmt.Errorf("amount tolerance cannot be negative: %s", c.AmountTolerance)
	}
	if c.AmountDiffWeight <= 0 {
		return fmt.Errorf("amount diff weight must be positive: %f", c.AmountDiffWeight)
	}
	if c.MissingDueDateDayDiff <= 0 {
		return fmt.Errorf("missing due date day diff must be positive: %d", c.MissingDueDateDayDiff)
	}
	if c.HighAmountDiff.GreaterThan(c.MediumAmountDiff) {
		return fmt.Errorf("high amount diff %s exceeds medium %s", c.HighAmountDiff, c.MediumAmountDiff)
	}
	if c.HighDayDiff > c.MediumDayDiff {
		return fmt.Errorf("high day diff %d exceeds medium %d", c.HighDayDiff, c.MediumDayDiff)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
