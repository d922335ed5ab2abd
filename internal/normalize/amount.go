// Package normalize converts raw statement cell values into canonical
// amounts and dates. Bank exports mix locales freely, so both the Swedish
// convention (1 234,56) and the Anglo convention (1,234.56) are handled,
// along with parenthesis and sign negatives.
package normalize

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoValue is returned when a cell is empty or cannot be interpreted.
// Rows failing required-field normalization are silently discarded by the
// builder, so this is a control-flow signal rather than a surfaced error.
var ErrNoValue = errors.New("no value")

// ParseAmount parses a locale-ambiguous amount string into a decimal.
//
// Rules, in order: spaces (ordinary and non-breaking) are stripped; a
// parenthesized value or leading minus marks the amount negative; when both
// comma and period appear, the separator occurring last is the decimal
// point and the other is a thousands separator; a lone comma is a decimal
// point.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrNoValue
	}

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	lastComma := strings.LastIndex(s, ",")
	lastPeriod := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastPeriod >= 0:
		if lastComma > lastPeriod {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNoValue
	}

	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
