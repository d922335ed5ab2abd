package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const canonicalDateLayout = "2006-01-02"

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDatePattern = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{4})$`)
)

// Fallback layouts for dates that are neither ISO nor day-first. Ordered
// from most to least specific.
var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"20060102",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// NormalizeDate canonicalizes a statement date cell to YYYY-MM-DD.
// ISO dates pass through unchanged, day/month/year variants with ., / or -
// separators are rewritten, and anything else goes through a generic parse.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrNoValue
	}

	if isoDatePattern.MatchString(s) {
		return s, nil
	}

	if m := dmyDatePattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return "", ErrNoValue
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDateLayout), nil
		}
	}

	return "", ErrNoValue
}

// ParseCanonicalDate parses a canonical YYYY-MM-DD string into a time.
func ParseCanonicalDate(date string) (time.Time, error) {
	return time.Parse(canonicalDateLayout, date)
}

// DaysBetween returns the absolute whole-day difference between two
// canonical dates.
func DaysBetween(a, b time.Time) int {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}
