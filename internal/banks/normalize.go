package banks

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var headerNormalizer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeHeader canonicalizes a statement header for synonym and
// fingerprint comparison: lowercase, diacritics stripped, everything
// non-alphanumeric removed ("Bokföringsdag" → "bokforingsdag").
func NormalizeHeader(header string) string {
	stripped, _, err := transform.String(headerNormalizer, header)
	if err != nil {
		stripped = header
	}

	var sb strings.Builder
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// NormalizeHeaders normalizes a full header row.
func NormalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	return normalized
}
