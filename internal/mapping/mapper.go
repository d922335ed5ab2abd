// Package mapping suggests which statement column feeds each semantic
// field, using the detected bank profile's synonym table. The suggestion is
// advisory: callers may override any field before committing, and must
// re-check MissingRequired after every change.
package mapping

import (
	"bankrecon/internal/banks"
	"bankrecon/internal/models"
)

// Suggest builds a column mapping for the given header row. For each
// semantic field the first header whose normalized form exactly equals one
// of the field's synonyms is chosen; the original header string is
// recorded. When profile is nil the union of all profiles' synonyms is
// used. A single signed amount column takes precedence: finding one clears
// any inflow/outflow suggestion.
func Suggest(headers []string, profile *banks.Profile) models.ColumnMapping {
	synonyms := banks.FieldSynonyms(profile)
	normalized := banks.NormalizeHeaders(headers)

	var mapping models.ColumnMapping
	for _, field := range models.AllFields {
		// Amount last, so its Set clears any inflow/outflow hit.
		if field == models.FieldAmount {
			continue
		}
		if header, ok := findHeader(headers, normalized, synonyms[field]); ok {
			mapping.Set(field, header)
		}
	}
	if header, ok := findHeader(headers, normalized, synonyms[models.FieldAmount]); ok {
		mapping.Set(models.FieldAmount, header)
	}

	return mapping
}

func findHeader(headers, normalized, synonyms []string) (string, bool) {
	for i, header := range normalized {
		for _, synonym := range synonyms {
			if header == synonym {
				return headers[i], true
			}
		}
	}
	return "", false
}

// ColumnIndex resolves a mapped header back to its column position, or -1
// when the header is not present in the row.
func ColumnIndex(headers []string, header string) int {
	if header == "" {
		return -1
	}
	for i, h := range headers {
		if h == header {
			return i
		}
	}
	return -1
}
