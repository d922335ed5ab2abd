// Package parsers splits raw bank statement text into rows. Bank exports
// have no fixed schema: the delimiter is auto-detected from the header line
// and fields may be double-quoted. Column semantics are resolved later by
// the banks and mapping packages.
package parsers

import (
	"strings"

	"bankrecon/pkg/errors"
)

// MaxPreviewRows is the number of data rows kept for display previews.
const MaxPreviewRows = 12

// Delimiters considered during detection, in tie-break order: semicolon
// wins ties, tab only when it strictly dominates.
var candidateDelimiters = []rune{';', ',', '\t'}

// ParsedStatement is the result of splitting a statement file.
type ParsedStatement struct {
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"` // first MaxPreviewRows data rows
	AllRows   [][]string `json:"-"`
	Delimiter rune       `json:"-"`
	TotalRows int        `json:"totalRows"` // data rows, header excluded
}

// ParseStatement splits raw statement text into a header row and data rows.
// It strips a UTF-8 byte order mark, drops empty lines, detects the
// delimiter from the header line and honors double-quoted fields. An empty
// or whitespace-only input yields a blocking parse failure.
func ParseStatement(text string) (*ParsedStatement, error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, errors.NewParseFailure("the file contains no data")
	}

	delimiter := DetectDelimiter(lines[0])
	headers := splitFields(lines[0], delimiter)

	allRows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		allRows = append(allRows, splitFields(line, delimiter))
	}

	preview := allRows
	if len(preview) > MaxPreviewRows {
		preview = preview[:MaxPreviewRows]
	}

	return &ParsedStatement{
		Headers:   headers,
		Rows:      preview,
		AllRows:   allRows,
		Delimiter: delimiter,
		TotalRows: len(allRows),
	}, nil
}

// DetectDelimiter counts candidate delimiters in the header line and picks
// the most frequent one. Ties default to semicolon; tab is chosen only when
// it strictly dominates both other candidates, so a comma-tab tie above
// semicolon resolves to comma.
func DetectDelimiter(headerLine string) rune {
	best := ';'
	bestCount := strings.Count(headerLine, ";")

	for _, d := range candidateDelimiters[1:] {
		count := strings.Count(headerLine, string(d))
		if count > bestCount {
			best = d
			bestCount = count
		}
	}

	return best
}

// splitLines breaks text on \r\n or \n and drops empty and
// whitespace-only lines.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitFields splits one line on the delimiter, honoring double-quoted
// fields. Inside quotes the delimiter is literal and a doubled quote emits
// one quote character. Every field is trimmed.
func splitFields(line string, delimiter rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}
