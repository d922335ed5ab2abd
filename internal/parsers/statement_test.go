package parsers

import (
	"strings"
	"testing"

	"bankrecon/pkg/errors"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   rune
	}{
		{"semicolons", "a;b;c", ';'},
		{"commas", "a,b,c", ','},
		{"tabs dominate", "a\tb\tc,d", '\t'},
		{"tie defaults to semicolon", "a;b,c", ';'},
		{"tab tie loses", "a;b\tc", ';'},
		{"no delimiter at all", "justoneheader", ';'},
		{"commas beat semicolons", "a,b,c;d", ','},
		{"comma tab tie resolves to comma", "a,b\tc,d\te", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter(tt.header); got != tt.want {
				t.Errorf("DetectDelimiter(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseStatement(t *testing.T) {
	text := "Datum;Text;Belopp\n2025-01-02;Hyra januari;-12500,00\n2025-01-05;Kundinbetalning;40000,00\n"

	stmt, err := ParseStatement(text)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}

	if stmt.Delimiter != ';' {
		t.Errorf("Expected delimiter ';', got %q", stmt.Delimiter)
	}
	if len(stmt.Headers) != 3 || stmt.Headers[1] != "Text" {
		t.Errorf("Unexpected headers: %v", stmt.Headers)
	}
	if stmt.TotalRows != 2 {
		t.Errorf("Expected 2 data rows, got %d", stmt.TotalRows)
	}
	if stmt.AllRows[0][2] != "-12500,00" {
		t.Errorf("Unexpected first row: %v", stmt.AllRows[0])
	}
}

func TestParseStatement_StripsByteOrderMark(t *testing.T) {
	text := "\uFEFFDatum;Belopp\n2025-01-02;-100\n"

	stmt, err := ParseStatement(text)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	if stmt.Headers[0] != "Datum" {
		t.Errorf("Expected BOM stripped from first header, got %q", stmt.Headers[0])
	}
}

func TestParseStatement_QuotedFields(t *testing.T) {
	text := "Date,Description,Amount\n2025-01-02,\"Rent, January\",-12500\n2025-01-03,\"Says \"\"hello\"\"\",-10\n"

	stmt, err := ParseStatement(text)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}

	if stmt.AllRows[0][1] != "Rent, January" {
		t.Errorf("Expected quoted delimiter preserved, got %q", stmt.AllRows[0][1])
	}
	if stmt.AllRows[1][1] != `Says "hello"` {
		t.Errorf("Expected escaped quotes collapsed, got %q", stmt.AllRows[1][1])
	}
}

func TestParseStatement_SkipsEmptyLines(t *testing.T) {
	text := "a;b\r\n1;2\r\n\r\n   \r\n3;4\r\n"

	stmt, err := ParseStatement(text)
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	if stmt.TotalRows != 2 {
		t.Errorf("Expected 2 data rows, got %d", stmt.TotalRows)
	}
}

func TestParseStatement_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\n  "} {
		_, err := ParseStatement(text)
		if err == nil {
			t.Fatalf("Expected parse failure for input %q", text)
		}
		if !errors.IsCategory(err, errors.CategoryParse) {
			t.Errorf("Expected parse category, got %v", err)
		}
	}
}

func TestParseStatement_PreviewCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("a;b\n")
	for i := 0; i < 20; i++ {
		sb.WriteString("1;2\n")
	}

	stmt, err := ParseStatement(sb.String())
	if err != nil {
		t.Fatalf("ParseStatement failed: %v", err)
	}
	if len(stmt.Rows) != MaxPreviewRows {
		t.Errorf("Expected preview capped at %d rows, got %d", MaxPreviewRows, len(stmt.Rows))
	}
	if stmt.TotalRows != 20 {
		t.Errorf("Expected all 20 rows counted, got %d", stmt.TotalRows)
	}
}
