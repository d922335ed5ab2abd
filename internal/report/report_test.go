package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"bankrecon/internal/models"
	"bankrecon/internal/recon"

	"github.com/shopspring/decimal"
)

func sampleResults() []*models.MatchResult {
	return []*models.MatchResult{
		{
			Transaction: &models.BankTransaction{Date: "2025-03-04", Description: "Faktura 1042", Amount: decimal.NewFromInt(-1250)},
			Invoice:     &models.InvoiceSummary{Number: "1042", Total: decimal.NewFromInt(1250)},
			Confidence:  models.ConfidenceHigh,
		},
		{
			Transaction: &models.BankTransaction{Date: "2025-03-05", Description: "Kundinbetalning", Amount: decimal.NewFromInt(40000)},
			Note:        "inflow, not a supplier payment",
		},
		{
			Transaction: &models.BankTransaction{Date: "2025-03-06", Description: "Hyra mars", Amount: decimal.NewFromInt(-9000)},
			Note:        "no match found",
		},
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleResults())

	if summary.Total != 3 || summary.Matched != 1 || summary.Unmatched != 2 {
		t.Errorf("Unexpected summary counts: %+v", summary)
	}
	if summary.High != 1 || summary.Medium != 0 || summary.Low != 0 {
		t.Errorf("Unexpected confidence counts: %+v", summary)
	}
}

func TestConfigValidate(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	config.Format = "xml"
	if err := config.Validate(); err == nil {
		t.Error("Expected invalid format to fail validation")
	}
	if _, err := NewGenerator(config); err == nil {
		t.Error("Expected generator creation to fail with invalid config")
	}
}

func TestWriteMatchReport_Console(t *testing.T) {
	g, err := NewGenerator(nil)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := g.WriteMatchReport(sampleResults(), &buf); err != nil {
		t.Fatalf("WriteMatchReport failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Matched:    1",
		"Unmatched:  2",
		"invoice 1042 (high)",
		"inflow, not a supplier payment",
		"no match found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected console output to contain %q\n%s", want, out)
		}
	}
}

func TestWriteMatchReport_JSON(t *testing.T) {
	g, err := NewGenerator(&Config{Format: FormatJSON})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := g.WriteMatchReport(sampleResults(), &buf); err != nil {
		t.Fatalf("WriteMatchReport failed: %v", err)
	}

	var decoded struct {
		Summary MatchSummary      `json:"summary"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Summary.Total != 3 || len(decoded.Results) != 3 {
		t.Errorf("Unexpected JSON payload: %+v", decoded.Summary)
	}
}

func TestWriteMatchReport_CSV(t *testing.T) {
	g, err := NewGenerator(&Config{Format: FormatCSV, IncludeMatched: true, CSVDelimiter: ';', CSVHeaders: true})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := g.WriteMatchReport(sampleResults(), &buf); err != nil {
		t.Fatalf("WriteMatchReport failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header + 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date;Description;Amount;Invoice;Confidence;Note" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "1042") || !strings.Contains(lines[1], "high") {
		t.Errorf("Unexpected first row: %s", lines[1])
	}
}

func TestWritePeriodReport(t *testing.T) {
	summaries := []*recon.PeriodSummary{
		{
			Period:           "2025-01",
			Status:           models.PeriodReconciled,
			Closed:           true,
			TransactionCount: 2,
			Net:              decimal.NewFromInt(800),
			Inflow:           decimal.NewFromInt(1000),
			Outflow:          decimal.NewFromInt(200),
		},
		{
			Period:           "2024-12",
			Status:           models.PeriodOpen,
			TransactionCount: 1,
			Net:              decimal.NewFromInt(-75),
			Inflow:           decimal.Zero,
			Outflow:          decimal.NewFromInt(75),
		},
	}

	g, err := NewGenerator(nil)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := g.WritePeriodReport(summaries, &buf); err != nil {
		t.Fatalf("WritePeriodReport failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "2025-01") || !strings.Contains(out, "reconciled *") {
		t.Errorf("Expected closed period marker in output:\n%s", out)
	}
	if !strings.Contains(out, "800.00") || !strings.Contains(out, "-75.00") {
		t.Errorf("Expected net amounts in output:\n%s", out)
	}
}
