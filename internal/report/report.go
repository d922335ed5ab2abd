// Package report renders matching results and period summaries for
// terminal display or programmatic consumption.
//
// Supported output formats:
//   - Console: human-readable tabular output
//   - JSON: structured data for other tools
//   - CSV: spreadsheet-friendly rows
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"bankrecon/internal/models"
	"bankrecon/internal/recon"
)

// Format represents the supported report output formats.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
)

// IsValid checks if the output format is supported.
func (f Format) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// Config holds report rendering options.
type Config struct {
	Format Format `json:"format"`

	// IncludeMatched controls whether matched transactions are listed in
	// full; summaries always count them.
	IncludeMatched bool `json:"include_matched"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultConfig returns the default report configuration.
func DefaultConfig() *Config {
	return &Config{
		Format:         FormatConsole,
		IncludeMatched: true,
		CSVDelimiter:   ',',
		CSVHeaders:     true,
	}
}

// Validate validates the report configuration.
func (c *Config) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	return nil
}

// Generator renders reports in the configured format.
type Generator struct {
	config *Config
}

// NewGenerator creates a report generator. A nil config uses defaults.
func NewGenerator(config *Config) (*Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	return &Generator{config: config}, nil
}

// MatchSummary aggregates one matching run for the report header.
type MatchSummary struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
}

// Summarize counts results by outcome and confidence tier.
func Summarize(results []*models.MatchResult) *MatchSummary {
	summary := &MatchSummary{Total: len(results)}
	for _, r := range results {
		if !r.Matched() {
			summary.Unmatched++
			continue
		}
		summary.Matched++
		switch r.Confidence {
		case models.ConfidenceHigh:
			summary.High++
		case models.ConfidenceMedium:
			summary.Medium++
		case models.ConfidenceLow:
			summary.Low++
		}
	}
	return summary
}

// WriteMatchReport renders a matching run to the writer.
func (g *Generator) WriteMatchReport(results []*models.MatchResult, w io.Writer) error {
	switch g.config.Format {
	case FormatConsole:
		return g.matchConsole(results, w)
	case FormatJSON:
		return g.matchJSON(results, w)
	case FormatCSV:
		return g.matchCSV(results, w)
	default:
		return fmt.Errorf("unsupported output format: %s", g.config.Format)
	}
}

func (g *Generator) matchConsole(results []*models.MatchResult, w io.Writer) error {
	summary := Summarize(results)

	fmt.Fprintf(w, "MATCHING REPORT\n")
	fmt.Fprintf(w, "Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	fmt.Fprintf(w, "=== SUMMARY ===\n")
	fmt.Fprintf(w, "Transactions: %d\n", summary.Total)
	fmt.Fprintf(w, "  Matched:    %d (%.1f%%)\n", summary.Matched, percentage(summary.Matched, summary.Total))
	fmt.Fprintf(w, "  Unmatched:  %d (%.1f%%)\n\n", summary.Unmatched, percentage(summary.Unmatched, summary.Total))

	fmt.Fprintf(w, "=== CONFIDENCE BREAKDOWN ===\n")
	fmt.Fprintf(w, "High:   %d\n", summary.High)
	fmt.Fprintf(w, "Medium: %d\n", summary.Medium)
	fmt.Fprintf(w, "Low:    %d\n\n", summary.Low)

	if g.config.IncludeMatched && summary.Matched > 0 {
		fmt.Fprintf(w, "=== MATCHED ===\n")
		for _, r := range results {
			if !r.Matched() {
				continue
			}
			fmt.Fprintf(w, "  %s  %12s  %-30s -> invoice %s (%s)\n",
				r.Transaction.Date,
				r.Transaction.Amount.StringFixed(2),
				truncate(r.Transaction.Description, 30),
				r.Invoice.Number,
				r.Confidence)
		}
		fmt.Fprintf(w, "\n")
	}

	if summary.Unmatched > 0 {
		fmt.Fprintf(w, "=== UNMATCHED ===\n")
		for _, r := range results {
			if r.Matched() {
				continue
			}
			fmt.Fprintf(w, "  %s  %12s  %-30s  %s\n",
				r.Transaction.Date,
				r.Transaction.Amount.StringFixed(2),
				truncate(r.Transaction.Description, 30),
				r.Note)
		}
	}
	return nil
}

func (g *Generator) matchJSON(results []*models.MatchResult, w io.Writer) error {
	output := map[string]interface{}{
		"summary": Summarize(results),
		"results": results,
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func (g *Generator) matchCSV(results []*models.MatchResult, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = g.config.CSVDelimiter
	defer cw.Flush()

	if g.config.CSVHeaders {
		headers := []string{"Date", "Description", "Amount", "Invoice", "Confidence", "Note"}
		if err := cw.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, r := range results {
		if r.Matched() && !g.config.IncludeMatched {
			continue
		}
		invoice := ""
		if r.Invoice != nil {
			invoice = r.Invoice.Number
		}
		record := []string{
			r.Transaction.Date,
			r.Transaction.Description,
			r.Transaction.Amount.StringFixed(2),
			invoice,
			string(r.Confidence),
			r.Note,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write match record: %w", err)
		}
	}
	return cw.Error()
}

// WritePeriodReport renders period summaries to the writer.
func (g *Generator) WritePeriodReport(summaries []*recon.PeriodSummary, w io.Writer) error {
	switch g.config.Format {
	case FormatConsole:
		return g.periodConsole(summaries, w)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summaries)
	case FormatCSV:
		return g.periodCSV(summaries, w)
	default:
		return fmt.Errorf("unsupported output format: %s", g.config.Format)
	}
}

func (g *Generator) periodConsole(summaries []*recon.PeriodSummary, w io.Writer) error {
	fmt.Fprintf(w, "RECONCILIATION PERIODS\n\n")
	fmt.Fprintf(w, "%-9s %-11s %6s %14s %14s %14s\n", "Period", "Status", "Count", "Inflow", "Outflow", "Net")
	for _, s := range summaries {
		status := string(s.Status)
		if s.Closed {
			status += " *"
		}
		fmt.Fprintf(w, "%-9s %-11s %6d %14s %14s %14s\n",
			s.Period,
			status,
			s.TransactionCount,
			s.Inflow.StringFixed(2),
			s.Outflow.StringFixed(2),
			s.Net.StringFixed(2))
	}
	fmt.Fprintf(w, "\n* closed period\n")
	return nil
}

func (g *Generator) periodCSV(summaries []*recon.PeriodSummary, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = g.config.CSVDelimiter
	defer cw.Flush()

	if g.config.CSVHeaders {
		headers := []string{"Period", "Status", "Closed", "Count", "Inflow", "Outflow", "Net"}
		if err := cw.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, s := range summaries {
		record := []string{
			s.Period,
			string(s.Status),
			strconv.FormatBool(s.Closed),
			strconv.Itoa(s.TransactionCount),
			s.Inflow.StringFixed(2),
			s.Outflow.StringFixed(2),
			s.Net.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write period record: %w", err)
		}
	}
	return cw.Error()
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
