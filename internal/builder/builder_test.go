package builder

import (
	"strings"
	"testing"

	"bankrecon/internal/models"

	"github.com/shopspring/decimal"
)

func testMapping() models.ColumnMapping {
	var m models.ColumnMapping
	m.Set(models.FieldDate, "Datum")
	m.Set(models.FieldDescription, "Text")
	m.Set(models.FieldAmount, "Belopp")
	return m
}

func TestBuild(t *testing.T) {
	headers := []string{"Datum", "Text", "Belopp", "Valuta"}
	rows := [][]string{
		{"2025-01-02", "Hyra januari", "-12 500,00", "SEK"},
		{"05/01/2025", "Kundinbetalning", "40000,00", "SEK"},
	}
	m := testMapping()
	m.Set(models.FieldCurrency, "Valuta")

	txs := Build(headers, rows, m)
	if len(txs) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(txs))
	}

	first := txs[0]
	if first.Date != "2025-01-02" {
		t.Errorf("Expected date 2025-01-02, got %s", first.Date)
	}
	if !first.Amount.Equal(decimal.NewFromFloat(-12500.00)) {
		t.Errorf("Expected amount -12500, got %s", first.Amount)
	}
	if first.Currency != "SEK" {
		t.Errorf("Expected currency SEK, got %s", first.Currency)
	}

	// Day-first date rewritten to canonical form.
	if txs[1].Date != "2025-01-05" {
		t.Errorf("Expected normalized date 2025-01-05, got %s", txs[1].Date)
	}
}

func TestBuild_RejectsRowsMissingRequiredValues(t *testing.T) {
	headers := []string{"Datum", "Text", "Belopp"}
	rows := [][]string{
		{"2025-01-02", "Valid", "-100"},
		{"", "Missing date", "-100"},
		{"2025-01-03", "", "-100"},
		{"2025-01-04", "Bad amount", "n/a"},
		{"Summa", ""}, // short trailing summary row
	}

	txs := Build(headers, rows, testMapping())
	if len(txs) != 1 {
		t.Fatalf("Expected 1 accepted transaction, got %d", len(txs))
	}
	if txs[0].Description != "Valid" {
		t.Errorf("Expected the valid row kept, got %q", txs[0].Description)
	}
}

func TestBuild_SplitInflowOutflowColumns(t *testing.T) {
	headers := []string{"Datum", "Text", "Insättning", "Uttag"}
	var m models.ColumnMapping
	m.Set(models.FieldDate, "Datum")
	m.Set(models.FieldDescription, "Text")
	m.Set(models.FieldInflow, "Insättning")
	m.Set(models.FieldOutflow, "Uttag")

	rows := [][]string{
		{"2025-01-02", "Inbetalning", "1000,00", ""},
		{"2025-01-03", "Betalning", "", "250,00"},
		{"2025-01-04", "Tom rad", "", ""},
	}

	txs := Build(headers, rows, m)
	if len(txs) != 2 {
		t.Fatalf("Expected 2 transactions (row with neither side dropped), got %d", len(txs))
	}
	if !txs[0].Amount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected +1000, got %s", txs[0].Amount)
	}
	if !txs[1].Amount.Equal(decimal.NewFromInt(-250)) {
		t.Errorf("Expected -250, got %s", txs[1].Amount)
	}
}

func TestBuild_RawSnapshotAndOrdering(t *testing.T) {
	headers := []string{"Datum", "Text", "Belopp"}
	rows := [][]string{
		{"2025-01-02", "Första", "-1"},
		{"2025-01-01", "Andra", "-2"},
	}

	txs := Build(headers, rows, testMapping())
	if len(txs) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(txs))
	}

	// Source order preserved even though dates are out of order.
	if txs[0].Description != "Första" || txs[1].Description != "Andra" {
		t.Error("Expected source row order preserved")
	}

	if txs[0].Raw["Belopp"] != "-1" {
		t.Errorf("Expected raw cell kept verbatim, got %q", txs[0].Raw["Belopp"])
	}
	if txs[0].Raw["Datum"] != "2025-01-02" {
		t.Errorf("Expected raw date cell, got %q", txs[0].Raw["Datum"])
	}
}

func TestBuild_SyntheticIDsAreUnique(t *testing.T) {
	headers := []string{"Datum", "Text", "Belopp"}
	rows := [][]string{
		{"2025-01-02", "Samma", "-1"},
		{"2025-01-02", "Samma", "-1"},
	}

	txs := Build(headers, rows, testMapping())
	if len(txs) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID == txs[1].ID {
		t.Errorf("Expected unique synthetic IDs, both were %s", txs[0].ID)
	}
	if !strings.HasPrefix(txs[0].ID, "row-0-") || !strings.HasPrefix(txs[1].ID, "row-1-") {
		t.Errorf("Expected row-index prefixes, got %s / %s", txs[0].ID, txs[1].ID)
	}
}
