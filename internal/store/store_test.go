package store

import (
	"context"
	"testing"
	"time"

	"bankrecon/internal/models"

	"github.com/shopspring/decimal"
)

func testImport(id string) *models.BankImport {
	return &models.BankImport{
		ID:         id,
		CompanyID:  "co-1",
		Filename:   "statement.csv",
		ImportedAt: time.Now().UTC(),
		RowCount:   1,
		Transactions: []*models.BankTransaction{
			{ID: id + "-tx", Date: "2025-01-02", Description: "Hyra", Amount: decimal.NewFromInt(-100)},
		},
	}
}

func TestMemoryStore_ImportsAppendOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.ImportBankTransactions(ctx, "co-1", testImport("imp-1")); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if err := s.ImportBankTransactions(ctx, "co-1", testImport("imp-2")); err != nil {
		t.Fatalf("Second import failed: %v", err)
	}
	if err := s.ImportBankTransactions(ctx, "co-1", testImport("imp-1")); err == nil {
		t.Error("Expected duplicate import ID to fail")
	}

	imports, err := s.ListBankTransactions(ctx, "co-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(imports) != 2 {
		t.Fatalf("Expected 2 imports, got %d", len(imports))
	}
	if imports[0].ID != "imp-1" || imports[1].ID != "imp-2" {
		t.Errorf("Expected insertion order, got %s, %s", imports[0].ID, imports[1].ID)
	}

	other, _ := s.ListBankTransactions(ctx, "co-2")
	if len(other) != 0 {
		t.Errorf("Expected company scoping, got %d imports", len(other))
	}
}

func TestMemoryStore_StatusUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.SetReconciliationStatus(ctx, "co-1", "2025-01", models.PeriodReconciled, ""); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	// Upsert of the same period replaces, never duplicates.
	if err := s.SetReconciliationStatus(ctx, "co-1", "2025-01", models.PeriodOpen, "reopened"); err != nil {
		t.Fatalf("Second set failed: %v", err)
	}

	records, err := s.ListReconciliationStatuses(ctx, "co-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record after upsert, got %d", len(records))
	}
	if records[0].Status != models.PeriodOpen || records[0].Notes != "reopened" {
		t.Errorf("Unexpected record: %+v", records[0])
	}
}

func TestMemoryStore_RejectsInvalidPeriod(t *testing.T) {
	s := NewMemoryStore()
	if err := s.SetReconciliationStatus(context.Background(), "co-1", "january", models.PeriodOpen, ""); err == nil {
		t.Error("Expected invalid period key to fail")
	}
}

func TestNewCSVLedger(t *testing.T) {
	text := "Number;Counterparty;Due date;Total;Balance;Booked\n" +
		"INV-1;1001;2025-03-06;1250,00;1250,00;no\n" +
		"INV-2;1002;2025-03-10;900,00;0,00;yes\n" + // settled and booked: filtered
		"INV-3;1003;;500,00;250,00;yes\n" + // partially paid: kept
		";;;;;\n" // blank row: skipped

	ledger, err := NewCSVLedger(text)
	if err != nil {
		t.Fatalf("NewCSVLedger failed: %v", err)
	}

	invoices, err := ledger.ListOpenInvoices(context.Background(), "co-1")
	if err != nil {
		t.Fatalf("ListOpenInvoices failed: %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("Expected 2 open invoices, got %d", len(invoices))
	}

	first := invoices[0]
	if first.Number != "INV-1" || first.DueDate != "2025-03-06" {
		t.Errorf("Unexpected first invoice: %+v", first)
	}
	if !first.Total.Equal(decimal.NewFromInt(1250)) {
		t.Errorf("Expected total 1250, got %s", first.Total)
	}

	partial := invoices[1]
	if partial.Number != "INV-3" || !partial.Booked {
		t.Errorf("Expected partially-paid booked invoice kept, got %+v", partial)
	}
	if partial.DueDate != "" {
		t.Errorf("Expected empty due date preserved, got %q", partial.DueDate)
	}
}

func TestNewCSVLedger_MissingColumns(t *testing.T) {
	if _, err := NewCSVLedger("Foo;Bar\n1;2\n"); err == nil {
		t.Error("Expected error for export without number/total columns")
	}
}
