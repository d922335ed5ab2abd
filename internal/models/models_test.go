package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestColumnMapping_SetAmountClearsSplitColumns(t *testing.T) {
	m := &ColumnMapping{}
	m.Set(FieldInflow, "Insättning")
	m.Set(FieldOutflow, "Uttag")
	m.Set(FieldAmount, "Belopp")

	if m.Amount != "Belopp" {
		t.Errorf("Expected amount mapping to be 'Belopp', got %q", m.Amount)
	}
	if m.Inflow != "" || m.Outflow != "" {
		t.Errorf("Expected inflow/outflow cleared, got %q/%q", m.Inflow, m.Outflow)
	}
}

func TestColumnMapping_SetSplitColumnClearsAmount(t *testing.T) {
	m := &ColumnMapping{}
	m.Set(FieldAmount, "Belopp")
	m.Set(FieldInflow, "Insättning")

	if m.Amount != "" {
		t.Errorf("Expected amount cleared after mapping inflow, got %q", m.Amount)
	}
	if m.Inflow != "Insättning" {
		t.Errorf("Expected inflow mapping kept, got %q", m.Inflow)
	}
}

func TestColumnMapping_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m *ColumnMapping)
		missing []string
	}{
		{
			name:    "empty mapping",
			setup:   func(m *ColumnMapping) {},
			missing: []string{"Date", "Description", "Amount (or Inflow/Outflow)"},
		},
		{
			name: "complete with amount",
			setup: func(m *ColumnMapping) {
				m.Set(FieldDate, "Datum")
				m.Set(FieldDescription, "Text")
				m.Set(FieldAmount, "Belopp")
			},
			missing: nil,
		},
		{
			name: "complete with outflow only",
			setup: func(m *ColumnMapping) {
				m.Set(FieldDate, "Datum")
				m.Set(FieldDescription, "Text")
				m.Set(FieldOutflow, "Uttag")
			},
			missing: nil,
		},
		{
			name: "unmapping date reintroduces it",
			setup: func(m *ColumnMapping) {
				m.Set(FieldDate, "Datum")
				m.Set(FieldDescription, "Text")
				m.Set(FieldAmount, "Belopp")
				m.Set(FieldDate, "")
			},
			missing: []string{"Date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &ColumnMapping{}
			tt.setup(m)

			got := m.MissingRequired()
			if len(got) != len(tt.missing) {
				t.Fatalf("Expected missing %v, got %v", tt.missing, got)
			}
			for i := range got {
				if got[i] != tt.missing[i] {
					t.Errorf("Expected missing[%d]=%q, got %q", i, tt.missing[i], got[i])
				}
			}
		})
	}
}

func TestBankTransaction_Period(t *testing.T) {
	tx := &BankTransaction{Date: "2025-01-12"}
	if tx.Period() != "2025-01" {
		t.Errorf("Expected period 2025-01, got %s", tx.Period())
	}
}

func TestBankTransaction_Direction(t *testing.T) {
	in := &BankTransaction{Amount: decimal.NewFromInt(100)}
	out := &BankTransaction{Amount: decimal.NewFromInt(-100)}
	zero := &BankTransaction{Amount: decimal.Zero}

	if !in.IsInflow() || in.IsOutflow() {
		t.Error("Expected positive amount to be an inflow")
	}
	if !out.IsOutflow() || out.IsInflow() {
		t.Error("Expected negative amount to be an outflow")
	}
	if !zero.IsInflow() {
		t.Error("Expected zero amount to count as inflow")
	}
}

func TestInvoiceSummary_Outstanding(t *testing.T) {
	withBalance := &InvoiceSummary{
		Total:   decimal.NewFromInt(1000),
		Balance: decimal.NewFromInt(400),
	}
	if !withBalance.Outstanding().Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected outstanding 400, got %s", withBalance.Outstanding())
	}

	noBalance := &InvoiceSummary{
		Total:   decimal.NewFromInt(1000),
		Balance: decimal.Zero,
	}
	if !noBalance.Outstanding().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected outstanding to fall back to total, got %s", noBalance.Outstanding())
	}
}

func TestPeriodStatus_IsClosed(t *testing.T) {
	if PeriodOpen.IsClosed() {
		t.Error("Expected open period to not be closed")
	}
	if !PeriodReconciled.IsClosed() {
		t.Error("Expected reconciled period to be closed")
	}
	if !PeriodLocked.IsClosed() {
		t.Error("Expected locked period to be closed")
	}
}

func TestValidPeriod(t *testing.T) {
	tests := []struct {
		period string
		valid  bool
	}{
		{"2025-01", true},
		{"1999-12", true},
		{"2025-1", false},
		{"2025-01-12", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidPeriod(tt.period); got != tt.valid {
			t.Errorf("ValidPeriod(%q) = %v, want %v", tt.period, got, tt.valid)
		}
	}
}

func TestBankImport_Validate(t *testing.T) {
	imp := &BankImport{
		ID:        "imp-1",
		CompanyID: "co-1",
		RowCount:  2,
		Transactions: []*BankTransaction{
			{ID: "tx-1", Date: "2025-01-02", Amount: decimal.NewFromInt(-10)},
		},
	}
	if err := imp.Validate(); err != nil {
		t.Errorf("Expected valid import, got %v", err)
	}

	imp.RowCount = 0
	if err := imp.Validate(); err == nil {
		t.Error("Expected error when row count is below transaction count")
	}

	imp.RowCount = 2
	imp.CompanyID = ""
	if err := imp.Validate(); err == nil {
		t.Error("Expected error for empty company ID")
	}
}
