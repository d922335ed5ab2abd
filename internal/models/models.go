// Package models defines the canonical data types shared by the statement
// ingestion and reconciliation pipeline: bank transactions and imports,
// column mappings, invoice summaries, match results and reconciliation
// periods.
package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Field identifies a semantic statement column.
type Field string

const (
	FieldDate         Field = "date"
	FieldDescription  Field = "description"
	FieldAmount       Field = "amount"
	FieldInflow       Field = "inflow"
	FieldOutflow      Field = "outflow"
	FieldCounterparty Field = "counterparty"
	FieldReference    Field = "reference"
	FieldOCR          Field = "ocr"
	FieldCurrency     Field = "currency"
	FieldAccount      Field = "account"
)

// AllFields lists every semantic field in display order.
var AllFields = []Field{
	FieldDate,
	FieldDescription,
	FieldAmount,
	FieldInflow,
	FieldOutflow,
	FieldCounterparty,
	FieldReference,
	FieldOCR,
	FieldCurrency,
	FieldAccount,
}

// String returns the string representation of the field.
func (f Field) String() string {
	return string(f)
}

// Label returns the human-readable label used in user-facing messages.
func (f Field) Label() string {
	switch f {
	case FieldDate:
		return "Date"
	case FieldDescription:
		return "Description"
	case FieldAmount:
		return "Amount"
	case FieldInflow:
		return "Inflow"
	case FieldOutflow:
		return "Outflow"
	case FieldCounterparty:
		return "Counterparty"
	case FieldReference:
		return "Reference"
	case FieldOCR:
		return "OCR"
	case FieldCurrency:
		return "Currency"
	case FieldAccount:
		return "Account"
	default:
		return string(f)
	}
}

// IsValid checks if the field is one of the known semantic fields.
func (f Field) IsValid() bool {
	for _, known := range AllFields {
		if f == known {
			return true
		}
	}
	return false
}

// ColumnMapping maps semantic fields to source column headers. An empty
// string means the field is unmapped. The mapping maintains the invariant
// that a single signed amount column and split inflow/outflow columns are
// mutually exclusive; use Set rather than assigning fields directly.
type ColumnMapping struct {
	Date         string `json:"date,omitempty"`
	Description  string `json:"description,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Inflow       string `json:"inflow,omitempty"`
	Outflow      string `json:"outflow,omitempty"`
	Counterparty string `json:"counterparty,omitempty"`
	Reference    string `json:"reference,omitempty"`
	OCR          string `json:"ocr,omitempty"`
	Currency     string `json:"currency,omitempty"`
	Account      string `json:"account,omitempty"`
}

// Set assigns a source header to a semantic field, enforcing the
// amount-vs-inflow/outflow exclusivity invariant: mapping an amount column
// clears any inflow/outflow mapping, and mapping either split column clears
// the amount mapping. Setting an empty header unmaps the field.
func (m *ColumnMapping) Set(field Field, header string) {
	switch field {
	case FieldDate:
		m.Date = header
	case FieldDescription:
		m.Description = header
	case FieldAmount:
		m.Amount = header
		if header != "" {
			m.Inflow = ""
			m.Outflow = ""
		}
	case FieldInflow:
		m.Inflow = header
		if header != "" {
			m.Amount = ""
		}
	case FieldOutflow:
		m.Outflow = header
		if header != "" {
			m.Amount = ""
		}
	case FieldCounterparty:
		m.Counterparty = header
	case FieldReference:
		m.Reference = header
	case FieldOCR:
		m.OCR = header
	case FieldCurrency:
		m.Currency = header
	case FieldAccount:
		m.Account = header
	}
}

// Get returns the source header mapped to the given field, or "" when
// unmapped.
func (m *ColumnMapping) Get(field Field) string {
	switch field {
	case FieldDate:
		return m.Date
	case FieldDescription:
		return m.Description
	case FieldAmount:
		return m.Amount
	case FieldInflow:
		return m.Inflow
	case FieldOutflow:
		return m.Outflow
	case FieldCounterparty:
		return m.Counterparty
	case FieldReference:
		return m.Reference
	case FieldOCR:
		return m.OCR
	case FieldCurrency:
		return m.Currency
	case FieldAccount:
		return m.Account
	default:
		return ""
	}
}

// HasAmountSource reports whether the mapping can produce an amount, either
// from a single signed column or from at least one of the split columns.
func (m *ColumnMapping) HasAmountSource() bool {
	return m.Amount != "" || m.Inflow != "" || m.Outflow != ""
}

// MissingRequired returns the human-readable labels of required fields that
// are not yet mapped: date, description, and an amount source. Callers must
// re-check after every mapping change.
func (m *ColumnMapping) MissingRequired() []string {
	var missing []string
	if m.Date == "" {
		missing = append(missing, FieldDate.Label())
	}
	if m.Description == "" {
		missing = append(missing, FieldDescription.Label())
	}
	if !m.HasAmountSource() {
		missing = append(missing, fmt.Sprintf("%s (or %s/%s)",
			FieldAmount.Label(), FieldInflow.Label(), FieldOutflow.Label()))
	}
	return missing
}

// Clone returns a copy of the mapping.
func (m *ColumnMapping) Clone() ColumnMapping {
	return *m
}

// BankTransaction is one canonical statement row. Transactions are immutable
// once built; Raw preserves the original header→value cells for audit
// display.
type BankTransaction struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"` // YYYY-MM-DD
	Description  string            `json:"description"`
	Amount       decimal.Decimal   `json:"amount"` // negative = outflow
	Currency     string            `json:"currency,omitempty"`
	Counterparty string            `json:"counterparty,omitempty"`
	Reference    string            `json:"reference,omitempty"`
	OCR          string            `json:"ocr,omitempty"`
	Account      string            `json:"account,omitempty"`
	Raw          map[string]string `json:"raw,omitempty"`
}

// IsInflow reports whether the transaction is money in (amount >= 0).
func (t *BankTransaction) IsInflow() bool {
	return !t.Amount.IsNegative()
}

// IsOutflow reports whether the transaction is money out.
func (t *BankTransaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// Period returns the calendar-month bucket (YYYY-MM) of the transaction.
func (t *BankTransaction) Period() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}

// String returns a short representation for logs.
func (t *BankTransaction) String() string {
	return fmt.Sprintf("BankTransaction{ID: %s, Date: %s, Amount: %s}",
		t.ID, t.Date, t.Amount.String())
}

// MarshalJSON renders the amount as a decimal string.
func (t *BankTransaction) MarshalJSON() ([]byte, error) {
	type Alias BankTransaction
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		*Alias
	}{
		Amount: t.Amount.String(),
		Alias:  (*Alias)(t),
	})
}

// BankImport is one uploaded statement: the mapping it was committed with
// and the transactions derived from it. Imports are append-only; a
// corrected upload supersedes by being added, never by editing.
type BankImport struct {
	ID           string             `json:"id"`
	CompanyID    string             `json:"companyId"`
	Filename     string             `json:"filename"`
	ImportedAt   time.Time          `json:"importedAt"`
	RowCount     int                `json:"rowCount"`
	Mapping      ColumnMapping      `json:"mapping"`
	Transactions []*BankTransaction `json:"transactions"`
}

// Validate performs basic sanity checks before persistence.
func (bi *BankImport) Validate() error {
	if bi.ID == "" {
		return fmt.Errorf("import ID cannot be empty")
	}
	if bi.CompanyID == "" {
		return fmt.Errorf("import company ID cannot be empty")
	}
	if bi.RowCount < len(bi.Transactions) {
		return fmt.Errorf("row count %d is less than transaction count %d",
			bi.RowCount, len(bi.Transactions))
	}
	return nil
}

// InvoiceSummary is the read-only view of an open supplier invoice supplied
// by the invoice ledger collaborator.
type InvoiceSummary struct {
	Number             string          `json:"number"`
	CounterpartyNumber string          `json:"counterpartyNumber"`
	DueDate            string          `json:"dueDate,omitempty"` // YYYY-MM-DD, empty when unknown
	Total              decimal.Decimal `json:"total"`
	Balance            decimal.Decimal `json:"balance"`
	Booked             bool            `json:"booked"`
}

// Outstanding returns the amount still expected to be paid: the balance
// when positive, otherwise the invoice total.
func (inv *InvoiceSummary) Outstanding() decimal.Decimal {
	if inv.Balance.IsPositive() {
		return inv.Balance
	}
	return inv.Total
}

// Confidence classifies how trustworthy an automatic match is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// String returns the string representation of the confidence tier.
func (c Confidence) String() string {
	return string(c)
}

// IsValid checks if the confidence tier is known.
func (c Confidence) IsValid() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium || c == ConfidenceLow
}

// MatchResult pairs a transaction with its best invoice candidate, or
// carries a note explaining why no match was produced. Exactly one of
// Invoice and Note is populated.
type MatchResult struct {
	Transaction *BankTransaction `json:"transaction"`
	Invoice     *InvoiceSummary  `json:"match,omitempty"`
	Confidence  Confidence       `json:"confidence,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// Matched reports whether an invoice candidate was found.
func (r *MatchResult) Matched() bool {
	return r.Invoice != nil
}

// PeriodStatus is the reconciliation state of a calendar month.
type PeriodStatus string

const (
	PeriodOpen       PeriodStatus = "open"
	PeriodReconciled PeriodStatus = "reconciled"
	// PeriodLocked is a terminal state set externally; this core treats it
	// as closed and never writes it.
	PeriodLocked PeriodStatus = "locked"
)

// String returns the string representation of the status.
func (s PeriodStatus) String() string {
	return string(s)
}

// IsValid checks if the status is known.
func (s PeriodStatus) IsValid() bool {
	return s == PeriodOpen || s == PeriodReconciled || s == PeriodLocked
}

// IsClosed reports whether the period counts as closed for display:
// both reconciled and locked periods do.
func (s PeriodStatus) IsClosed() bool {
	return s == PeriodReconciled || s == PeriodLocked
}

var periodPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidPeriod checks a YYYY-MM period key.
func ValidPeriod(period string) bool {
	return periodPattern.MatchString(period)
}

// ReconciliationPeriod is the persisted per-month reconciliation record,
// keyed by period and upserted idempotently.
type ReconciliationPeriod struct {
	Period       string       `json:"period"` // YYYY-MM
	Status       PeriodStatus `json:"status"`
	ReconciledAt *time.Time   `json:"reconciledAt,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// Validate checks the period record.
func (rp *ReconciliationPeriod) Validate() error {
	if !ValidPeriod(rp.Period) {
		return fmt.Errorf("invalid period %q: want YYYY-MM", rp.Period)
	}
	if !rp.Status.IsValid() {
		return fmt.Errorf("invalid period status %q", rp.Status)
	}
	return nil
}
