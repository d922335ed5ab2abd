package store

import (
	"context"
	"strings"

	"bankrecon/internal/banks"
	"bankrecon/internal/models"
	"bankrecon/internal/normalize"
	"bankrecon/internal/parsers"

	"bankrecon/pkg/errors"
)

// CSVLedger is an InvoiceLedger backed by an exported invoice list in
// delimited text, for offline reconciliation runs. Expected headers (case
// and punctuation insensitive): number, counterparty, due date, total,
// balance, booked.
type CSVLedger struct {
	invoices []*models.InvoiceSummary
}

// NewCSVLedger parses an invoice export. Rows missing a number or a total
// are skipped; fully settled and booked invoices are filtered out, since
// the ledger contract only serves open or partially-paid invoices.
func NewCSVLedger(text string) (*CSVLedger, error) {
	stmt, err := parsers.ParseStatement(text)
	if err != nil {
		return nil, err
	}

	col := invoiceColumns(stmt.Headers)
	if col.number < 0 || col.total < 0 {
		return nil, errors.NewValidationError("invoice export must have number and total columns")
	}

	var invoices []*models.InvoiceSummary
	for _, row := range stmt.AllRows {
		inv, ok := invoiceFromRow(row, col)
		if !ok {
			continue
		}
		if inv.Booked && !inv.Balance.IsPositive() {
			continue
		}
		invoices = append(invoices, inv)
	}

	return &CSVLedger{invoices: invoices}, nil
}

// ListOpenInvoices returns the parsed invoices.
func (l *CSVLedger) ListOpenInvoices(ctx context.Context, companyID string) ([]*models.InvoiceSummary, error) {
	return l.invoices, nil
}

type invoiceColumnIndexes struct {
	number, counterparty, dueDate, total, balance, booked int
}

func invoiceColumns(headers []string) invoiceColumnIndexes {
	col := invoiceColumnIndexes{-1, -1, -1, -1, -1, -1}
	for i, header := range headers {
		switch banks.NormalizeHeader(header) {
		case "number", "invoicenumber", "fakturanummer":
			col.number = i
		case "counterparty", "counterpartynumber", "supplier", "leverantor":
			col.counterparty = i
		case "duedate", "forfallodatum":
			col.dueDate = i
		case "total", "totalt", "belopp":
			col.total = i
		case "balance", "saldo", "kvarattbetala":
			col.balance = i
		case "booked", "bokford":
			col.booked = i
		}
	}
	return col
}

func invoiceFromRow(row []string, col invoiceColumnIndexes) (*models.InvoiceSummary, bool) {
	get := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	number := get(col.number)
	if number == "" {
		return nil, false
	}

	total, err := normalize.ParseAmount(get(col.total))
	if err != nil {
		return nil, false
	}

	inv := &models.InvoiceSummary{
		Number:             number,
		CounterpartyNumber: get(col.counterparty),
		Total:              total,
	}

	if balance, err := normalize.ParseAmount(get(col.balance)); err == nil {
		inv.Balance = balance
	}
	if due, err := normalize.NormalizeDate(get(col.dueDate)); err == nil {
		inv.DueDate = due
	}
	switch strings.ToLower(get(col.booked)) {
	case "true", "yes", "ja", "1":
		inv.Booked = true
	}

	return inv, true
}
