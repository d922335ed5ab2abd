// Package builder turns delimiter-split statement rows into canonical bank
// transactions using a committed column mapping. Rows whose required
// fields fail normalization are dropped silently: trailing garbage rows are
// common in bank exports and are accounted for by comparing the import's
// row count against its transaction count.
package builder

import (
	"fmt"

	"bankrecon/internal/mapping"
	"bankrecon/internal/models"
	"bankrecon/internal/normalize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Build converts data rows into transactions. Ordering follows source
// order. Each transaction gets a synthetic unique ID (row index plus a
// random suffix) because banks do not guarantee unique IDs in exports, and
// retains a header→value snapshot of its source row for audit display.
func Build(headers []string, rows [][]string, m models.ColumnMapping) []*models.BankTransaction {
	cols := resolveColumns(headers, m)

	transactions := make([]*models.BankTransaction, 0, len(rows))
	for i, row := range rows {
		tx, ok := buildRow(i, headers, row, m, cols)
		if !ok {
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions
}

type columnIndexes struct {
	date, description, amount, inflow, outflow       int
	counterparty, reference, ocr, currency, account int
}

func resolveColumns(headers []string, m models.ColumnMapping) columnIndexes {
	return columnIndexes{
		date:         mapping.ColumnIndex(headers, m.Date),
		description:  mapping.ColumnIndex(headers, m.Description),
		amount:       mapping.ColumnIndex(headers, m.Amount),
		inflow:       mapping.ColumnIndex(headers, m.Inflow),
		outflow:      mapping.ColumnIndex(headers, m.Outflow),
		counterparty: mapping.ColumnIndex(headers, m.Counterparty),
		reference:    mapping.ColumnIndex(headers, m.Reference),
		ocr:          mapping.ColumnIndex(headers, m.OCR),
		currency:     mapping.ColumnIndex(headers, m.Currency),
		account:      mapping.ColumnIndex(headers, m.Account),
	}
}

func buildRow(index int, headers, row []string, m models.ColumnMapping, cols columnIndexes) (*models.BankTransaction, bool) {
	date, err := normalize.NormalizeDate(cell(row, cols.date))
	if err != nil {
		return nil, false
	}

	description := cell(row, cols.description)
	if description == "" {
		return nil, false
	}

	amount, ok := extractAmount(row, m, cols)
	if !ok {
		return nil, false
	}

	raw := make(map[string]string, len(headers))
	for i, header := range headers {
		raw[header] = cell(row, i)
	}

	return &models.BankTransaction{
		ID:           fmt.Sprintf("row-%d-%s", index, uuid.NewString()[:8]),
		Date:         date,
		Description:  description,
		Amount:       amount,
		Currency:     cell(row, cols.currency),
		Counterparty: cell(row, cols.counterparty),
		Reference:    cell(row, cols.reference),
		OCR:          cell(row, cols.ocr),
		Account:      cell(row, cols.account),
		Raw:          raw,
	}, true
}

// extractAmount reads the signed amount column, or derives
// inflow − outflow when split columns are mapped. With split columns a
// missing side counts as zero, but at least one side must carry a value.
func extractAmount(row []string, m models.ColumnMapping, cols columnIndexes) (decimal.Decimal, bool) {
	if m.Amount != "" {
		amount, err := normalize.ParseAmount(cell(row, cols.amount))
		if err != nil {
			return decimal.Zero, false
		}
		return amount, true
	}

	if m.Inflow == "" && m.Outflow == "" {
		return decimal.Zero, false
	}

	inflow, inErr := normalize.ParseAmount(cell(row, cols.inflow))
	outflow, outErr := normalize.ParseAmount(cell(row, cols.outflow))
	if inErr != nil && outErr != nil {
		return decimal.Zero, false
	}
	if inErr != nil {
		inflow = decimal.Zero
	}
	if outErr != nil {
		outflow = decimal.Zero
	}

	return inflow.Sub(outflow.Abs()), true
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
