// Package store defines the persistence and invoice-ledger collaborator
// interfaces the reconciliation core depends on, together with three
// implementations: an in-memory store for tests and previews, a
// Postgres-backed store, and a CSV-backed invoice ledger for offline use.
// The persistence collaborator is the sole source of truth; local caches
// are advisory and always reconcilable by refetch.
package store

import (
	"context"

	"bankrecon/internal/models"
)

// Store is the persistence collaborator. All operations are scoped to one
// company.
type Store interface {
	// ImportBankTransactions persists a new import. Imports are
	// append-only; the same import ID must not be saved twice.
	ImportBankTransactions(ctx context.Context, companyID string, imp *models.BankImport) error

	// ListBankTransactions returns all imports for the company, oldest
	// first.
	ListBankTransactions(ctx context.Context, companyID string) ([]*models.BankImport, error)

	// SetReconciliationStatus upserts the status of one period.
	SetReconciliationStatus(ctx context.Context, companyID, period string, status models.PeriodStatus, notes string) error

	// ListReconciliationStatuses returns every period record for the
	// company.
	ListReconciliationStatuses(ctx context.Context, companyID string) ([]*models.ReconciliationPeriod, error)
}

// InvoiceLedger is the external accounting system queried for open
// supplier invoices.
type InvoiceLedger interface {
	// ListOpenInvoices returns unbooked or partially-paid invoices
	// (balance > 0, or not yet booked) for the company.
	ListOpenInvoices(ctx context.Context, companyID string) ([]*models.InvoiceSummary, error)
}
