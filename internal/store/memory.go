package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bankrecon/internal/models"
)

// MemoryStore is an in-memory Store used by tests and the CLI preview
// path.
type MemoryStore struct {
	mu       sync.RWMutex
	imports  map[string][]*models.BankImport          // companyID → imports
	statuses map[string]map[string]*models.ReconciliationPeriod // companyID → period → record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		imports:  make(map[string][]*models.BankImport),
		statuses: make(map[string]map[string]*models.ReconciliationPeriod),
	}
}

// ImportBankTransactions appends the import to the company's collection.
func (s *MemoryStore) ImportBankTransactions(ctx context.Context, companyID string, imp *models.BankImport) error {
	if err := imp.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.imports[companyID] {
		if existing.ID == imp.ID {
			return fmt.Errorf("import %s already exists", imp.ID)
		}
	}
	s.imports[companyID] = append(s.imports[companyID], imp)
	return nil
}

// ListBankTransactions returns the company's imports in insertion order.
func (s *MemoryStore) ListBankTransactions(ctx context.Context, companyID string) ([]*models.BankImport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	imports := make([]*models.BankImport, len(s.imports[companyID]))
	copy(imports, s.imports[companyID])
	return imports, nil
}

// SetReconciliationStatus upserts the period record.
func (s *MemoryStore) SetReconciliationStatus(ctx context.Context, companyID, period string, status models.PeriodStatus, notes string) error {
	record := &models.ReconciliationPeriod{
		Period: period,
		Status: status,
		Notes:  notes,
	}
	if status == models.PeriodReconciled {
		now := time.Now().UTC()
		record.ReconciledAt = &now
	}
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statuses[companyID] == nil {
		s.statuses[companyID] = make(map[string]*models.ReconciliationPeriod)
	}
	s.statuses[companyID][period] = record
	return nil
}

// ListReconciliationStatuses returns every period record for the company.
func (s *MemoryStore) ListReconciliationStatuses(ctx context.Context, companyID string) ([]*models.ReconciliationPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*models.ReconciliationPeriod, 0, len(s.statuses[companyID]))
	for _, record := range s.statuses[companyID] {
		records = append(records, record)
	}
	return records, nil
}

// StaticLedger is an InvoiceLedger serving a fixed invoice list; used by
// tests.
type StaticLedger struct {
	Invoices []*models.InvoiceSummary
	Err      error
}

// ListOpenInvoices returns the fixed list, or the configured error.
func (l *StaticLedger) ListOpenInvoices(ctx context.Context, companyID string) ([]*models.InvoiceSummary, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Invoices, nil
}
