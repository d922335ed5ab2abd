package store

import (
	"context"
	"encoding/json"
	"fmt"

	"bankrecon/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore is a Store backed by a Postgres database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres creates a PostgresStore from a connection string and
// verifies the connection.
func ConnectPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS bank_imports (
	id          TEXT PRIMARY KEY,
	company_id  TEXT NOT NULL,
	filename    TEXT NOT NULL,
	imported_at TIMESTAMPTZ NOT NULL,
	row_count   INTEGER NOT NULL,
	mapping     JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bank_imports_company ON bank_imports (company_id, imported_at);

CREATE TABLE IF NOT EXISTS bank_transactions (
	id           TEXT PRIMARY KEY,
	import_id    TEXT NOT NULL REFERENCES bank_imports (id) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	date         TEXT NOT NULL,
	description  TEXT NOT NULL,
	amount       NUMERIC(18,4) NOT NULL,
	currency     TEXT NOT NULL DEFAULT '',
	counterparty TEXT NOT NULL DEFAULT '',
	reference    TEXT NOT NULL DEFAULT '',
	ocr          TEXT NOT NULL DEFAULT '',
	account      TEXT NOT NULL DEFAULT '',
	raw          JSONB
);
CREATE INDEX IF NOT EXISTS idx_bank_transactions_import ON bank_transactions (import_id, position);

CREATE TABLE IF NOT EXISTS reconciliation_periods (
	company_id    TEXT NOT NULL,
	period        TEXT NOT NULL,
	status        TEXT NOT NULL,
	reconciled_at TIMESTAMPTZ,
	notes         TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (company_id, period)
);
`

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// ImportBankTransactions persists the import and its transactions in one
// database transaction.
func (s *PostgresStore) ImportBankTransactions(ctx context.Context, companyID string, imp *models.BankImport) error {
	if err := imp.Validate(); err != nil {
		return err
	}

	mappingJSON, err := json.Marshal(imp.Mapping)
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO bank_imports (id, company_id, filename, imported_at, row_count, mapping)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		imp.ID, companyID, imp.Filename, imp.ImportedAt, imp.RowCount, mappingJSON)
	if err != nil {
		return fmt.Errorf("failed to insert import: %w", err)
	}

	for i, t := range imp.Transactions {
		rawJSON, err := json.Marshal(t.Raw)
		if err != nil {
			return fmt.Errorf("failed to encode raw row: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO bank_transactions
				(id, import_id, position, date, description, amount,
				 currency, counterparty, reference, ocr, account, raw)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			t.ID, imp.ID, i, t.Date, t.Description, t.Amount.String(),
			t.Currency, t.Counterparty, t.Reference, t.OCR, t.Account, rawJSON)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// ListBankTransactions returns the company's imports, oldest first.
func (s *PostgresStore) ListBankTransactions(ctx context.Context, companyID string) ([]*models.BankImport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, filename, imported_at, row_count, mapping
		FROM bank_imports
		WHERE company_id = $1
		ORDER BY imported_at, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var imports []*models.BankImport
	for rows.Next() {
		imp := &models.BankImport{CompanyID: companyID}
		var mappingJSON []byte
		if err := rows.Scan(&imp.ID, &imp.Filename, &imp.ImportedAt, &imp.RowCount, &mappingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		if err := json.Unmarshal(mappingJSON, &imp.Mapping); err != nil {
			return nil, fmt.Errorf("failed to decode mapping: %w", err)
		}
		imports = append(imports, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, imp := range imports {
		if imp.Transactions, err = s.listTransactions(ctx, imp.ID); err != nil {
			return nil, err
		}
	}
	return imports, nil
}

func (s *PostgresStore) listTransactions(ctx context.Context, importID string) ([]*models.BankTransaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, date, description, amount::text,
		       currency, counterparty, reference, ocr, account, raw
		FROM bank_transactions
		WHERE import_id = $1
		ORDER BY position`, importID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.BankTransaction
	for rows.Next() {
		t := &models.BankTransaction{}
		var amountText string
		var rawJSON []byte
		err := rows.Scan(&t.ID, &t.Date, &t.Description, &amountText,
			&t.Currency, &t.Counterparty, &t.Reference, &t.OCR, &t.Account, &rawJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amountText); err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amountText, err)
		}
		if len(rawJSON) > 0 {
			if err := json.Unmarshal(rawJSON, &t.Raw); err != nil {
				return nil, fmt.Errorf("failed to decode raw row: %w", err)
			}
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// SetReconciliationStatus upserts one period record.
func (s *PostgresStore) SetReconciliationStatus(ctx context.Context, companyID, period string, status models.PeriodStatus, notes string) error {
	record := &models.ReconciliationPeriod{Period: period, Status: status, Notes: notes}
	if err := record.Validate(); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO reconciliation_periods (company_id, period, status, reconciled_at, notes)
		VALUES ($1, $2, $3, CASE WHEN $3 = 'reconciled' THEN now() END, $4)
		ON CONFLICT (company_id, period) DO UPDATE SET
			status = EXCLUDED.status,
			reconciled_at = EXCLUDED.reconciled_at,
			notes = EXCLUDED.notes`,
		companyID, period, string(status), notes)
	if err != nil {
		return fmt.Errorf("failed to upsert period status: %w", err)
	}
	return nil
}

// ListReconciliationStatuses returns every period record for the company.
func (s *PostgresStore) ListReconciliationStatuses(ctx context.Context, companyID string) ([]*models.ReconciliationPeriod, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT period, status, reconciled_at, notes
		FROM reconciliation_periods
		WHERE company_id = $1
		ORDER BY period DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list period statuses: %w", err)
	}
	defer rows.Close()

	var records []*models.ReconciliationPeriod
	for rows.Next() {
		record := &models.ReconciliationPeriod{}
		var status string
		if err := rows.Scan(&record.Period, &status, &record.ReconciledAt, &record.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan period status: %w", err)
		}
		record.Status = models.PeriodStatus(status)
		records = append(records, record)
	}
	return records, rows.Err()
}

var _ Store = (*PostgresStore)(nil)
