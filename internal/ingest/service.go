// Package ingest composes the statement pipeline for a consumer such as a
// UI layer or the CLI: parse → detect bank → suggest mapping → build
// transactions → persist, plus the invoice matching workflow.
package ingest

import (
	"context"
	"time"

	"bankrecon/internal/banks"
	"bankrecon/internal/builder"
	"bankrecon/internal/mapping"
	"bankrecon/internal/matcher"
	"bankrecon/internal/models"
	"bankrecon/internal/parsers"
	"bankrecon/internal/store"
	"bankrecon/pkg/errors"
	"bankrecon/pkg/logger"

	"github.com/google/uuid"
)

// Service runs import and matching workflows against the collaborators.
type Service struct {
	store  store.Store
	ledger store.InvoiceLedger
	engine *matcher.Engine
	log    logger.Logger
}

// NewService creates a workflow service. A nil engine uses default
// matching tolerances.
func NewService(s store.Store, ledger store.InvoiceLedger, engine *matcher.Engine, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault()
	}
	if engine == nil {
		engine = matcher.NewEngine(nil, log)
	}
	return &Service{
		store:  s,
		ledger: ledger,
		engine: engine,
		log:    log.WithComponent("ingest"),
	}
}

// ImportPreview is everything a caller needs to show the mapping step:
// the parsed statement, the detected bank, the suggested mapping with its
// unmet requirements, and the transactions the current suggestion yields.
type ImportPreview struct {
	Statement     *parsers.ParsedStatement  `json:"statement"`
	Profile       *banks.Profile            `json:"profile,omitempty"`
	Mapping       models.ColumnMapping      `json:"mapping"`
	MissingFields []string                  `json:"missingFields,omitempty"`
	Transactions  []*models.BankTransaction `json:"transactions"`
}

// Preview parses raw statement text and suggests a column mapping. The
// caller may override mapping fields and call Rebuild before committing.
func (s *Service) Preview(text string) (*ImportPreview, error) {
	stmt, err := parsers.ParseStatement(text)
	if err != nil {
		return nil, err
	}

	profile := banks.Detect(stmt.Headers)
	m := mapping.Suggest(stmt.Headers, profile)

	preview := &ImportPreview{
		Statement:     stmt,
		Profile:       profile,
		Mapping:       m,
		MissingFields: m.MissingRequired(),
	}
	if len(preview.MissingFields) == 0 {
		preview.Transactions = builder.Build(stmt.Headers, stmt.AllRows, m)
	}

	profileID := "none"
	if profile != nil {
		profileID = profile.ID
	}
	s.log.WithFields(logger.Fields{
		"profile":  profileID,
		"rows":     stmt.TotalRows,
		"accepted": len(preview.Transactions),
	}).Debug("statement preview built")

	return preview, nil
}

// Rebuild re-derives missing fields and transactions after a manual
// mapping change.
func (p *ImportPreview) Rebuild() {
	p.MissingFields = p.Mapping.MissingRequired()
	p.Transactions = nil
	if len(p.MissingFields) == 0 {
		p.Transactions = builder.Build(p.Statement.Headers, p.Statement.AllRows, p.Mapping)
	}
}

// Commit validates the mapping, builds the final transactions and persists
// a new import. The returned list is a fresh re-read of all of the
// company's imports, so callers always render authoritative state.
func (s *Service) Commit(ctx context.Context, companyID, filename string, stmt *parsers.ParsedStatement, m models.ColumnMapping) (*models.BankImport, []*models.BankImport, error) {
	if missing := m.MissingRequired(); len(missing) > 0 {
		return nil, nil, errors.NewMappingIncomplete(missing)
	}

	imp := &models.BankImport{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		Filename:     filename,
		ImportedAt:   time.Now().UTC(),
		RowCount:     stmt.TotalRows,
		Mapping:      m,
		Transactions: builder.Build(stmt.Headers, stmt.AllRows, m),
	}

	if err := s.store.ImportBankTransactions(ctx, companyID, imp); err != nil {
		return nil, nil, errors.NewPersistenceFailure("save bank import", err)
	}

	imports, err := s.store.ListBankTransactions(ctx, companyID)
	if err != nil {
		return nil, nil, errors.NewPersistenceFailure("list bank transactions", err)
	}

	s.log.WithFields(logger.Fields{
		"import":   imp.ID,
		"rows":     imp.RowCount,
		"accepted": len(imp.Transactions),
	}).Info("bank import saved")

	return imp, imports, nil
}

// MatchOpenInvoices fetches the company's open invoices and matches every
// stored transaction against them. A ledger failure aborts matching
// entirely; no partial results are returned.
func (s *Service) MatchOpenInvoices(ctx context.Context, companyID string) ([]*models.MatchResult, error) {
	invoices, err := s.ledger.ListOpenInvoices(ctx, companyID)
	if err != nil {
		return nil, errors.NewMatchQueryFailure(err)
	}

	imports, err := s.store.ListBankTransactions(ctx, companyID)
	if err != nil {
		return nil, errors.NewPersistenceFailure("list bank transactions", err)
	}

	var transactions []*models.BankTransaction
	for _, imp := range imports {
		transactions = append(transactions, imp.Transactions...)
	}

	return s.engine.Match(transactions, invoices), nil
}

// MatchTransactions matches an ad-hoc transaction list, bypassing the
// store; used for matching a statement before it is saved.
func (s *Service) MatchTransactions(ctx context.Context, companyID string, transactions []*models.BankTransaction) ([]*models.MatchResult, error) {
	invoices, err := s.ledger.ListOpenInvoices(ctx, companyID)
	if err != nil {
		return nil, errors.NewMatchQueryFailure(err)
	}
	return s.engine.Match(transactions, invoices), nil
}
