// Package matcher scores outgoing bank transactions against open supplier
// invoices and assigns each candidate match a confidence tier.
//
// The match is greedy and transaction-local: every transaction picks its
// own lowest-scoring invoice and several transactions may pick the same
// one. The results are candidates for human confirmation, not postings.
// If exclusive assignments are ever required, the extension point is to
// replace Match's per-transaction loop with a minimum-cost bipartite
// assignment over the same score function.
package matcher

import (
	"bankrecon/internal/models"
	"bankrecon/internal/normalize"
	"bankrecon/pkg/logger"
)

// Notes attached to results that carry no invoice match.
const (
	NoteInflow  = "inflow, not a supplier payment"
	NoteNoMatch = "no match found"
)

// Engine matches transactions to invoices using configured tolerances.
type Engine struct {
	config *Config
	log    logger.Logger
}

// NewEngine creates a matching engine. A nil config uses defaults.
func NewEngine(config *Config, log logger.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Engine{
		config: config,
		log:    log.WithComponent("matcher"),
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Match scores every transaction against the candidate invoices and
// returns one result per transaction, in input order. Inflows are never
// matched against supplier invoices; they get an explanatory note, as do
// outflows with no invoice within the amount tolerance.
func (e *Engine) Match(transactions []*models.BankTransaction, invoices []*models.InvoiceSummary) []*models.MatchResult {
	results := make([]*models.MatchResult, 0, len(transactions))
	for _, tx := range transactions {
		results = append(results, e.matchOne(tx, invoices))
	}

	e.log.WithFields(logger.Fields{
		"transactions": len(transactions),
		"invoices":     len(invoices),
	}).Debug("matching complete")

	return results
}

func (e *Engine) matchOne(tx *models.BankTransaction, invoices []*models.InvoiceSummary) *models.MatchResult {
	if tx.IsInflow() {
		return &models.MatchResult{Transaction: tx, Note: NoteInflow}
	}

	absAmount := tx.Amount.Abs()

	var best *models.InvoiceSummary
	var bestScore float64
	var bestAmountDiff, bestDayDiff = 0.0, 0

	for _, inv := range invoices {
		amountDiff := inv.Outstanding().Sub(absAmount).Abs()
		if amountDiff.GreaterThan(e.config.AmountTolerance) {
			continue
		}

		dayDiff := e.dayDiff(tx.Date, inv.DueDate)
		score := amountDiff.InexactFloat64()*e.config.AmountDiffWeight + float64(dayDiff)

		// Strict less-than keeps the earlier candidate on ties.
		if best == nil || score < bestScore {
			best = inv
			bestScore = score
			bestAmountDiff = amountDiff.InexactFloat64()
			bestDayDiff = dayDiff
		}
	}

	if best == nil {
		return &models.MatchResult{Transaction: tx, Note: NoteNoMatch}
	}

	return &models.MatchResult{
		Transaction: tx,
		Invoice:     best,
		Confidence:  e.classify(bestAmountDiff, bestDayDiff),
	}
}

// dayDiff computes the absolute day distance between the transaction date
// and the invoice due date. A missing or unparseable due date yields the
// sentinel, deprioritizing the invoice without excluding it.
func (e *Engine) dayDiff(txDate, dueDate string) int {
	if dueDate == "" {
		return e.config.MissingDueDateDayDiff
	}

	t, err := normalize.ParseCanonicalDate(txDate)
	if err != nil {
		return e.config.MissingDueDateDayDiff
	}
	due, err := normalize.ParseCanonicalDate(dueDate)
	if err != nil {
		return e.config.MissingDueDateDayDiff
	}

	return normalize.DaysBetween(t, due)
}

func (e *Engine) classify(amountDiff float64, dayDiff int) models.Confidence {
	high := e.config.HighAmountDiff.InexactFloat64()
	medium := e.config.MediumAmountDiff.InexactFloat64()

	switch {
	case amountDiff <= high && dayDiff <= e.config.HighDayDiff:
		return models.ConfidenceHigh
	case amountDiff <= medium && dayDiff <= e.config.MediumDayDiff:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
