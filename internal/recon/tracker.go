// Package recon aggregates a company's bank transactions into calendar
// month buckets and manages the reconciliation status of each period.
//
// The persistence collaborator is the source of truth for statuses; the
// tracker's cache is advisory. A toggle applies the new status locally
// first (optimistic), then persists; on failure the cache is replaced by a
// fresh authoritative read rather than computing a local inverse, so
// partial failures cannot compound drift.
package recon

import (
	"context"
	"sort"
	"sync"

	"bankrecon/internal/models"
	"bankrecon/internal/store"
	"bankrecon/pkg/errors"
	"bankrecon/pkg/logger"

	"github.com/shopspring/decimal"
)

// ToggleState tracks the lifecycle of the most recent toggle.
type ToggleState int

const (
	// StateIdle means no toggle has been issued since the last refresh.
	StateIdle ToggleState = iota
	// StatePending means a toggle was applied locally and persistence is
	// in flight.
	StatePending
	// StateCommitted means the last toggle persisted successfully.
	StateCommitted
	// StateRolledBack means the last toggle failed and the cache was
	// re-hydrated from the store.
	StateRolledBack
)

// String returns the string representation of the toggle state.
func (s ToggleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// PeriodSummary is one calendar month's aggregate view.
type PeriodSummary struct {
	Period           string              `json:"period"` // YYYY-MM
	Status           models.PeriodStatus `json:"status"`
	Closed           bool                `json:"closed"`
	TransactionCount int                 `json:"transactionCount"`
	Net              decimal.Decimal     `json:"net"`
	Inflow           decimal.Decimal     `json:"inflow"`
	Outflow          decimal.Decimal     `json:"outflow"`
}

// Tracker manages reconciliation periods for one company.
type Tracker struct {
	store     store.Store
	companyID string
	log       logger.Logger

	mu       sync.Mutex
	statuses map[string]models.PeriodStatus
	state    ToggleState
}

// NewTracker creates a tracker bound to one company.
func NewTracker(s store.Store, companyID string, log logger.Logger) *Tracker {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Tracker{
		store:     s,
		companyID: companyID,
		log:       log.WithComponent("recon").WithField("company", companyID),
		statuses:  make(map[string]models.PeriodStatus),
	}
}

// Refresh replaces the status cache with the store's authoritative state.
func (t *Tracker) Refresh(ctx context.Context) error {
	records, err := t.store.ListReconciliationStatuses(ctx, t.companyID)
	if err != nil {
		return errors.NewPersistenceFailure("list reconciliation statuses", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.replaceStatusesLocked(records)
	t.state = StateIdle
	return nil
}

func (t *Tracker) replaceStatusesLocked(records []*models.ReconciliationPeriod) {
	t.statuses = make(map[string]models.PeriodStatus, len(records))
	for _, record := range records {
		t.statuses[record.Period] = record.Status
	}
}

// Status returns the cached status of a period; unknown periods are open.
func (t *Tracker) Status(period string) models.PeriodStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if status, ok := t.statuses[period]; ok {
		return status
	}
	return models.PeriodOpen
}

// State returns the lifecycle state of the most recent toggle.
func (t *Tracker) State() ToggleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Summaries refreshes the status cache, aggregates all of the company's
// imported transactions into month buckets and returns them newest first.
func (t *Tracker) Summaries(ctx context.Context) ([]*PeriodSummary, error) {
	if err := t.Refresh(ctx); err != nil {
		return nil, err
	}

	imports, err := t.store.ListBankTransactions(ctx, t.companyID)
	if err != nil {
		return nil, errors.NewPersistenceFailure("list bank transactions", err)
	}

	buckets := make(map[string]*PeriodSummary)
	for _, imp := range imports {
		for _, tx := range imp.Transactions {
			period := tx.Period()
			bucket, ok := buckets[period]
			if !ok {
				bucket = &PeriodSummary{
					Period:  period,
					Net:     decimal.Zero,
					Inflow:  decimal.Zero,
					Outflow: decimal.Zero,
				}
				buckets[period] = bucket
			}

			bucket.TransactionCount++
			bucket.Net = bucket.Net.Add(tx.Amount)
			if tx.Amount.IsNegative() {
				bucket.Outflow = bucket.Outflow.Add(tx.Amount.Abs())
			} else {
				bucket.Inflow = bucket.Inflow.Add(tx.Amount)
			}
		}
	}

	summaries := make([]*PeriodSummary, 0, len(buckets))
	for period, bucket := range buckets {
		bucket.Status = t.Status(period)
		bucket.Closed = bucket.Status.IsClosed()
		summaries = append(summaries, bucket)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Period > summaries[j].Period
	})
	return summaries, nil
}

// Toggle flips one period between open and reconciled. The new status is
// applied locally before persisting; if persistence fails the cache is
// replaced by a forced re-read and the error is returned for inline
// display. Locked periods are closed externally and cannot be toggled.
func (t *Tracker) Toggle(ctx context.Context, period string) (models.PeriodStatus, error) {
	if !models.ValidPeriod(period) {
		return "", errors.NewValidationError("invalid period key: " + period)
	}

	t.mu.Lock()
	current, ok := t.statuses[period]
	if !ok {
		current = models.PeriodOpen
	}
	if current == models.PeriodLocked {
		t.mu.Unlock()
		return "", errors.NewValidationError("period " + period + " is locked and cannot be reopened")
	}

	next := models.PeriodReconciled
	if current == models.PeriodReconciled {
		next = models.PeriodOpen
	}

	t.statuses[period] = next
	t.state = StatePending
	t.mu.Unlock()

	if err := t.store.SetReconciliationStatus(ctx, t.companyID, period, next, ""); err != nil {
		t.log.WithError(err).WithField("period", period).Warn("status persistence failed, refetching")
		t.rollbackByRefetch(ctx)
		return "", errors.NewPersistenceFailure("set reconciliation status", err)
	}

	t.mu.Lock()
	t.state = StateCommitted
	t.mu.Unlock()

	t.log.WithFields(logger.Fields{"period": period, "status": next}).Info("period status updated")
	return next, nil
}

// rollbackByRefetch re-hydrates the cache from the store after a failed
// toggle. If even the re-read fails the optimistic value is dropped so the
// cache never keeps an unconfirmed status.
func (t *Tracker) rollbackByRefetch(ctx context.Context) {
	records, err := t.store.ListReconciliationStatuses(ctx, t.companyID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.statuses = make(map[string]models.PeriodStatus)
	} else {
		t.replaceStatusesLocked(records)
	}
	t.state = StateRolledBack
}
