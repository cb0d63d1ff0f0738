// Package engine owns balance and settlement recomputation.
//
// The calculator itself is pure; the engine wires it to the data layer and
// enforces the recomputation contract: every data change triggers a fresh,
// full computation from the latest known dataset, and a newer result always
// supersedes an older one (latest wins, compared by a monotonic sequence
// number). There is no incremental update and no cancellation; a group
// computation is cheap and runs to completion.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitmate/splitmate/internal/calculator"
	"github.com/splitmate/splitmate/internal/metrics"
	"github.com/splitmate/splitmate/internal/models"
	"github.com/splitmate/splitmate/internal/storage"
)

// Snapshot is the derived state of one group at a point in time: the
// balance sheet plus the settlement plan generated from it.
type Snapshot struct {
	GroupID    string
	Seq        uint64
	Sheet      *models.BalanceSheet
	Plan       []models.SettlementSuggestion
	Unbalanced bool
	ComputedAt time.Time
}

// Engine recomputes group snapshots on demand and in response to triggers.
type Engine struct {
	store storage.Store

	seq  atomic.Uint64
	wake chan struct{}

	mu     sync.Mutex
	dirty  map[string]string // group ID -> trigger source
	latest map[string]*Snapshot
}

// New creates an Engine reading from the given store.
func New(store storage.Store) *Engine {
	return &Engine{
		store:  store,
		wake:   make(chan struct{}, 1),
		dirty:  make(map[string]string),
		latest: make(map[string]*Snapshot),
	}
}

// Trigger marks a group dirty and wakes the recompute loop. Source labels
// the metrics (e.g. "local_write", "event"). Safe from any goroutine; never
// blocks.
func (e *Engine) Trigger(groupID, source string) {
	e.mu.Lock()
	e.dirty[groupID] = source
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Run consumes triggers until ctx is cancelled. Single consumer: dirty
// groups are drained and recomputed one at a time, so two computations for
// the same group never interleave within this loop.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.wake:
			for groupID, source := range e.drain() {
				if _, err := e.Recompute(ctx, groupID, source); err != nil {
					slog.Error("Recomputation failed", "group_id", groupID, "error", err)
				}
			}
		}
	}
}

func (e *Engine) drain() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	drained := e.dirty
	e.dirty = make(map[string]string)
	return drained
}

// Recompute performs a full computation for the group and publishes the
// result unless a newer snapshot already landed.
func (e *Engine) Recompute(ctx context.Context, groupID, source string) (*Snapshot, error) {
	seq := e.seq.Add(1)
	start := time.Now()

	group, err := e.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := e.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	payments, err := e.store.ListPaymentsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenseVals := make([]models.Expense, len(expenses))
	for i, exp := range expenses {
		expenseVals[i] = *exp
	}
	paymentVals := make([]models.Payment, len(payments))
	for i, p := range payments {
		paymentVals[i] = *p
	}

	sheet := calculator.ComputeBalances(group.DefaultCurrency, expenseVals, paymentVals, storeRates{ctx: ctx, store: e.store})
	plan, planErr := calculator.ComputeSettlementPlan(sheet.Balances)

	snapshot := &Snapshot{
		GroupID:    groupID,
		Seq:        seq,
		Sheet:      sheet,
		Plan:       plan,
		ComputedAt: time.Now(),
	}
	if planErr != nil {
		if !errors.Is(planErr, calculator.ErrUnbalanced) {
			return nil, planErr
		}
		// Zero-sum violated upstream. Publish the partial plan flagged as
		// inconsistent rather than hiding the symptom.
		snapshot.Unbalanced = true
		metrics.UnbalancedPlans.Inc()
		slog.Error("Settlement plan left residual balances",
			"group_id", groupID, "sheet_total", sheet.Total())
	}

	metrics.Recomputes.WithLabelValues(source).Inc()
	metrics.RecomputeDuration.Observe(time.Since(start).Seconds())

	e.publish(snapshot)
	return snapshot, nil
}

// Latest returns the most recent snapshot for the group, computing one
// synchronously if none exists yet.
func (e *Engine) Latest(ctx context.Context, groupID string) (*Snapshot, error) {
	e.mu.Lock()
	snapshot := e.latest[groupID]
	e.mu.Unlock()
	if snapshot != nil {
		return snapshot, nil
	}
	return e.Recompute(ctx, groupID, "read")
}

// Forget drops the cached snapshot for a deleted group.
func (e *Engine) Forget(groupID string) {
	e.mu.Lock()
	delete(e.latest, groupID)
	e.mu.Unlock()
}

// InvalidateAll drops every cached snapshot. Used when a cross-cutting
// input changes, such as a new exchange rate; the next read of each group
// recomputes with the new data.
func (e *Engine) InvalidateAll() {
	e.mu.Lock()
	e.latest = make(map[string]*Snapshot)
	e.mu.Unlock()
}

// publish installs the snapshot unless a newer one is already present.
func (e *Engine) publish(snapshot *Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if current := e.latest[snapshot.GroupID]; current != nil && current.Seq > snapshot.Seq {
		metrics.StaleResultsDiscarded.Inc()
		return
	}
	e.latest[snapshot.GroupID] = snapshot
}

// storeRates adapts storage rate lookups to the calculator's RateProvider.
type storeRates struct {
	ctx   context.Context
	store storage.Store
}

func (r storeRates) Rate(from, to string, date int64) (decimal.Decimal, bool) {
	rate, err := r.store.LatestRate(r.ctx, from, to, date)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Rate lookup failed", "from", from, "to", to, "error", err)
		}
		return decimal.Decimal{}, false
	}
	return rate.Rate, true
}
