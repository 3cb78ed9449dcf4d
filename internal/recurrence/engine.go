// Package recurrence materializes scheduled transactions. A sweep finds every
// recurring transaction whose next occurrence has come due, writes a concrete
// ledger entry for it, and advances the schedule.
package recurrence

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"campusledger/internal/currency"
	"campusledger/internal/logger"
	"campusledger/internal/models"
	"campusledger/internal/notify"
	"campusledger/internal/store"
)

// Result summarizes one sweep run.
type Result struct {
	Due          int
	Materialized int
	Skipped      int
	Failed       int
}

// Engine runs recurrence sweeps. Concurrent RunSweep calls are collapsed into
// a single execution; overlapping callers share its result.
type Engine struct {
	store    *store.Store
	conv     *currency.Converter
	notifier notify.Notifier
	group    singleflight.Group
}

// NewEngine creates an engine over the given store, converter and notifier.
func NewEngine(s *store.Store, conv *currency.Converter, notifier notify.Notifier) *Engine {
	return &Engine{store: s, conv: conv, notifier: notifier}
}

// RunSweep materializes every transaction due at or before now. Per-item
// failures are logged and skipped so one bad row cannot starve the rest of
// the batch; only a failure to list the due set fails the run. Because each
// materialization advances the source schedule past now, re-running a sweep
// for the same instant charges nothing twice.
func (e *Engine) RunSweep(ctx context.Context, now time.Time) (Result, error) {
	v, err, _ := e.group.Do("sweep", func() (interface{}, error) {
		return e.sweep(ctx, now)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (e *Engine) sweep(ctx context.Context, now time.Time) (Result, error) {
	asOf := now.UnixMilli()
	due, err := e.store.ListDueRecurringTransactions(asOf)
	if err != nil {
		return Result{}, err
	}

	res := Result{Due: len(due)}
	log := logger.Get()
	for i := range due {
		src := due[i]
		next, ok := nextOccurrence(src.NextOccurrenceAt, src.RecurrencePeriod)
		if !ok {
			// Unknown period: leave the row untouched for inspection.
			log.Warnw("skipping recurring transaction with unknown period",
				"transaction_id", src.ID,
				"period", src.RecurrencePeriod,
			)
			res.Skipped++
			continue
		}

		occurrence := models.Transaction{
			UserID:      src.UserID,
			CategoryID:  src.CategoryID,
			CurrencyID:  src.CurrencyID,
			Amount:      src.Amount,
			OccurredAt:  asOf,
			Description: src.Description,
			Kind:        src.Kind,
		}
		if err := e.store.InsertTransaction(&occurrence); err != nil {
			log.Errorw("failed to materialize recurring transaction",
				"transaction_id", src.ID,
				"error", err,
			)
			res.Failed++
			continue
		}

		src.NextOccurrenceAt = next
		if err := e.store.UpdateTransaction(&src); err != nil {
			// The occurrence is already written; the schedule stays due and
			// will be retried (and re-charged) next sweep. Loud on purpose.
			log.Errorw("failed to advance recurrence schedule",
				"transaction_id", src.ID,
				"error", err,
			)
			res.Failed++
			continue
		}

		res.Materialized++
		e.emit(ctx, src, occurrence)
	}

	log.Infow("recurrence sweep finished",
		"due", res.Due,
		"materialized", res.Materialized,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res, nil
}

// emit publishes the user-facing event for a materialized occurrence.
// Notification failures never fail the sweep.
func (e *Engine) emit(ctx context.Context, src models.Transaction, occurrence models.Transaction) {
	categoryName := "Unknown"
	if cat, err := e.store.GetCategoryByID(src.CategoryID); err == nil {
		categoryName = cat.Name
	}

	event := notify.NewRecurringMaterializedEvent(
		occurrence.UserID,
		occurrence.ID,
		categoryName,
		e.conv.Format(occurrence.Amount, occurrence.CurrencyID),
		occurrence.OccurredAt,
	)
	if err := e.notifier.PublishRecurringMaterialized(ctx, event); err != nil {
		logger.Get().Warnw("failed to publish recurring charge event",
			"transaction_id", occurrence.ID,
			"error", err,
		)
	}
}

// nextOccurrence advances a schedule one period past its previous due time.
// The anchor is the stored next-occurrence value, not the sweep time, so a
// late sweep does not drift the schedule.
func nextOccurrence(prev int64, period models.RecurrencePeriod) (int64, bool) {
	t := time.UnixMilli(prev).UTC()
	switch period {
	case models.PeriodWeekly:
		return t.AddDate(0, 0, 7).UnixMilli(), true
	case models.PeriodMonthly:
		return addMonthsClamped(t, 1).UnixMilli(), true
	case models.PeriodYearly:
		return addMonthsClamped(t, 12).UnixMilli(), true
	default:
		return 0, false
	}
}

// addMonthsClamped adds whole months, clamping the day to the target month's
// length. Jan 31 + 1 month is Feb 28 (29 in leap years), never Mar 2 like
// time.AddDate's normalization would give.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	month += time.Month(months)
	// Normalize the year/month pair with day 1, then clamp the day.
	first := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
