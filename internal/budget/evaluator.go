// Package budget computes budget consumption and a linear spend projection.
// All functions are read-only; they never mutate ledger state.
package budget

import (
	"campusledger/internal/currency"
	"campusledger/internal/models"
)

// AlertThresholdPercent is the consumption percentage above which callers are
// expected to raise a budget alert. The evaluator only reports the
// percentage; alert dispatch belongs to the notifier's caller.
const AlertThresholdPercent = 80.0

const dayMillis = 24 * 60 * 60 * 1000

// ProjectionState classifies where "now" falls relative to a budget window.
type ProjectionState string

const (
	ProjectionNotStarted ProjectionState = "not_started"
	ProjectionInProgress ProjectionState = "in_progress"
	ProjectionEnded      ProjectionState = "ended"
)

// Projection is the outcome of the linear spend prediction. Message is empty
// when there is nothing to say: before the period starts, or on the first day
// when no daily average exists yet.
type Projection struct {
	State           ProjectionState `json:"state"`
	Message         string          `json:"message,omitempty"`
	DailyAverage    float64         `json:"daily_average,omitempty"`
	ProjectedTotal  float64         `json:"projected_total,omitempty"`
	ProjectedExcess float64         `json:"projected_excess,omitempty"`
}

// Evaluator derives spent/remaining/projection numbers for budgets. Amounts
// are normalized into the canonical currency before aggregation.
type Evaluator struct {
	converter *currency.Converter
}

// NewEvaluator creates an Evaluator over the given converter.
func NewEvaluator(converter *currency.Converter) *Evaluator {
	return &Evaluator{converter: converter}
}

// Spent sums the canonical-currency value of the owner's expense
// transactions that fall inside the budget window, inclusive on both ends.
// Income never counts against a budget. Category 0 matches everything;
// otherwise only the budget's category is counted.
func (e *Evaluator) Spent(b models.Budget, transactions []models.Transaction) float64 {
	var total float64
	for _, t := range transactions {
		if t.UserID != b.UserID || t.Kind != models.KindExpense {
			continue
		}
		if t.OccurredAt < b.PeriodStart || t.OccurredAt > b.PeriodEnd {
			continue
		}
		if b.CategoryID != models.AllCategories && t.CategoryID != b.CategoryID {
			continue
		}
		total += e.converter.ToCanonical(t.Amount, t.CurrencyID)
	}
	return total
}

// PercentageSpent returns spent as a percentage of the cap. A zero cap yields
// 0 rather than dividing by zero.
func (e *Evaluator) PercentageSpent(b models.Budget, spent float64) float64 {
	if b.Amount == 0 {
		return 0
	}
	return spent / b.Amount * 100
}

// Remaining returns the unspent part of the cap. It goes negative on
// overspend; overruns are representable, not clamped.
func (e *Evaluator) Remaining(b models.Budget, spent float64) float64 {
	return b.Amount - spent
}

// Predict projects total spending for the window by extending the daily
// average observed so far. Day counts truncate: partial days do not count.
func (e *Evaluator) Predict(b models.Budget, spent float64, now int64) Projection {
	if now < b.PeriodStart {
		return Projection{State: ProjectionNotStarted}
	}
	if now > b.PeriodEnd {
		return Projection{State: ProjectionEnded, Message: "Budget period ended"}
	}

	daysElapsed := (now - b.PeriodStart) / dayMillis
	daysRemaining := (b.PeriodEnd - now) / dayMillis
	if daysElapsed == 0 {
		// Not enough data for a daily average yet.
		return Projection{State: ProjectionInProgress}
	}

	dailyAverage := spent / float64(daysElapsed)
	projectedTotal := spent + dailyAverage*float64(daysRemaining)
	projectedExcess := projectedTotal - b.Amount

	p := Projection{
		State:           ProjectionInProgress,
		DailyAverage:    dailyAverage,
		ProjectedTotal:  projectedTotal,
		ProjectedExcess: projectedExcess,
	}
	if projectedExcess > 0 {
		canonical := e.converter.Canonical()
		p.Message = "Prediction: may exceed budget by " +
			e.converter.Format(projectedExcess, canonical.ID) + " if spending continues"
	} else {
		p.Message = "On track to stay within budget"
	}
	return p
}
