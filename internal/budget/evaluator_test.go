package budget

import (
	"testing"

	"campusledger/internal/currency"
	"campusledger/internal/models"
	"campusledger/internal/store"
	"campusledger/internal/testutil"
)

const day = int64(24 * 60 * 60 * 1000)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	conv, err := currency.NewConverter(store.New(testutil.SetupTestDB(t)))
	if err != nil {
		t.Fatalf("failed to build converter: %v", err)
	}
	return NewEvaluator(conv)
}

func expense(userID, categoryID, currencyID uint, amount float64, occurredAt int64) models.Transaction {
	return models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		CurrencyID: currencyID,
		Amount:     amount,
		OccurredAt: occurredAt,
		Kind:       models.KindExpense,
	}
}

func TestSpent(t *testing.T) {
	e := newEvaluator(t)
	b := models.Budget{UserID: 1, CategoryID: models.AllCategories, Amount: 1000000, PeriodStart: 0, PeriodEnd: 30 * day}

	t.Run("sums_expenses_in_window", func(t *testing.T) {
		var txs []models.Transaction
		for i := int64(0); i < 10; i++ {
			txs = append(txs, expense(1, 1, 1, 100000, i*day))
		}
		if got := e.Spent(b, txs); got != 1000000 {
			t.Errorf("expected 1000000, got %f", got)
		}
	})

	t.Run("window_bounds_are_inclusive", func(t *testing.T) {
		txs := []models.Transaction{
			expense(1, 1, 1, 100, b.PeriodStart),
			expense(1, 1, 1, 200, b.PeriodEnd),
			expense(1, 1, 1, 400, b.PeriodEnd+1),
			expense(1, 1, 1, 800, b.PeriodStart-1),
		}
		if got := e.Spent(b, txs); got != 300 {
			t.Errorf("expected 300, got %f", got)
		}
	})

	t.Run("ignores_income_and_other_users", func(t *testing.T) {
		income := expense(1, 1, 1, 500, day)
		income.Kind = models.KindIncome
		txs := []models.Transaction{
			income,
			expense(2, 1, 1, 500, day),
			expense(1, 1, 1, 100, day),
		}
		if got := e.Spent(b, txs); got != 100 {
			t.Errorf("expected 100, got %f", got)
		}
	})

	t.Run("category_budget_filters", func(t *testing.T) {
		scoped := b
		scoped.CategoryID = 2
		txs := []models.Transaction{
			expense(1, 2, 1, 100, day),
			expense(1, 3, 1, 900, day),
		}
		if got := e.Spent(scoped, txs); got != 100 {
			t.Errorf("expected 100, got %f", got)
		}
	})

	t.Run("normalizes_foreign_amounts", func(t *testing.T) {
		txs := []models.Transaction{
			expense(1, 1, testutil.SeedUSDCurrencyID, 10, day),
		}
		if got := e.Spent(b, txs); got != 250000 {
			t.Errorf("expected 250000, got %f", got)
		}
	})
}

func TestPercentageSpent(t *testing.T) {
	e := newEvaluator(t)

	t.Run("full_consumption_is_100", func(t *testing.T) {
		b := models.Budget{Amount: 1000000}
		if got := e.PercentageSpent(b, 1000000); got != 100 {
			t.Errorf("expected 100, got %f", got)
		}
	})

	t.Run("zero_cap_yields_zero", func(t *testing.T) {
		b := models.Budget{Amount: 0}
		if got := e.PercentageSpent(b, 500); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})

	t.Run("overspend_exceeds_100", func(t *testing.T) {
		b := models.Budget{Amount: 100}
		if got := e.PercentageSpent(b, 150); got != 150 {
			t.Errorf("expected 150, got %f", got)
		}
	})
}

func TestRemaining(t *testing.T) {
	e := newEvaluator(t)
	b := models.Budget{Amount: 1000000}

	if got := e.Remaining(b, 1000000); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
	if got := e.Remaining(b, 1200000); got != -200000 {
		t.Errorf("expected -200000, got %f", got)
	}
}

func TestPredict(t *testing.T) {
	e := newEvaluator(t)
	b := models.Budget{UserID: 1, Amount: 1000000, PeriodStart: 0, PeriodEnd: 30 * day}

	t.Run("before_period_starts", func(t *testing.T) {
		p := e.Predict(b, 0, -day)
		if p.State != ProjectionNotStarted || p.Message != "" {
			t.Errorf("unexpected projection: %+v", p)
		}
	})

	t.Run("after_period_ends", func(t *testing.T) {
		p := e.Predict(b, 500000, b.PeriodEnd+1)
		if p.State != ProjectionEnded {
			t.Errorf("expected ended state, got %s", p.State)
		}
		if p.Message != "Budget period ended" {
			t.Errorf("unexpected message: %q", p.Message)
		}
	})

	t.Run("first_day_has_no_average", func(t *testing.T) {
		p := e.Predict(b, 500000, day-1)
		if p.State != ProjectionInProgress || p.Message != "" {
			t.Errorf("unexpected projection: %+v", p)
		}
	})

	t.Run("on_track", func(t *testing.T) {
		// 10 full days elapsed at 30k/day projects 900k against the 1M cap.
		p := e.Predict(b, 300000, 10*day)
		if p.State != ProjectionInProgress {
			t.Fatalf("expected in-progress state, got %s", p.State)
		}
		if p.Message != "On track to stay within budget" {
			t.Errorf("unexpected message: %q", p.Message)
		}
		if p.DailyAverage != 30000 {
			t.Errorf("expected daily average 30000, got %f", p.DailyAverage)
		}
	})

	t.Run("projected_overrun", func(t *testing.T) {
		// 10 days at 100k/day leaves 20 days: projection 3M, excess 2M.
		p := e.Predict(b, 1000000, 10*day)
		if p.State != ProjectionInProgress {
			t.Fatalf("expected in-progress state, got %s", p.State)
		}
		want := "Prediction: may exceed budget by 2.000.000đ if spending continues"
		if p.Message != want {
			t.Errorf("expected %q, got %q", want, p.Message)
		}
		if p.ProjectedExcess != 2000000 {
			t.Errorf("expected excess 2000000, got %f", p.ProjectedExcess)
		}
	})

	t.Run("day_counts_truncate", func(t *testing.T) {
		// Two and a half days in counts as two elapsed days.
		p := e.Predict(b, 200000, 2*day+day/2)
		if p.DailyAverage != 100000 {
			t.Errorf("expected daily average 100000, got %f", p.DailyAverage)
		}
	})
}
