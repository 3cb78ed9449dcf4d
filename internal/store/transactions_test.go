package store

import (
	"testing"
	"time"

	"campusledger/internal/models"
	"campusledger/internal/testutil"
)

func TestInsertTransaction(t *testing.T) {
	t.Run("valid_round_trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now().UnixMilli()
		tx := &models.Transaction{
			UserID:      user.ID,
			CategoryID:  testutil.SeedFoodCategoryID,
			Amount:      75000,
			OccurredAt:  now,
			Description: "Lunch",
			Kind:        models.KindExpense,
		}
		testutil.AssertNoError(t, s.InsertTransaction(tx))
		if tx.ID == 0 {
			t.Fatal("expected non-zero transaction ID")
		}
		if tx.CurrencyID != 1 {
			t.Errorf("expected default currency 1, got %d", tx.CurrencyID)
		}

		got, err := s.GetTransactionByID(tx.ID)
		testutil.AssertNoError(t, err)
		if got.Amount != 75000 || got.Description != "Lunch" || got.OccurredAt != now {
			t.Errorf("round trip mismatch: %+v", got)
		}
		if got.CreatedAt == 0 {
			t.Error("expected created_at to be set")
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)

		tx := &models.Transaction{
			UserID:     user.ID,
			CategoryID: testutil.SeedFoodCategoryID,
			Amount:     0,
			OccurredAt: time.Now().UnixMilli(),
			Kind:       models.KindExpense,
		}
		testutil.AssertAppError(t, s.InsertTransaction(tx), "NON_POSITIVE_AMOUNT")
	})

	t.Run("invalid_kind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)

		tx := &models.Transaction{
			UserID:     user.ID,
			CategoryID: testutil.SeedFoodCategoryID,
			Amount:     100,
			OccurredAt: time.Now().UnixMilli(),
			Kind:       "transfer",
		}
		testutil.AssertAppError(t, s.InsertTransaction(tx), "INVALID_KIND")
	})

	t.Run("recurring_needs_period_and_next_occurrence", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)

		tx := &models.Transaction{
			UserID:      user.ID,
			CategoryID:  testutil.SeedFoodCategoryID,
			Amount:      100,
			OccurredAt:  time.Now().UnixMilli(),
			Kind:        models.KindExpense,
			IsRecurring: true,
		}
		testutil.AssertAppError(t, s.InsertTransaction(tx), "INVALID_RECURRENCE")
	})

	t.Run("non_recurring_clears_stray_recurrence_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)

		tx := &models.Transaction{
			UserID:           user.ID,
			CategoryID:       testutil.SeedFoodCategoryID,
			Amount:           100,
			OccurredAt:       time.Now().UnixMilli(),
			Kind:             models.KindExpense,
			RecurrencePeriod: models.PeriodWeekly,
			NextOccurrenceAt: time.Now().UnixMilli(),
		}
		testutil.AssertNoError(t, s.InsertTransaction(tx))

		got, err := s.GetTransactionByID(tx.ID)
		testutil.AssertNoError(t, err)
		if got.IsRecurring || got.RecurrencePeriod != "" || got.NextOccurrenceAt != 0 {
			t.Errorf("expected cleared recurrence fields, got %+v", got)
		}
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)

		tx := &models.Transaction{
			UserID:     user.ID,
			CategoryID: 9999,
			Amount:     100,
			OccurredAt: time.Now().UnixMilli(),
			Kind:       models.KindExpense,
		}
		testutil.AssertAppError(t, s.InsertTransaction(tx), "CATEGORY_NOT_FOUND")
	})

	t.Run("unknown_user", func(t *testing.T) {
		s := New(testutil.SetupTestDB(t))

		tx := &models.Transaction{
			UserID:     9999,
			CategoryID: testutil.SeedFoodCategoryID,
			Amount:     100,
			OccurredAt: time.Now().UnixMilli(),
			Kind:       models.KindExpense,
		}
		testutil.AssertAppError(t, s.InsertTransaction(tx), "USER_NOT_FOUND")
	})
}

func TestListTransactionsByUser(t *testing.T) {
	t.Run("newest_first_and_owner_scoped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		base := time.Now().UnixMilli()
		old := testutil.CreateTestTransaction(t, db, user.ID, 100, base-1000)
		newer := testutil.CreateTestTransaction(t, db, user.ID, 200, base)
		testutil.CreateTestTransaction(t, db, other.ID, 300, base)

		list, err := s.ListTransactionsByUser(user.ID)
		testutil.AssertNoError(t, err)
		if len(list) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(list))
		}
		if list[0].ID != newer.ID || list[1].ID != old.ID {
			t.Errorf("expected newest first, got ids %d, %d", list[0].ID, list[1].ID)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, 100, time.Now().UnixMilli())

		tx.Amount = 250
		tx.Description = "Corrected"
		testutil.AssertNoError(t, s.UpdateTransaction(tx))

		got, err := s.GetTransactionByID(tx.ID)
		testutil.AssertNoError(t, err)
		if got.Amount != 250 || got.Description != "Corrected" {
			t.Errorf("update not persisted: %+v", got)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)

		tx := &models.Transaction{
			ID:         9999,
			UserID:     user.ID,
			CategoryID: testutil.SeedFoodCategoryID,
			Amount:     100,
			OccurredAt: time.Now().UnixMilli(),
			Kind:       models.KindExpense,
		}
		testutil.AssertAppError(t, s.UpdateTransaction(tx), "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("reinsert_gets_new_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, 100, time.Now().UnixMilli())
		originalID := tx.ID

		testutil.AssertNoError(t, s.DeleteTransaction(tx.ID))
		_, err := s.GetTransactionByID(originalID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		// Undo by re-insertion: same content, fresh identity.
		restored := *tx
		restored.ID = 0
		testutil.AssertNoError(t, s.InsertTransaction(&restored))
		if restored.ID == originalID {
			t.Errorf("expected a new id on re-insertion, got %d again", originalID)
		}
	})
}

func TestListDueRecurringTransactions(t *testing.T) {
	t.Run("due_boundary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		s := New(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now().UnixMilli()
		past := testutil.CreateTestRecurringTransaction(t, db, user.ID, models.PeriodWeekly, now-1000)
		exact := testutil.CreateTestRecurringTransaction(t, db, user.ID, models.PeriodMonthly, now)
		testutil.CreateTestRecurringTransaction(t, db, user.ID, models.PeriodYearly, now+1000)
		testutil.CreateTestTransaction(t, db, user.ID, 100, now-1000) // not recurring

		due, err := s.ListDueRecurringTransactions(now)
		testutil.AssertNoError(t, err)
		if len(due) != 2 {
			t.Fatalf("expected 2 due transactions, got %d", len(due))
		}
		ids := map[uint]bool{due[0].ID: true, due[1].ID: true}
		if !ids[past.ID] || !ids[exact.ID] {
			t.Errorf("expected ids %d and %d, got %v", past.ID, exact.ID, ids)
		}
	})
}
