package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campusledger/internal/models"
)

// Seeded rows the migrations install: the canonical currency is id 1, USD is
// id 2, and categories 1..10 exist.
const (
	SeedCanonicalCurrencyID uint = 1
	SeedUSDCurrencyID       uint = 2
	SeedFoodCategoryID      uint = 1
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:             email,
		PasswordHash:      string(hash),
		Name:              fmt.Sprintf("Test User %d", nextID()),
		DefaultCurrencyID: SeedCanonicalCurrencyID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates an expense in the canonical currency, dated
// occurredAt (epoch milliseconds).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, amount float64, occurredAt int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		CategoryID:  SeedFoodCategoryID,
		CurrencyID:  SeedCanonicalCurrencyID,
		Amount:      amount,
		OccurredAt:  occurredAt,
		Description: fmt.Sprintf("Test transaction %d", nextID()),
		Kind:        models.KindExpense,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestRecurringTransaction creates a recurring expense whose next
// occurrence is nextAt (epoch milliseconds).
func CreateTestRecurringTransaction(t *testing.T, db *gorm.DB, userID uint, period models.RecurrencePeriod, nextAt int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:           userID,
		CategoryID:       SeedFoodCategoryID,
		CurrencyID:       SeedCanonicalCurrencyID,
		Amount:           50000,
		OccurredAt:       time.Now().UnixMilli(),
		Description:      fmt.Sprintf("Test subscription %d", nextID()),
		Kind:             models.KindExpense,
		IsRecurring:      true,
		RecurrencePeriod: period,
		NextOccurrenceAt: nextAt,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an all-categories budget over the given window
// (epoch milliseconds).
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, amount float64, periodStart, periodEnd int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:      userID,
		CategoryID:  models.AllCategories,
		Amount:      amount,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
