// Package notify publishes user-facing ledger events. The production
// publisher pushes them to a message broker; a log-only fallback keeps the
// service functional when no broker is configured.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecurringMaterializedEvent announces that a scheduled transaction was
// charged by the recurrence sweep.
type RecurringMaterializedEvent struct {
	EventID         string    `json:"event_id"`
	UserID          uint      `json:"user_id"`
	TransactionID   uint      `json:"transaction_id"`
	CategoryName    string    `json:"category_name"`
	FormattedAmount string    `json:"formatted_amount"`
	OccurredAt      int64     `json:"occurred_at"`
	EmittedAt       time.Time `json:"emitted_at"`
}

// BudgetAlertEvent announces that a budget crossed the alert threshold or
// that its projection expects an overrun.
type BudgetAlertEvent struct {
	EventID            string    `json:"event_id"`
	UserID             uint      `json:"user_id"`
	BudgetID           uint      `json:"budget_id"`
	CategoryName       string    `json:"category_name"`
	PercentageSpent    float64   `json:"percentage_spent"`
	FormattedRemaining string    `json:"formatted_remaining"`
	PredictionResult   string    `json:"prediction_result,omitempty"`
	EmittedAt          time.Time `json:"emitted_at"`
}

// Notifier delivers ledger events. Implementations must be safe for
// concurrent use.
type Notifier interface {
	PublishRecurringMaterialized(ctx context.Context, event RecurringMaterializedEvent) error
	PublishBudgetAlert(ctx context.Context, event BudgetAlertEvent) error
	Close() error
}

// NewRecurringMaterializedEvent stamps the event with an id and emit time.
func NewRecurringMaterializedEvent(userID, transactionID uint, categoryName, formattedAmount string, occurredAt int64) RecurringMaterializedEvent {
	return RecurringMaterializedEvent{
		EventID:         uuid.NewString(),
		UserID:          userID,
		TransactionID:   transactionID,
		CategoryName:    categoryName,
		FormattedAmount: formattedAmount,
		OccurredAt:      occurredAt,
		EmittedAt:       time.Now(),
	}
}

// NewBudgetAlertEvent stamps the event with an id and emit time.
func NewBudgetAlertEvent(userID, budgetID uint, categoryName string, percentageSpent float64, formattedRemaining, predictionResult string) BudgetAlertEvent {
	return BudgetAlertEvent{
		EventID:            uuid.NewString(),
		UserID:             userID,
		BudgetID:           budgetID,
		CategoryName:       categoryName,
		PercentageSpent:    percentageSpent,
		FormattedRemaining: formattedRemaining,
		PredictionResult:   predictionResult,
		EmittedAt:          time.Now(),
	}
}
