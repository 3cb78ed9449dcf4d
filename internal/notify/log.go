package notify

import (
	"context"

	"campusledger/internal/logger"
)

// LogNotifier writes events to the application log instead of a broker. It is
// the default when AMQP_URL is unset.
type LogNotifier struct{}

// NewLogNotifier returns a notifier that only logs.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) PublishRecurringMaterialized(_ context.Context, event RecurringMaterializedEvent) error {
	logger.Get().Infow("recurring charge",
		"event_id", event.EventID,
		"user_id", event.UserID,
		"transaction_id", event.TransactionID,
		"category", event.CategoryName,
		"amount", event.FormattedAmount,
	)
	return nil
}

func (n *LogNotifier) PublishBudgetAlert(_ context.Context, event BudgetAlertEvent) error {
	logger.Get().Infow("budget alert",
		"event_id", event.EventID,
		"user_id", event.UserID,
		"budget_id", event.BudgetID,
		"category", event.CategoryName,
		"percentage_spent", event.PercentageSpent,
		"remaining", event.FormattedRemaining,
	)
	return nil
}

func (n *LogNotifier) Close() error { return nil }
