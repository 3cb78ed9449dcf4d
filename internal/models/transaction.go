package models

// TransactionKind distinguishes money leaving from money arriving. The
// amount itself is always positive; the kind carries the sign.
type TransactionKind string

const (
	KindExpense TransactionKind = "expense"
	KindIncome  TransactionKind = "income"
)

// Valid reports whether the kind is one of the two supported values.
func (k TransactionKind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// RecurrencePeriod is the cadence at which a recurring transaction
// re-materializes.
type RecurrencePeriod string

const (
	PeriodWeekly  RecurrencePeriod = "weekly"
	PeriodMonthly RecurrencePeriod = "monthly"
	PeriodYearly  RecurrencePeriod = "yearly"
)

// Valid reports whether the period is one of the supported cadences.
func (p RecurrencePeriod) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Transaction is a single ledger entry. Timestamps are epoch milliseconds;
// OccurredAt is when the money moved, CreatedAt when the row was written.
//
// When IsRecurring is set, RecurrencePeriod and NextOccurrenceAt describe the
// schedule the recurrence engine materializes from. Materialized occurrences
// are always written as independent non-recurring entries.
type Transaction struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UserID           uint             `gorm:"not null;index" json:"user_id"`
	CategoryID       uint             `gorm:"not null" json:"category_id"`
	CurrencyID       uint             `gorm:"default:1" json:"currency_id"`
	Amount           float64          `gorm:"not null" json:"amount"`
	OccurredAt       int64            `gorm:"column:occurred_at;not null;index" json:"occurred_at"`
	Description      string           `json:"description"`
	ReceiptPath      string           `json:"receipt_path,omitempty"`
	Kind             TransactionKind  `gorm:"not null;default:'expense'" json:"kind"`
	IsRecurring      bool             `gorm:"default:false" json:"is_recurring"`
	RecurrencePeriod RecurrencePeriod `json:"recurrence_period,omitempty"`
	NextOccurrenceAt int64            `gorm:"default:0" json:"next_occurrence_at"`
	CreatedAt        int64            `gorm:"autoCreateTime:milli;not null" json:"created_at"`
}

// ClearRecurrence resets the recurrence sub-record to its non-recurring
// state.
func (t *Transaction) ClearRecurrence() {
	t.IsRecurring = false
	t.RecurrencePeriod = ""
	t.NextOccurrenceAt = 0
}
