package models

// Budget is a spending cap over a time window, expressed in the canonical
// currency. CategoryID 0 (AllCategories) makes the cap apply across every
// category. Period bounds are epoch milliseconds with PeriodEnd > PeriodStart.
type Budget struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"not null;index" json:"user_id"`
	CategoryID  uint    `gorm:"default:0" json:"category_id"`
	Amount      float64 `gorm:"not null" json:"amount"`
	PeriodStart int64   `gorm:"not null" json:"period_start"`
	PeriodEnd   int64   `gorm:"not null" json:"period_end"`
	CreatedAt   int64   `gorm:"autoCreateTime:milli;not null" json:"created_at"`
}
