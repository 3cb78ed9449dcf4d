package models

// Currency is an exchange unit. Exactly one currency carries rate 1.0 and is
// the canonical unit for all aggregate calculations; rates are static until
// an administrator edits them.
type Currency struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Code   string  `gorm:"uniqueIndex;not null" json:"code"`
	Rate   float64 `gorm:"column:rate_to_base;default:1" json:"rate_to_base"`
	Symbol string  `gorm:"not null" json:"symbol"`
}

// IsCanonical reports whether this currency is the canonical accounting unit.
func (c Currency) IsCanonical() bool {
	return c.Rate == 1.0
}
