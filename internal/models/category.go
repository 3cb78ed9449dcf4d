package models

// AllCategories is the sentinel category id used on budgets to mean
// "applies to every category". It is never a stored row.
const AllCategories uint = 0

// Category is a classification label for transactions. The default set is
// seeded at store creation; the presentation layer restricts selection to it.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Icon string `gorm:"column:icon_resource" json:"icon"`
}
