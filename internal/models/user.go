package models

// User represents an account owner and their preferences. The password hash
// is opaque to the ledger core; only the auth layer interprets it.
type User struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Email             string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string `gorm:"column:password_hash;not null" json:"-"`
	Name              string `gorm:"not null" json:"name"`
	Address           string `json:"address,omitempty"`
	Phone             string `json:"phone,omitempty"`
	AvatarPath        string `json:"avatar_path,omitempty"`
	DarkModeEnabled   bool   `gorm:"column:dark_mode_enabled;default:false" json:"dark_mode_enabled"`
	DefaultCurrencyID uint   `gorm:"default:1" json:"default_currency_id"`
	CreatedAt         int64  `gorm:"autoCreateTime:milli;not null" json:"created_at"`
}
