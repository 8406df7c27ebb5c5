package models

import (
	"time"
)

// User represents a bot user resolved from a Telegram identity.
// The Telegram ID is the stable external key; users are never hard
// deleted because coupons and role assignments reference them.
type User struct {
	ID         int64      `json:"id" db:"id"`
	TelegramID int64      `json:"telegram_id" db:"telegram_id"`
	Username   NullString `json:"username,omitempty" db:"username"`
	FirstName  string     `json:"first_name" db:"first_name"`
	LastName   string     `json:"last_name" db:"last_name"`
	Phone      string     `json:"phone" db:"phone"`
	RegDate    time.Time  `json:"reg_date" db:"reg_date"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// DisplayName returns a human readable name for rendering summaries
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
