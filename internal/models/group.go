package models

import (
	"time"
)

// TelegramGroup is a community group owned by a company. Coupon types
// may require clients to be members before a coupon is issued.
type TelegramGroup struct {
	ID        int64     `json:"id" db:"id"`
	GroupID   int64     `json:"group_id" db:"group_id"` // Telegram chat ID
	CompanyID int64     `json:"company_id" db:"company_id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CouponTypeGroup attaches a required group to a coupon type
type CouponTypeGroup struct {
	ID           int64 `json:"id" db:"id"`
	CouponTypeID int64 `json:"coupon_type_id" db:"coupon_type_id"`
	GroupID      int64 `json:"group_id" db:"group_id"` // references telegram_groups.id
}
