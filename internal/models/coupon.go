package models

import (
	"time"
)

// Coupon status IDs. Used, expired and cancelled are terminal.
const (
	CouponStatusActive    = 1
	CouponStatusUsed      = 2
	CouponStatusExpired   = 3
	CouponStatusCancelled = 4
)

var couponStatusNames = map[int]string{
	CouponStatusActive:    "active",
	CouponStatusUsed:      "used",
	CouponStatusExpired:   "expired",
	CouponStatusCancelled: "cancelled",
}

// CouponStatusName returns the display name of a status ID
func CouponStatusName(statusID int) string {
	if name, ok := couponStatusNames[statusID]; ok {
		return name
	}
	return "unknown"
}

// Coupon is a single redeemable instance minted from a coupon type
type Coupon struct {
	ID           int64       `json:"id" db:"id"`
	Code         string      `json:"code" db:"code"`
	CouponTypeID int64       `json:"coupon_type_id" db:"coupon_type_id"`
	ClientID     int64       `json:"client_id" db:"client_id"`
	StartDate    time.Time   `json:"start_date" db:"start_date"`
	EndDate      time.Time   `json:"end_date" db:"end_date"`
	IssuedBy     int64       `json:"issued_by" db:"issued_by"`
	UsedBy       NullInt64   `json:"used_by,omitempty" db:"used_by"`
	StatusID     int         `json:"status_id" db:"status_id"`
	OrderAmount  NullFloat64 `json:"order_amount,omitempty" db:"order_amount"`
	LocationUsed NullInt64   `json:"location_used,omitempty" db:"location_used"`
	CompanyUsed  NullInt64   `json:"company_used,omitempty" db:"company_used"`
	UsedAt       NullTime    `json:"used_at,omitempty" db:"used_at"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// Status returns the display name of the coupon status
func (c *Coupon) Status() string {
	return CouponStatusName(c.StatusID)
}

// ExpiredOn reports whether the coupon's validity window has passed on
// the given day, regardless of the stored status.
func (c *Coupon) ExpiredOn(day time.Time) bool {
	return c.EndDate.Before(day.Truncate(24 * time.Hour))
}
