package models

import (
	"time"
)

// Subscription is a company-level service-access record. It gates
// partner/admin business actions and is independent of the
// collaboration lifecycle.
type Subscription struct {
	ID         int64     `json:"id" db:"id"`
	CompanyID  int64     `json:"company_id" db:"company_id"`
	LocationID NullInt64 `json:"location_id,omitempty" db:"location_id"`
	StartDate  time.Time `json:"start_date" db:"start_date"`
	EndDate    time.Time `json:"end_date" db:"end_date"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
