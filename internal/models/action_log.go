package models

import (
	"time"
)

// Action types recorded by the audit service
const (
	ActionCouponIssued   = "coupon_issued"
	ActionCouponRedeemed = "coupon_redeemed"
	ActionRoleAssigned   = "role_assigned"
	ActionRoleRemoved    = "role_removed"
	ActionCompanyCreated = "company_created"
	ActionCollabProposed = "collab_proposed"
	ActionCollabDecided  = "collab_decided"
	ActionCollabEnded    = "collab_terminated"
)

// ActionLog is a best-effort audit record of a user action
type ActionLog struct {
	ID         int64      `json:"id" db:"id"`
	TelegramID int64      `json:"telegram_id" db:"telegram_id"`
	ActionType string     `json:"action_type" db:"action_type"`
	EntityID   NullInt64  `json:"entity_id,omitempty" db:"entity_id"`
	Details    NullString `json:"details,omitempty" db:"details"`
	IPAddress  NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  NullString `json:"user_agent,omitempty" db:"user_agent"`
	Timestamp  time.Time  `json:"timestamp" db:"timestamp"`
}

// AdminUser is a back-office account for the admin API
type AdminUser struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
