package models

import (
	"time"
)

// Role names recognised by the permission resolver. Any other value in
// a role assignment resolves to an empty capability set.
const (
	RoleOwner   = "owner"
	RolePartner = "partner"
	RoleAdmin   = "admin"
	RoleClient  = "client"
)

// BusinessRoles are the roles whose actions are gated by a company
// subscription.
var BusinessRoles = []string{RoleOwner, RolePartner, RoleAdmin}

// RoleAssignment is a time-bounded grant of a role to a user within a
// company and optional location scope.
type RoleAssignment struct {
	ID          int64     `json:"id" db:"id"`
	TelegramID  int64     `json:"telegram_id" db:"telegram_id"`
	Role        string    `json:"role" db:"role"`
	CompanyID   int64     `json:"company_id" db:"company_id"`
	LocationID  NullInt64 `json:"location_id,omitempty" db:"location_id"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	ChangedBy   int64     `json:"changed_by" db:"changed_by"`
	ChangedDate time.Time `json:"changed_date" db:"changed_date"`
	IsLocked    bool      `json:"is_locked" db:"is_locked"`
}

// ActiveOn reports whether the assignment grants anything on the given
// day. Locked or out-of-window assignments never grant permissions,
// even before they are purged.
func (ra *RoleAssignment) ActiveOn(day time.Time) bool {
	if ra.IsLocked {
		return false
	}
	d := day.Truncate(24 * time.Hour)
	return !ra.StartDate.Truncate(24*time.Hour).After(d) && !ra.EndDate.Before(d)
}
