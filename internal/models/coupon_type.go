package models

import (
	"fmt"
	"time"
)

// CollaborationDecision is the agent side's answer to a proposal.
// A tri-state is stored instead of a single boolean so that "never
// decided" and "explicitly declined" remain distinguishable.
type CollaborationDecision string

const (
	DecisionPending  CollaborationDecision = "pending"
	DecisionAccepted CollaborationDecision = "accepted"
	DecisionRejected CollaborationDecision = "rejected"
)

// CollaborationState is the derived lifecycle state of a coupon type
type CollaborationState string

const (
	StateProposed   CollaborationState = "proposed"
	StateActive     CollaborationState = "active"
	StateRejected   CollaborationState = "rejected"
	StateTerminated CollaborationState = "terminated"
)

// CouponType is the collaboration contract between an issuing company
// and an agent company. Coupons are minted from it while it is live.
type CouponType struct {
	ID               int64                 `json:"id" db:"id"`
	CodePrefix       string                `json:"code_prefix" db:"code_prefix"`
	CompanyID        int64                 `json:"company_id" db:"company_id"`
	LocationID       int64                 `json:"location_id" db:"location_id"`
	CompanyAgentID   int64                 `json:"company_agent_id" db:"company_agent_id"`
	LocationAgentID  int64                 `json:"location_agent_id" db:"location_agent_id"`
	DiscountPercent  float64               `json:"discount_percent" db:"discount_percent"`
	CommissionPct    float64               `json:"commission_percent" db:"commission_percent"`
	RequireAllGroups bool                  `json:"require_all_groups" db:"require_all_groups"`
	UsageLimit       int                   `json:"usage_limit" db:"usage_limit"`
	StartDate        time.Time             `json:"start_date" db:"start_date"`
	EndDate          time.Time             `json:"end_date" db:"end_date"`
	DaysForUsed      int                   `json:"days_for_used" db:"days_for_used"`
	Decision         CollaborationDecision `json:"decision" db:"decision"`
	IsActive         bool                  `json:"is_active" db:"is_active"`
	CreatedAt        time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at" db:"updated_at"`
}

// AgentAgree is the legacy boolean projection of the decision field,
// kept for the external JSON contract of collaboration summaries.
func (ct *CouponType) AgentAgree() bool {
	return ct.Decision == DecisionAccepted
}

// State derives the lifecycle state from the stored fields
func (ct *CouponType) State() CollaborationState {
	switch {
	case ct.IsActive:
		return StateActive
	case ct.Decision == DecisionRejected:
		return StateRejected
	case ct.Decision == DecisionAccepted:
		// accepted but no longer active means the agreement was ended
		return StateTerminated
	default:
		return StateProposed
	}
}

// BuildCodePrefix derives the human-readable coupon code prefix for a
// proposal. The format is an external contract: CPN-{company}-{discount}.
func BuildCodePrefix(companyID int64, discountPercent float64) string {
	return fmt.Sprintf("CPN-%d-%d", companyID, int(discountPercent))
}

// CollaborationTerms are the validated inputs of a proposal
type CollaborationTerms struct {
	CompanyID        int64     `json:"company_id"`
	LocationID       int64     `json:"location_id"`
	CompanyAgentID   int64     `json:"company_agent_id"`
	LocationAgentID  int64     `json:"location_agent_id"`
	DiscountPercent  float64   `json:"discount_percent"`
	CommissionPct    float64   `json:"commission_percent"`
	RequireAllGroups bool      `json:"require_all_groups"`
	UsageLimit       int       `json:"usage_limit"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	DaysForUsed      int       `json:"days_for_used"`
}

// CollaborationRoleFilter selects which side of a collaboration a
// company is viewed from when listing.
type CollaborationRoleFilter string

const (
	// CollabRolePartner lists live collaborations where the company is the issuer
	CollabRolePartner CollaborationRoleFilter = "partner"
	// CollabRoleAgent lists live collaborations where the company is the agent
	CollabRoleAgent CollaborationRoleFilter = "agent"
	// CollabRoleAll lists the full history on both sides
	CollabRoleAll CollaborationRoleFilter = "all"
)
