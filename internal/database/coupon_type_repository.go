package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/referralhub/coupon-backend/internal/models"
)

// CouponTypeRepository handles coupon type (collaboration) operations
type CouponTypeRepository struct {
	db DB
}

// NewCouponTypeRepository creates a new coupon type repository
func NewCouponTypeRepository(db DB) *CouponTypeRepository {
	return &CouponTypeRepository{
		db: db,
	}
}

const couponTypeColumns = `id, code_prefix, company_id, location_id,
	       company_agent_id, location_agent_id,
	       discount_percent, commission_percent,
	       require_all_groups, usage_limit,
	       start_date, end_date, days_for_used,
	       decision, is_active, created_at, updated_at`

// Create inserts a proposed coupon type. New rows always start pending
// and inactive; activation happens through Accept.
func (r *CouponTypeRepository) Create(ct *models.CouponType) (*models.CouponType, error) {
	ct.Decision = models.DecisionPending
	ct.IsActive = false
	ct.CreatedAt = time.Now()
	ct.UpdatedAt = ct.CreatedAt

	query := `
		INSERT INTO coupon_types (
			code_prefix, company_id, location_id,
			company_agent_id, location_agent_id,
			discount_percent, commission_percent,
			require_all_groups, usage_limit,
			start_date, end_date, days_for_used,
			decision, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		ct.CodePrefix,
		ct.CompanyID,
		ct.LocationID,
		ct.CompanyAgentID,
		ct.LocationAgentID,
		ct.DiscountPercent,
		ct.CommissionPct,
		ct.RequireAllGroups,
		ct.UsageLimit,
		ct.StartDate,
		ct.EndDate,
		ct.DaysForUsed,
		ct.Decision,
		ct.IsActive,
		ct.CreatedAt,
		ct.UpdatedAt,
	).Scan(&ct.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create coupon type: %w", err)
	}

	return ct, nil
}

// GetByID retrieves a coupon type by ID
func (r *CouponTypeRepository) GetByID(id int64) (*models.CouponType, error) {
	var ct models.CouponType

	query := `SELECT ` + couponTypeColumns + ` FROM coupon_types WHERE id = $1`

	err := r.db.Get(&ct, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon type by ID: %w", err)
	}

	return &ct, nil
}

// GetByPrefix retrieves a coupon type by its code prefix
func (r *CouponTypeRepository) GetByPrefix(prefix string) (*models.CouponType, error) {
	var ct models.CouponType

	query := `SELECT ` + couponTypeColumns + ` FROM coupon_types WHERE code_prefix = $1 LIMIT 1`

	err := r.db.Get(&ct, query, prefix)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon type by prefix: %w", err)
	}

	return &ct, nil
}

// Accept confirms a pending proposal and activates it in one atomic
// statement, so agent agreement and activation can never be observed
// half-applied. Returns the number of rows transitioned (0 when the
// row was not pending or does not exist).
func (r *CouponTypeRepository) Accept(id int64) (int64, error) {
	query := `
		UPDATE coupon_types
		SET decision = $1, is_active = true, updated_at = $2
		WHERE id = $3 AND decision = $4
	`

	result, err := r.db.Exec(query, models.DecisionAccepted, time.Now(), id, models.DecisionPending)
	if err != nil {
		return 0, fmt.Errorf("failed to accept coupon type: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Reject declines a pending proposal. The row stays inactive and the
// rejection is recorded explicitly so it stays distinguishable from a
// proposal that was never decided.
func (r *CouponTypeRepository) Reject(id int64) (int64, error) {
	query := `
		UPDATE coupon_types
		SET decision = $1, is_active = false, updated_at = $2
		WHERE id = $3 AND decision = $4
	`

	result, err := r.db.Exec(query, models.DecisionRejected, time.Now(), id, models.DecisionPending)
	if err != nil {
		return 0, fmt.Errorf("failed to reject coupon type: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Terminate deactivates a collaboration and closes its validity window.
// Re-applying the same values to an already terminated row is harmless,
// so this is idempotent by construction.
func (r *CouponTypeRepository) Terminate(id int64, endDate time.Time) (bool, error) {
	query := `
		UPDATE coupon_types
		SET is_active = false, end_date = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, endDate, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to terminate coupon type: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListByCompanyRole lists collaborations from one company's point of
// view. Single-role views return only live rows; the combined view is
// the full history including inactive rows.
func (r *CouponTypeRepository) ListByCompanyRole(companyID int64, roleFilter models.CollaborationRoleFilter) ([]*models.CouponType, error) {
	var types []*models.CouponType
	var query string

	switch roleFilter {
	case models.CollabRolePartner:
		query = `SELECT ` + couponTypeColumns + `
			FROM coupon_types WHERE company_id = $1 AND is_active = true ORDER BY id`
	case models.CollabRoleAgent:
		query = `SELECT ` + couponTypeColumns + `
			FROM coupon_types WHERE company_agent_id = $1 AND is_active = true ORDER BY id`
	case models.CollabRoleAll:
		query = `SELECT ` + couponTypeColumns + `
			FROM coupon_types WHERE company_id = $1 OR company_agent_id = $1 ORDER BY id`
	default:
		return nil, fmt.Errorf("unknown collaboration role filter: %s", roleFilter)
	}

	err := r.db.Select(&types, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupon types: %w", err)
	}

	return types, nil
}

// ListPendingForAgent returns incoming proposals awaiting the given
// agent company/location's decision.
func (r *CouponTypeRepository) ListPendingForAgent(companyAgentID, locationAgentID int64) ([]*models.CouponType, error) {
	var types []*models.CouponType

	query := `
		SELECT ` + couponTypeColumns + `
		FROM coupon_types
		WHERE company_agent_id = $1 AND location_agent_id = $2 AND decision = $3
		ORDER BY id
	`

	err := r.db.Select(&types, query, companyAgentID, locationAgentID, models.DecisionPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending coupon types: %w", err)
	}

	return types, nil
}
