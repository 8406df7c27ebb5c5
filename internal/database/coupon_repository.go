package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/referralhub/coupon-backend/internal/models"
)

// CouponRepository handles coupon database operations
type CouponRepository struct {
	db DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db DB) *CouponRepository {
	return &CouponRepository{
		db: db,
	}
}

const couponColumns = `id, code, coupon_type_id, client_id,
	       start_date, end_date, issued_by, used_by, status_id,
	       order_amount, location_used, company_used, used_at, created_at`

// Create inserts a new coupon
func (r *CouponRepository) Create(coupon *models.Coupon) (*models.Coupon, error) {
	coupon.CreatedAt = time.Now()

	query := `
		INSERT INTO coupons (
			code, coupon_type_id, client_id, start_date, end_date,
			issued_by, status_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		coupon.Code,
		coupon.CouponTypeID,
		coupon.ClientID,
		coupon.StartDate,
		coupon.EndDate,
		coupon.IssuedBy,
		coupon.StatusID,
		coupon.CreatedAt,
	).Scan(&coupon.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	return coupon, nil
}

// GetByCode retrieves a coupon by its unique code
func (r *CouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon

	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	err := r.db.Get(&coupon, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}

	return &coupon, nil
}

// Redeem marks an active coupon as used in a single conditional update.
// The status guard in the WHERE clause is what makes redemption
// exactly-once: a concurrent redeemer gets zero rows back instead of a
// double spend. Returns the rows transitioned.
func (r *CouponRepository) Redeem(code string, usedBy int64, orderAmount float64, companyUsed, locationUsed *int64, usedAt time.Time) (int64, error) {
	query := `
		UPDATE coupons
		SET status_id = $1, used_by = $2, order_amount = $3,
		    company_used = $4, location_used = $5, used_at = $6
		WHERE code = $7 AND status_id = $8
	`

	result, err := r.db.Exec(
		query,
		models.CouponStatusUsed,
		usedBy,
		orderAmount,
		companyUsed,
		locationUsed,
		usedAt,
		code,
		models.CouponStatusActive,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// MarkExpired flips an active coupon to expired. The status guard keeps
// a concurrent redemption from being overwritten.
func (r *CouponRepository) MarkExpired(code string) error {
	query := `
		UPDATE coupons
		SET status_id = $1
		WHERE code = $2 AND status_id = $3
	`

	if _, err := r.db.Exec(query, models.CouponStatusExpired, code, models.CouponStatusActive); err != nil {
		return fmt.Errorf("failed to mark coupon expired: %w", err)
	}

	return nil
}

// Cancel administratively cancels an active coupon
func (r *CouponRepository) Cancel(code string) (bool, error) {
	query := `
		UPDATE coupons
		SET status_id = $1
		WHERE code = $2 AND status_id = $3
	`

	result, err := r.db.Exec(query, models.CouponStatusCancelled, code, models.CouponStatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to cancel coupon: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ExpireOverdueForClient lazily flips the client's overdue active
// coupons to expired, so listings never hand back logically dead
// coupons as active.
func (r *CouponRepository) ExpireOverdueForClient(clientID int64, today time.Time) (int64, error) {
	query := `
		UPDATE coupons
		SET status_id = $1
		WHERE client_id = $2 AND status_id = $3 AND end_date < $4
	`

	result, err := r.db.Exec(query, models.CouponStatusExpired, clientID, models.CouponStatusActive, today)
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue coupons: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// ListActiveByClient returns the client's active coupons
func (r *CouponRepository) ListActiveByClient(clientID int64) ([]*models.Coupon, error) {
	var coupons []*models.Coupon

	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE client_id = $1 AND status_id = $2
		ORDER BY end_date
	`

	err := r.db.Select(&coupons, query, clientID, models.CouponStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active coupons: %w", err)
	}

	return coupons, nil
}

// CountByType counts the coupons minted from a coupon type, used for
// usage limit enforcement.
func (r *CouponRepository) CountByType(couponTypeID int64) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM coupons WHERE coupon_type_id = $1`

	err := r.db.QueryRow(query, couponTypeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count coupons by type: %w", err)
	}

	return count, nil
}

// ListAll returns every coupon, newest first. Used by reporting.
func (r *CouponRepository) ListAll() ([]*models.Coupon, error) {
	var coupons []*models.Coupon

	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY id DESC`

	err := r.db.Select(&coupons, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	return coupons, nil
}

// CountByStatus returns the number of coupons in the given status
func (r *CouponRepository) CountByStatus(statusID int) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM coupons WHERE status_id = $1`

	err := r.db.QueryRow(query, statusID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count coupons by status: %w", err)
	}

	return count, nil
}

// CountCoupons returns the total number of coupons
func (r *CouponRepository) CountCoupons() (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM coupons`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	return count, nil
}
