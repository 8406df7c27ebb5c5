package database

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/referralhub/coupon-backend/internal/models"
)

// SubscriptionRepository handles company subscription operations
type SubscriptionRepository struct {
	db DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db DB) *SubscriptionRepository {
	return &SubscriptionRepository{
		db: db,
	}
}

// Create inserts a new subscription
func (r *SubscriptionRepository) Create(sub *models.Subscription) (*models.Subscription, error) {
	sub.CreatedAt = time.Now()

	query := `
		INSERT INTO subscriptions (company_id, location_id, start_date, end_date, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		sub.CompanyID,
		sub.LocationID,
		sub.StartDate,
		sub.EndDate,
		sub.IsActive,
		sub.CreatedAt,
	).Scan(&sub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return sub, nil
}

// CountActive counts subscriptions of a company whose window covers the
// given day and whose active flag is set.
func (r *SubscriptionRepository) CountActive(companyID int64, day time.Time) (int, error) {
	var count int

	query := `
		SELECT COUNT(*)
		FROM subscriptions
		WHERE company_id = $1 AND is_active = true
		  AND start_date <= $2 AND end_date >= $2
	`

	err := r.db.QueryRow(query, companyID, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active subscriptions: %w", err)
	}

	return count, nil
}

// CountActiveForCompanies counts active subscriptions across a set of
// companies, used by the per-user subscription gate.
func (r *SubscriptionRepository) CountActiveForCompanies(companyIDs []int64, day time.Time) (int, error) {
	if len(companyIDs) == 0 {
		return 0, nil
	}

	var count int

	query := `
		SELECT COUNT(*)
		FROM subscriptions
		WHERE company_id = ANY($1) AND is_active = true
		  AND start_date <= $2 AND end_date >= $2
	`

	err := r.db.QueryRow(query, pq.Array(companyIDs), day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active subscriptions for companies: %w", err)
	}

	return count, nil
}

// Deactivate clears the active flag on a subscription
func (r *SubscriptionRepository) Deactivate(id int64) (bool, error) {
	result, err := r.db.Exec(`UPDATE subscriptions SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
