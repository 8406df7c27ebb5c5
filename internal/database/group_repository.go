package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/referralhub/coupon-backend/internal/models"
)

// GroupRepository handles Telegram group and coupon-type group links
type GroupRepository struct {
	db DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db DB) *GroupRepository {
	return &GroupRepository{
		db: db,
	}
}

// Create registers a Telegram group for a company
func (r *GroupRepository) Create(group *models.TelegramGroup) (*models.TelegramGroup, error) {
	group.CreatedAt = time.Now()

	query := `
		INSERT INTO telegram_groups (group_id, company_id, name, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		group.GroupID,
		group.CompanyID,
		group.Name,
		group.IsActive,
		group.CreatedAt,
	).Scan(&group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram group: %w", err)
	}

	return group, nil
}

// GetByID retrieves a group by internal ID
func (r *GroupRepository) GetByID(id int64) (*models.TelegramGroup, error) {
	var group models.TelegramGroup

	query := `
		SELECT id, group_id, company_id, name, is_active, created_at
		FROM telegram_groups
		WHERE id = $1
	`

	err := r.db.Get(&group, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get telegram group by ID: %w", err)
	}

	return &group, nil
}

// ListByCompany returns all groups registered for a company
func (r *GroupRepository) ListByCompany(companyID int64) ([]*models.TelegramGroup, error) {
	var groups []*models.TelegramGroup

	query := `
		SELECT id, group_id, company_id, name, is_active, created_at
		FROM telegram_groups
		WHERE company_id = $1
		ORDER BY id
	`

	err := r.db.Select(&groups, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list telegram groups: %w", err)
	}

	return groups, nil
}

// Delete removes a group, checking company ownership first
func (r *GroupRepository) Delete(id, companyID int64) (bool, error) {
	result, err := r.db.Exec(
		`DELETE FROM telegram_groups WHERE id = $1 AND company_id = $2`, id, companyID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete telegram group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// AttachToCouponType requires the group for coupons of the given type.
// Re-attaching is a no-op.
func (r *GroupRepository) AttachToCouponType(couponTypeID, groupID int64) error {
	query := `
		INSERT INTO coupon_type_groups (coupon_type_id, group_id)
		VALUES ($1, $2)
		ON CONFLICT (coupon_type_id, group_id) DO NOTHING
	`

	if _, err := r.db.Exec(query, couponTypeID, groupID); err != nil {
		return fmt.Errorf("failed to attach group to coupon type: %w", err)
	}

	return nil
}

// RequiredGroupChatIDs returns the Telegram chat IDs of the active
// groups required by a coupon type.
func (r *GroupRepository) RequiredGroupChatIDs(couponTypeID int64) ([]int64, error) {
	var chatIDs []int64

	query := `
		SELECT tg.group_id
		FROM coupon_type_groups ctg
		JOIN telegram_groups tg ON tg.id = ctg.group_id
		WHERE ctg.coupon_type_id = $1 AND tg.is_active = true
		ORDER BY tg.group_id
	`

	err := r.db.Select(&chatIDs, query, couponTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get required group chat IDs: %w", err)
	}

	return chatIDs, nil
}
