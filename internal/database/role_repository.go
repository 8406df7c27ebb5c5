package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/referralhub/coupon-backend/internal/models"
)

// RoleRepository handles role assignment database operations
type RoleRepository struct {
	db DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{
		db: db,
	}
}

const roleColumns = `id, telegram_id, role, company_id, location_id,
	       start_date, end_date, changed_by, changed_date, is_locked`

// GetByTelegramID returns all role assignments of a user, including
// expired and locked ones. Callers filter by validity.
func (r *RoleRepository) GetByTelegramID(telegramID int64) ([]*models.RoleAssignment, error) {
	var roles []*models.RoleAssignment

	query := `
		SELECT ` + roleColumns + `
		FROM role_assignments
		WHERE telegram_id = $1
		ORDER BY id
	`

	err := r.db.Select(&roles, query, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role assignments: %w", err)
	}

	return roles, nil
}

// Find returns the assignment matching the (user, role, company) triple
func (r *RoleRepository) Find(telegramID int64, role string, companyID int64) (*models.RoleAssignment, error) {
	var assignment models.RoleAssignment

	query := `
		SELECT ` + roleColumns + `
		FROM role_assignments
		WHERE telegram_id = $1 AND role = $2 AND company_id = $3
		LIMIT 1
	`

	err := r.db.Get(&assignment, query, telegramID, role, companyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find role assignment: %w", err)
	}

	return &assignment, nil
}

// Create inserts a new role assignment
func (r *RoleRepository) Create(assignment *models.RoleAssignment) (*models.RoleAssignment, error) {
	query := `
		INSERT INTO role_assignments (
			telegram_id, role, company_id, location_id,
			start_date, end_date, changed_by, changed_date, is_locked
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		assignment.TelegramID,
		assignment.Role,
		assignment.CompanyID,
		assignment.LocationID,
		assignment.StartDate,
		assignment.EndDate,
		assignment.ChangedBy,
		assignment.ChangedDate,
		assignment.IsLocked,
	).Scan(&assignment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create role assignment: %w", err)
	}

	return assignment, nil
}

// Delete removes role assignments matching the conjunctive filters.
// Omitting role or locationID widens the match. Returns whether any
// row was removed.
func (r *RoleRepository) Delete(telegramID, companyID int64, role *string, locationID *int64) (bool, error) {
	query := `DELETE FROM role_assignments WHERE telegram_id = $1 AND company_id = $2`
	args := []interface{}{telegramID, companyID}

	if role != nil {
		args = append(args, *role)
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if locationID != nil {
		args = append(args, *locationID)
		query += fmt.Sprintf(" AND location_id = $%d", len(args))
	}

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete role assignments: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// CountCompaniesByRole counts the distinct companies in which the user
// holds the given role. Used for the per-owner company cap, which is
// recounted on every company creation instead of being denormalized.
func (r *RoleRepository) CountCompaniesByRole(telegramID int64, role string) (int, error) {
	var count int

	query := `
		SELECT COUNT(DISTINCT company_id)
		FROM role_assignments
		WHERE telegram_id = $1 AND role = $2
	`

	err := r.db.QueryRow(query, telegramID, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count companies by role: %w", err)
	}

	return count, nil
}

// ListByCompany returns role assignments scoped to a company, optionally
// narrowed by role name and location.
func (r *RoleRepository) ListByCompany(companyID int64, role *string, locationID *int64) ([]*models.RoleAssignment, error) {
	var roles []*models.RoleAssignment

	var sb strings.Builder
	sb.WriteString(`SELECT ` + roleColumns + ` FROM role_assignments WHERE company_id = $1`)
	args := []interface{}{companyID}

	if role != nil {
		args = append(args, *role)
		fmt.Fprintf(&sb, " AND role = $%d", len(args))
	}
	if locationID != nil {
		args = append(args, *locationID)
		fmt.Fprintf(&sb, " AND location_id = $%d", len(args))
	}
	sb.WriteString(" ORDER BY id")

	err := r.db.Select(&roles, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}

	return roles, nil
}

// CompanyIDsWithRoles returns the distinct companies in which the user
// holds any of the given roles.
func (r *RoleRepository) CompanyIDsWithRoles(telegramID int64, roles []string) ([]int64, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(roles))
	args := []interface{}{telegramID}
	for i, role := range roles {
		args = append(args, role)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT company_id
		FROM role_assignments
		WHERE telegram_id = $1 AND role IN (%s)
	`, strings.Join(placeholders, ", "))

	var ids []int64
	err := r.db.Select(&ids, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get company IDs by roles: %w", err)
	}

	return ids, nil
}

// NewAssignment builds a role assignment valid for the given number of
// days starting today.
func NewAssignment(telegramID int64, role string, companyID int64, locationID *int64, changedBy int64, validityDays int) *models.RoleAssignment {
	now := time.Now()
	assignment := &models.RoleAssignment{
		TelegramID:  telegramID,
		Role:        role,
		CompanyID:   companyID,
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, validityDays),
		ChangedBy:   changedBy,
		ChangedDate: now,
	}
	if locationID != nil {
		assignment.LocationID = models.NullInt64{NullInt64: sql.NullInt64{Int64: *locationID, Valid: true}}
	}
	return assignment
}
