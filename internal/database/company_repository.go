package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/referralhub/coupon-backend/internal/models"
)

// CompanyRepository handles company database operations
type CompanyRepository struct {
	db DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db DB) *CompanyRepository {
	return &CompanyRepository{
		db: db,
	}
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(id int64) (*models.Company, error) {
	var company models.Company

	query := `
		SELECT id, name, created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	err := r.db.Get(&company, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company by ID: %w", err)
	}

	return &company, nil
}

// CreateWithOwnerRole creates the company row and the owner's partner
// role assignment in one transaction so a failure cannot leave an
// ownerless company behind.
func (r *CompanyRepository) CreateWithOwnerRole(name string, ownerAssignment *models.RoleAssignment) (*models.Company, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	company := &models.Company{
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err = tx.QueryRow(
		`INSERT INTO companies (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`,
		company.Name, company.CreatedAt, company.UpdatedAt,
	).Scan(&company.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	ownerAssignment.CompanyID = company.ID

	err = tx.QueryRow(
		`INSERT INTO role_assignments (
			telegram_id, role, company_id, location_id,
			start_date, end_date, changed_by, changed_date, is_locked
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		ownerAssignment.TelegramID,
		ownerAssignment.Role,
		ownerAssignment.CompanyID,
		ownerAssignment.LocationID,
		ownerAssignment.StartDate,
		ownerAssignment.EndDate,
		ownerAssignment.ChangedBy,
		ownerAssignment.ChangedDate,
		ownerAssignment.IsLocked,
	).Scan(&ownerAssignment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner role assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit company creation: %w", err)
	}

	return company, nil
}

// Delete removes a company. Locations, coupon types and role
// assignments cascade at the schema level.
func (r *CompanyRepository) Delete(id int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete company: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Filter returns the companies having at least one location matching
// ALL non-empty dimensions: city in the city set AND category in the
// category set. Companies with several matching locations appear once.
func (r *CompanyRepository) Filter(filter models.CompanyFilter) ([]*models.Company, error) {
	var companies []*models.Company

	var sb strings.Builder
	sb.WriteString(`
		SELECT DISTINCT c.id, c.name, c.created_at, c.updated_at
		FROM companies c
		JOIN locations l ON l.company_id = c.id
	`)

	var args []interface{}
	var conditions []string

	if len(filter.CategoryIDs) > 0 {
		sb.WriteString(" JOIN location_categories lc ON lc.location_id = l.id AND lc.company_id = c.id")
		args = append(args, pq.Array(filter.CategoryIDs))
		conditions = append(conditions, fmt.Sprintf("lc.category_id = ANY($%d)", len(args)))
	}
	if len(filter.Cities) > 0 {
		args = append(args, pq.Array(filter.Cities))
		conditions = append(conditions, fmt.Sprintf("l.city = ANY($%d)", len(args)))
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY c.id")

	err := r.db.Select(&companies, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter companies: %w", err)
	}

	return companies, nil
}

// CountCompanies returns the total number of companies
func (r *CompanyRepository) CountCompanies() (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM companies`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}

	return count, nil
}
