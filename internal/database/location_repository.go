package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/referralhub/coupon-backend/internal/models"
)

// LocationRepository handles location database operations
type LocationRepository struct {
	db DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db DB) *LocationRepository {
	return &LocationRepository{
		db: db,
	}
}

// Create inserts a new location for a company
func (r *LocationRepository) Create(location *models.Location) (*models.Location, error) {
	location.CreatedAt = time.Now()

	query := `
		INSERT INTO locations (company_id, name, city, address, map_url, is_main, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		location.CompanyID,
		location.Name,
		location.City,
		location.Address,
		location.MapURL,
		location.IsMain,
		location.CreatedAt,
	).Scan(&location.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return location, nil
}

// GetByID retrieves a location by ID
func (r *LocationRepository) GetByID(id int64) (*models.Location, error) {
	var location models.Location

	query := `
		SELECT id, company_id, name, city, address, map_url, is_main, created_at
		FROM locations
		WHERE id = $1
	`

	err := r.db.Get(&location, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get location by ID: %w", err)
	}

	return &location, nil
}

// ListByCompany returns all locations of a company, main location first
func (r *LocationRepository) ListByCompany(companyID int64) ([]*models.Location, error) {
	var locations []*models.Location

	query := `
		SELECT id, company_id, name, city, address, map_url, is_main, created_at
		FROM locations
		WHERE company_id = $1
		ORDER BY is_main DESC, id
	`

	err := r.db.Select(&locations, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	return locations, nil
}

// SetMain marks one location as the company's main location and clears
// the flag on the others inside a single transaction.
func (r *LocationRepository) SetMain(companyID, locationID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE locations SET is_main = false WHERE company_id = $1`, companyID,
	); err != nil {
		return fmt.Errorf("failed to clear main location flag: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE locations SET is_main = true WHERE id = $1 AND company_id = $2`,
		locationID, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to set main location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("location not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit main location change: %w", err)
	}

	return nil
}
