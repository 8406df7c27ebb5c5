package database

import (
	"database/sql"
	"fmt"

	"github.com/referralhub/coupon-backend/internal/models"
)

// CategoryRepository handles category and location-category operations
type CategoryRepository struct {
	db DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db DB) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

// Create inserts a new category
func (r *CategoryRepository) Create(name string) (*models.Category, error) {
	category := &models.Category{Name: name}

	err := r.db.QueryRow(
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name,
	).Scan(&category.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// List returns all categories
func (r *CategoryRepository) List() ([]*models.Category, error) {
	var categories []*models.Category

	err := r.db.Select(&categories, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(id int64) (*models.Category, error) {
	var category models.Category

	err := r.db.Get(&category, `SELECT id, name FROM categories WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}

	return &category, nil
}

// LinkLocation adds the ternary (company, location, category) link.
// Re-adding an existing link is a no-op.
func (r *CategoryRepository) LinkLocation(companyID, locationID, categoryID int64) error {
	query := `
		INSERT INTO location_categories (company_id, location_id, category_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, location_id, category_id) DO NOTHING
	`

	if _, err := r.db.Exec(query, companyID, locationID, categoryID); err != nil {
		return fmt.Errorf("failed to link location category: %w", err)
	}

	return nil
}

// UnlinkLocation removes the link. Removing a non-existent link is a
// no-op success.
func (r *CategoryRepository) UnlinkLocation(companyID, locationID, categoryID int64) error {
	query := `
		DELETE FROM location_categories
		WHERE company_id = $1 AND location_id = $2 AND category_id = $3
	`

	if _, err := r.db.Exec(query, companyID, locationID, categoryID); err != nil {
		return fmt.Errorf("failed to unlink location category: %w", err)
	}

	return nil
}

// ListByLocation returns the categories linked to a location
func (r *CategoryRepository) ListByLocation(companyID, locationID int64) ([]*models.Category, error) {
	var categories []*models.Category

	query := `
		SELECT c.id, c.name
		FROM categories c
		JOIN location_categories lc ON lc.category_id = c.id
		WHERE lc.company_id = $1 AND lc.location_id = $2
		ORDER BY c.name
	`

	err := r.db.Select(&categories, query, companyID, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list location categories: %w", err)
	}

	return categories, nil
}
