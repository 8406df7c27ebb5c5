package database

import (
	"database/sql"
	"fmt"

	"github.com/referralhub/coupon-backend/internal/models"
)

// AdminUserRepository handles back-office admin account operations
type AdminUserRepository struct {
	db DB
}

// NewAdminUserRepository creates a new admin user repository
func NewAdminUserRepository(db DB) *AdminUserRepository {
	return &AdminUserRepository{
		db: db,
	}
}

// GetByEmail retrieves an admin account by email
func (r *AdminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	var admin models.AdminUser

	query := `
		SELECT id, email, password_hash, is_active, created_at
		FROM admin_users
		WHERE email = $1
	`

	err := r.db.Get(&admin, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin user by email: %w", err)
	}

	return &admin, nil
}

// Create inserts a new admin account
func (r *AdminUserRepository) Create(email, passwordHash string) (*models.AdminUser, error) {
	admin := &models.AdminUser{
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	query := `
		INSERT INTO admin_users (email, password_hash, is_active, created_at)
		VALUES ($1, $2, true, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRow(query, email, passwordHash).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	return admin, nil
}
