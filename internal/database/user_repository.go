package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/referralhub/coupon-backend/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser creates a new user keyed on the Telegram ID
func (r *UserRepository) CreateUser(telegramID int64, firstName, lastName, username, phone string) (*models.User, error) {
	user := &models.User{
		TelegramID: telegramID,
		FirstName:  firstName,
		LastName:   lastName,
		Phone:      phone,
		RegDate:    time.Now(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if username != "" {
		user.Username = models.NullString{NullString: sql.NullString{String: username, Valid: true}}
	}

	query := `
		INSERT INTO users (
			telegram_id, username, first_name, last_name, phone,
			reg_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.RegDate,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByTelegramID retrieves a user by Telegram ID
func (r *UserRepository) GetUserByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, telegram_id, username, first_name, last_name, phone,
		       reg_date, created_at, updated_at
		FROM users
		WHERE telegram_id = $1
	`

	err := r.db.Get(&user, query, telegramID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get user by telegram ID: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by internal ID
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, telegram_id, username, first_name, last_name, phone,
		       reg_date, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// UpdateProfile updates the mutable profile fields. The Telegram ID and
// registration date are never touched.
func (r *UserRepository) UpdateProfile(telegramID int64, firstName, lastName, username, phone string) error {
	query := `
		UPDATE users
		SET first_name = $1,
		    last_name = $2,
		    username = NULLIF($3, ''),
		    phone = $4,
		    updated_at = $5
		WHERE telegram_id = $6
	`

	result, err := r.db.Exec(query, firstName, lastName, username, phone, time.Now(), telegramID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// CountUsers returns the total number of users
func (r *UserRepository) CountUsers() (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM users`

	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
