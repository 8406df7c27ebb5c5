package services

import (
	"fmt"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
)

// AuthService resolves Telegram identities to internal user records
type AuthService struct {
	userRepo *database.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *database.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// ResolveOrCreateUser returns the user for a Telegram ID, creating it
// on first contact. Idempotent: an existing user is returned as-is and
// its registration date is never overwritten. The second return value
// reports whether the user was created by this call.
func (s *AuthService) ResolveOrCreateUser(telegramID int64, firstName, lastName, username, phone string) (*models.User, bool, error) {
	user, err := s.userRepo.GetUserByTelegramID(telegramID)
	if err != nil {
		return nil, false, err
	}

	if user != nil {
		return user, false, nil
	}

	user, err = s.userRepo.CreateUser(telegramID, firstName, lastName, username, phone)
	if err != nil {
		return nil, false, fmt.Errorf("failed to register user: %w", err)
	}

	return user, true, nil
}

// GetUser returns the user for a Telegram ID or ErrNotFound
func (s *AuthService) GetUser(telegramID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", telegramID, ErrNotFound)
	}
	return user, nil
}

// UpdateProfile updates a user's mutable profile fields
func (s *AuthService) UpdateProfile(telegramID int64, firstName, lastName, username, phone string) error {
	if firstName == "" {
		return fmt.Errorf("first name is required: %w", ErrValidation)
	}
	return s.userRepo.UpdateProfile(telegramID, firstName, lastName, username, phone)
}
