package services

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
	"github.com/referralhub/coupon-backend/pkg/jwt"
)

// TokenPair holds a freshly issued access/refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AdminAuthService authenticates back-office admin accounts and issues
// JWT session tokens for the admin API.
type AdminAuthService struct {
	adminRepo  *database.AdminUserRepository
	jwtService *jwt.Service
	logger     *logrus.Logger
}

// NewAdminAuthService creates a new AdminAuthService
func NewAdminAuthService(adminRepo *database.AdminUserRepository, jwtService *jwt.Service, logger *logrus.Logger) *AdminAuthService {
	return &AdminAuthService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates an admin account with a bcrypt password hash
func (s *AdminAuthService) Register(email, password string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required: %w", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", ErrValidation)
	}

	existing, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s is already registered: %w", email, ErrInvalidState)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := s.adminRepo.Create(email, string(hash))
	if err != nil {
		return nil, err
	}

	s.logger.WithField("email", email).Info("Admin account created")
	return admin, nil
}

// Login verifies credentials and issues a token pair. A wrong email and
// a wrong password produce the same error so accounts cannot be probed.
func (s *AdminAuthService) Login(email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if admin == nil || !admin.IsActive {
		return nil, fmt.Errorf("invalid credentials: %w", ErrPermissionDenied)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrPermissionDenied)
	}

	return s.issueTokens(admin)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AdminAuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrPermissionDenied)
	}

	admin, err := s.adminRepo.GetByEmail(claims.Email)
	if err != nil {
		return nil, err
	}
	if admin == nil || !admin.IsActive {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrPermissionDenied)
	}

	return s.issueTokens(admin)
}

func (s *AdminAuthService) issueTokens(admin *models.AdminUser) (*TokenPair, error) {
	access, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}

	refresh, err := s.jwtService.GenerateRefreshToken(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
