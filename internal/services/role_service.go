package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
)

// Permission names granted through the role map
const (
	PermManageCompanies    = "manage_companies"
	PermManageLocations    = "manage_locations"
	PermAddPartners        = "add_partners"
	PermAddAdmins          = "add_admins"
	PermViewStats          = "view_stats"
	PermManageCategories   = "manage_categories"
	PermViewReports        = "view_reports"
	PermManageOwnCompanies = "manage_own_companies"
	PermManageOwnLocations = "manage_own_locations"
	PermGenCoupons         = "gen_coupons"
	PermViewOwnStats       = "view_own_stats"
	PermAddAgents          = "add_agents"
	PermActivateCoupons    = "activate_coupons"
	PermCheckSubscriptions = "check_subscriptions"
	PermManageCoupons      = "manage_coupons"
	PermGetCoupons         = "get_coupons"
	PermViewOwnCoupons     = "view_own_coupons"
)

// permissionMap is the static role to capability-set map. Role names
// drive the lookup; there is no per-assignment override. Unknown roles
// resolve to nothing and deny silently.
var permissionMap = map[string]map[string]bool{
	models.RoleOwner: {
		PermManageCompanies:  true,
		PermManageLocations:  true,
		PermAddPartners:      true,
		PermAddAdmins:        true,
		PermViewStats:        true,
		PermManageCategories: true,
		PermViewReports:      true,
	},
	models.RolePartner: {
		PermManageOwnCompanies: true,
		PermManageOwnLocations: true,
		PermGenCoupons:         true,
		PermViewOwnStats:       true,
		PermAddAgents:          true,
	},
	models.RoleAdmin: {
		PermActivateCoupons:    true,
		PermCheckSubscriptions: true,
		PermViewOwnStats:       true,
		PermManageCoupons:      true,
	},
	models.RoleClient: {
		PermGetCoupons:     true,
		PermViewOwnCoupons: true,
	},
}

// RoleService manages role assignments and resolves permissions
type RoleService struct {
	roleRepo         *database.RoleRepository
	logger           *logrus.Logger
	superuserID      int64 // Telegram ID with unconditional access, 0 disables
	roleValidityDays int
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo *database.RoleRepository, logger *logrus.Logger, superuserID int64, roleValidityDays int) *RoleService {
	return &RoleService{
		roleRepo:         roleRepo,
		logger:           logger,
		superuserID:      superuserID,
		roleValidityDays: roleValidityDays,
	}
}

// GetRoleAssignments returns all assignments of a user regardless of
// expiry. Callers that care about validity filter by date themselves;
// permission checks do so internally.
func (s *RoleService) GetRoleAssignments(telegramID int64) ([]*models.RoleAssignment, error) {
	return s.roleRepo.GetByTelegramID(telegramID)
}

// HasPermission reports whether the user may perform the named action.
// The configured superuser passes unconditionally. Otherwise any
// currently valid, unlocked assignment whose role grants the permission
// is enough. Expired or locked assignments never grant anything, even
// before they are purged. Unknown roles deny silently.
func (s *RoleService) HasPermission(telegramID int64, permission string) (bool, error) {
	if s.superuserID != 0 && telegramID == s.superuserID {
		return true, nil
	}

	assignments, err := s.roleRepo.GetByTelegramID(telegramID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	today := time.Now()
	for _, assignment := range assignments {
		if !assignment.ActiveOn(today) {
			continue
		}
		if permissionMap[assignment.Role][permission] {
			return true, nil
		}
	}

	return false, nil
}

// RequirePermission is HasPermission with a typed denial
func (s *RoleService) RequirePermission(telegramID int64, permission string) error {
	allowed, err := s.HasPermission(telegramID, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("user %d lacks %s: %w", telegramID, permission, ErrPermissionDenied)
	}
	return nil
}

// AssignRole grants a role to a user within a company. Idempotent on
// the (user, role, company) triple: an existing assignment is returned
// unchanged. New assignments are valid for the configured number of
// days starting today. changedBy is the authenticated actor performing
// the grant, never defaulted to the subject.
func (s *RoleService) AssignRole(telegramID int64, role string, companyID int64, locationID *int64, changedBy int64) (*models.RoleAssignment, error) {
	if _, known := permissionMap[role]; !known {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrValidation)
	}

	existing, err := s.roleRepo.Find(telegramID, role, companyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	assignment := database.NewAssignment(telegramID, role, companyID, locationID, changedBy, s.roleValidityDays)
	created, err := s.roleRepo.Create(assignment)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"telegram_id": telegramID,
		"role":        role,
		"company_id":  companyID,
		"changed_by":  changedBy,
	}).Info("Role assigned")

	return created, nil
}

// RemoveRole deletes assignments matching the conjunctive optional
// filters and reports whether anything was removed.
func (s *RoleService) RemoveRole(telegramID, companyID int64, role *string, locationID *int64) (bool, error) {
	removed, err := s.roleRepo.Delete(telegramID, companyID, role, locationID)
	if err != nil {
		return false, err
	}

	if removed {
		s.logger.WithFields(logrus.Fields{
			"telegram_id": telegramID,
			"company_id":  companyID,
		}).Info("Role assignments removed")
	}

	return removed, nil
}

// ListCompanyRoles returns the assignments within a company, optionally
// narrowed by role and location.
func (s *RoleService) ListCompanyRoles(companyID int64, role *string, locationID *int64) ([]*models.RoleAssignment, error) {
	return s.roleRepo.ListByCompany(companyID, role, locationID)
}
