package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
)

// CollaborationService runs the coupon type lifecycle between an
// issuing company and an agent company: propose, decide, terminate.
type CollaborationService struct {
	couponTypeRepo *database.CouponTypeRepository
	companyRepo    *database.CompanyRepository
	locationRepo   *database.LocationRepository
	logger         *logrus.Logger
}

// NewCollaborationService creates a new CollaborationService
func NewCollaborationService(
	couponTypeRepo *database.CouponTypeRepository,
	companyRepo *database.CompanyRepository,
	locationRepo *database.LocationRepository,
	logger *logrus.Logger,
) *CollaborationService {
	return &CollaborationService{
		couponTypeRepo: couponTypeRepo,
		companyRepo:    companyRepo,
		locationRepo:   locationRepo,
		logger:         logger,
	}
}

// Propose creates a pending collaboration from validated terms. Both
// locations must belong to their declared companies, the percentages
// must be in range and the validity window must be coherent. The new
// proposal starts pending and inactive until the agent side decides.
func (s *CollaborationService) Propose(terms models.CollaborationTerms) (*models.CouponType, error) {
	if err := s.validateTerms(terms); err != nil {
		return nil, err
	}

	ct := &models.CouponType{
		CodePrefix:       models.BuildCodePrefix(terms.CompanyID, terms.DiscountPercent),
		CompanyID:        terms.CompanyID,
		LocationID:       terms.LocationID,
		CompanyAgentID:   terms.CompanyAgentID,
		LocationAgentID:  terms.LocationAgentID,
		DiscountPercent:  terms.DiscountPercent,
		CommissionPct:    terms.CommissionPct,
		RequireAllGroups: terms.RequireAllGroups,
		UsageLimit:       terms.UsageLimit,
		StartDate:        terms.StartDate,
		EndDate:          terms.EndDate,
		DaysForUsed:      terms.DaysForUsed,
	}

	created, err := s.couponTypeRepo.Create(ct)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"coupon_type_id":   created.ID,
		"company_id":       created.CompanyID,
		"company_agent_id": created.CompanyAgentID,
	}).Info("Collaboration proposed")

	return created, nil
}

func (s *CollaborationService) validateTerms(terms models.CollaborationTerms) error {
	if terms.DiscountPercent <= 0 || terms.DiscountPercent > 100 {
		return fmt.Errorf("discount percent must be in (0, 100]: %w", ErrValidation)
	}
	if terms.CommissionPct < 0 || terms.CommissionPct > 100 {
		return fmt.Errorf("commission percent must be in [0, 100]: %w", ErrValidation)
	}
	if terms.UsageLimit < 0 {
		return fmt.Errorf("usage limit must not be negative: %w", ErrValidation)
	}
	if terms.DaysForUsed <= 0 {
		return fmt.Errorf("days for used must be positive: %w", ErrValidation)
	}
	if terms.EndDate.Before(terms.StartDate) {
		return fmt.Errorf("end date must not be before start date: %w", ErrValidation)
	}
	if terms.CompanyID == terms.CompanyAgentID {
		return fmt.Errorf("a company cannot collaborate with itself: %w", ErrValidation)
	}

	if err := s.checkLocationOwnership(terms.CompanyID, terms.LocationID); err != nil {
		return err
	}
	return s.checkLocationOwnership(terms.CompanyAgentID, terms.LocationAgentID)
}

func (s *CollaborationService) checkLocationOwnership(companyID, locationID int64) error {
	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return fmt.Errorf("company %d: %w", companyID, ErrNotFound)
	}

	location, err := s.locationRepo.GetByID(locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return fmt.Errorf("location %d: %w", locationID, ErrNotFound)
	}
	if location.CompanyID != companyID {
		return fmt.Errorf("location %d does not belong to company %d: %w", locationID, companyID, ErrValidation)
	}

	return nil
}

// Accept confirms a pending proposal on behalf of the agent side and
// activates it. Accepting an already accepted collaboration is a no-op
// success; accepting a rejected or terminated one fails.
func (s *CollaborationService) Accept(id int64) (*models.CouponType, error) {
	transitioned, err := s.couponTypeRepo.Accept(id)
	if err != nil {
		return nil, err
	}

	ct, err := s.couponTypeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ct == nil {
		return nil, fmt.Errorf("collaboration %d: %w", id, ErrNotFound)
	}

	if transitioned == 0 {
		// Already decided. Accepting twice is harmless, anything else is not.
		if ct.Decision == models.DecisionAccepted && ct.IsActive {
			return ct, nil
		}
		return nil, fmt.Errorf("collaboration %d is %s: %w", id, ct.State(), ErrInvalidState)
	}

	s.logger.WithField("coupon_type_id", id).Info("Collaboration accepted")
	return ct, nil
}

// Reject declines a pending proposal. Only pending proposals can be
// rejected; repeating a rejection is a no-op success.
func (s *CollaborationService) Reject(id int64) (*models.CouponType, error) {
	transitioned, err := s.couponTypeRepo.Reject(id)
	if err != nil {
		return nil, err
	}

	ct, err := s.couponTypeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ct == nil {
		return nil, fmt.Errorf("collaboration %d: %w", id, ErrNotFound)
	}

	if transitioned == 0 {
		if ct.Decision == models.DecisionRejected {
			return ct, nil
		}
		return nil, fmt.Errorf("collaboration %d is %s: %w", id, ct.State(), ErrInvalidState)
	}

	s.logger.WithField("coupon_type_id", id).Info("Collaboration rejected")
	return ct, nil
}

// Terminate ends a live collaboration. Termination is idempotent; only
// an unknown ID fails.
func (s *CollaborationService) Terminate(id int64) (*models.CouponType, error) {
	found, err := s.couponTypeRepo.Terminate(id, time.Now())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("collaboration %d: %w", id, ErrNotFound)
	}

	ct, err := s.couponTypeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("coupon_type_id", id).Info("Collaboration terminated")
	return ct, nil
}

// Get returns a collaboration or ErrNotFound
func (s *CollaborationService) Get(id int64) (*models.CouponType, error) {
	ct, err := s.couponTypeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ct == nil {
		return nil, fmt.Errorf("collaboration %d: %w", id, ErrNotFound)
	}
	return ct, nil
}

// List returns a company's collaborations from the requested viewpoint
func (s *CollaborationService) List(companyID int64, roleFilter models.CollaborationRoleFilter) ([]*models.CouponType, error) {
	switch roleFilter {
	case models.CollabRolePartner, models.CollabRoleAgent, models.CollabRoleAll:
	default:
		return nil, fmt.Errorf("unknown collaboration role filter %q: %w", roleFilter, ErrValidation)
	}
	return s.couponTypeRepo.ListByCompanyRole(companyID, roleFilter)
}

// PendingRequests returns proposals awaiting the agent side's decision
func (s *CollaborationService) PendingRequests(companyAgentID, locationAgentID int64) ([]*models.CouponType, error) {
	return s.couponTypeRepo.ListPendingForAgent(companyAgentID, locationAgentID)
}
