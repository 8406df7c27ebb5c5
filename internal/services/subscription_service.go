package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
)

// SubscriptionService manages company subscriptions and answers the
// subscription gate other services consult before paid features run.
type SubscriptionService struct {
	subscriptionRepo *database.SubscriptionRepository
	companyRepo      *database.CompanyRepository
	roleRepo         *database.RoleRepository
	logger           *logrus.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subscriptionRepo *database.SubscriptionRepository,
	companyRepo *database.CompanyRepository,
	roleRepo *database.RoleRepository,
	logger *logrus.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		companyRepo:      companyRepo,
		roleRepo:         roleRepo,
		logger:           logger,
	}
}

// CreateSubscription opens a subscription window for a company
func (s *SubscriptionService) CreateSubscription(companyID int64, locationID *int64, startDate, endDate time.Time) (*models.Subscription, error) {
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("subscription end date must be after start date: %w", ErrValidation)
	}

	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("company %d: %w", companyID, ErrNotFound)
	}

	sub := &models.Subscription{
		CompanyID: companyID,
		StartDate: startDate,
		EndDate:   endDate,
		IsActive:  true,
	}
	if locationID != nil {
		sub.LocationID = models.NewNullInt64(*locationID)
	}

	created, err := s.subscriptionRepo.Create(sub)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"company_id":      companyID,
		"subscription_id": created.ID,
	}).Info("Subscription created")

	return created, nil
}

// CompanyHasActiveSubscription reports whether a company holds at least
// one subscription covering today.
func (s *SubscriptionService) CompanyHasActiveSubscription(companyID int64) (bool, error) {
	count, err := s.subscriptionRepo.CountActive(companyID, time.Now())
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UserHasActiveSubscription reports whether any company in which the
// user holds a business role has an active subscription. Clients pass
// the gate for free features only, so client roles do not count here.
func (s *SubscriptionService) UserHasActiveSubscription(telegramID int64) (bool, error) {
	companyIDs, err := s.roleRepo.CompanyIDsWithRoles(telegramID, models.BusinessRoles)
	if err != nil {
		return false, err
	}
	if len(companyIDs) == 0 {
		return false, nil
	}

	count, err := s.subscriptionRepo.CountActiveForCompanies(companyIDs, time.Now())
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RequireActiveSubscription is the gate form of the company check
func (s *SubscriptionService) RequireActiveSubscription(companyID int64) error {
	active, err := s.CompanyHasActiveSubscription(companyID)
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("company %d has no active subscription: %w", companyID, ErrPermissionDenied)
	}
	return nil
}

// DeactivateSubscription ends a subscription before its window closes
func (s *SubscriptionService) DeactivateSubscription(id int64) error {
	deactivated, err := s.subscriptionRepo.Deactivate(id)
	if err != nil {
		return err
	}
	if !deactivated {
		return fmt.Errorf("subscription %d: %w", id, ErrNotFound)
	}

	s.logger.WithField("subscription_id", id).Info("Subscription deactivated")
	return nil
}
