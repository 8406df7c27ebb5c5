package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
)

// CouponService mints and redeems coupons against live collaborations
type CouponService struct {
	couponRepo     *database.CouponRepository
	couponTypeRepo *database.CouponTypeRepository
	userRepo       *database.UserRepository
	groupService   *GroupService
	logger         *logrus.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(
	couponRepo *database.CouponRepository,
	couponTypeRepo *database.CouponTypeRepository,
	userRepo *database.UserRepository,
	groupService *GroupService,
	logger *logrus.Logger,
) *CouponService {
	return &CouponService{
		couponRepo:     couponRepo,
		couponTypeRepo: couponTypeRepo,
		userRepo:       userRepo,
		groupService:   groupService,
		logger:         logger,
	}
}

// generateCode appends a random suffix to the coupon type's prefix.
// Eight hex characters of a UUID keep codes short enough to type while
// the unique index on code catches the rare collision.
func generateCode(prefix string) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("%s-%s", prefix, suffix)
}

// IssueCoupon mints a coupon for a client from a coupon type. The
// collaboration must be live and inside its validity window, the usage
// limit must not be exhausted, the client must exist and must satisfy
// the group membership gate. The coupon's own window runs from today
// for the type's days_for_used.
func (s *CouponService) IssueCoupon(ctx context.Context, couponTypeID, clientID, issuedBy int64) (*models.Coupon, error) {
	ct, err := s.couponTypeRepo.GetByID(couponTypeID)
	if err != nil {
		return nil, err
	}
	if ct == nil {
		return nil, fmt.Errorf("coupon type %d: %w", couponTypeID, ErrNotFound)
	}

	now := time.Now()
	if !ct.IsActive {
		return nil, fmt.Errorf("coupon type %d is %s: %w", couponTypeID, ct.State(), ErrInvalidState)
	}
	if now.Before(ct.StartDate) || now.After(ct.EndDate) {
		return nil, fmt.Errorf("coupon type %d is outside its validity window: %w", couponTypeID, ErrInvalidState)
	}

	if ct.UsageLimit > 0 {
		issued, err := s.couponRepo.CountByType(couponTypeID)
		if err != nil {
			return nil, err
		}
		if issued >= ct.UsageLimit {
			return nil, fmt.Errorf("coupon type %d reached its usage limit of %d: %w", couponTypeID, ct.UsageLimit, ErrLimitExceeded)
		}
	}

	client, err := s.userRepo.GetUserByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client %d: %w", clientID, ErrNotFound)
	}

	if err := s.groupService.CheckMembershipGate(ctx, couponTypeID, client.TelegramID, ct.RequireAllGroups); err != nil {
		return nil, err
	}

	coupon := &models.Coupon{
		Code:         generateCode(ct.CodePrefix),
		CouponTypeID: couponTypeID,
		ClientID:     clientID,
		StartDate:    now,
		EndDate:      now.AddDate(0, 0, ct.DaysForUsed),
		IssuedBy:     issuedBy,
		StatusID:     models.CouponStatusActive,
	}

	created, err := s.couponRepo.Create(coupon)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"code":           created.Code,
		"coupon_type_id": couponTypeID,
		"client_id":      clientID,
	}).Info("Coupon issued")

	return created, nil
}

// RedeemCoupon marks a coupon as used at a company location. A coupon
// past its window is flipped to expired on sight and rejected. The
// actual state change is one conditional update, so two concurrent
// redemptions of the same code cannot both succeed.
func (s *CouponService) RedeemCoupon(code string, usedBy int64, orderAmount float64, companyUsed, locationUsed *int64) (*models.Coupon, error) {
	if orderAmount < 0 {
		return nil, fmt.Errorf("order amount must not be negative: %w", ErrValidation)
	}

	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, fmt.Errorf("coupon %s: %w", code, ErrNotFound)
	}

	now := time.Now()
	if coupon.StatusID == models.CouponStatusActive && coupon.ExpiredOn(now) {
		if err := s.couponRepo.MarkExpired(code); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("coupon %s: %w", code, ErrCouponExpired)
	}

	switch coupon.StatusID {
	case models.CouponStatusActive:
	case models.CouponStatusExpired:
		return nil, fmt.Errorf("coupon %s: %w", code, ErrCouponExpired)
	default:
		return nil, fmt.Errorf("coupon %s is %s: %w", code, coupon.Status(), ErrInvalidState)
	}

	redeemed, err := s.couponRepo.Redeem(code, usedBy, orderAmount, companyUsed, locationUsed, now)
	if err != nil {
		return nil, err
	}
	if redeemed == 0 {
		// Lost the race to another redeemer or to expiry.
		return nil, fmt.Errorf("coupon %s is no longer active: %w", code, ErrInvalidState)
	}

	s.logger.WithFields(logrus.Fields{
		"code":    code,
		"used_by": usedBy,
	}).Info("Coupon redeemed")

	return s.GetCoupon(code)
}

// GetCoupon returns a coupon by code or ErrNotFound
func (s *CouponService) GetCoupon(code string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, fmt.Errorf("coupon %s: %w", code, ErrNotFound)
	}
	return coupon, nil
}

// CancelCoupon administratively cancels an active coupon
func (s *CouponService) CancelCoupon(code string) error {
	cancelled, err := s.couponRepo.Cancel(code)
	if err != nil {
		return err
	}
	if !cancelled {
		coupon, err := s.couponRepo.GetByCode(code)
		if err != nil {
			return err
		}
		if coupon == nil {
			return fmt.Errorf("coupon %s: %w", code, ErrNotFound)
		}
		return fmt.Errorf("coupon %s is %s: %w", code, coupon.Status(), ErrInvalidState)
	}

	s.logger.WithField("code", code).Info("Coupon cancelled")
	return nil
}

// ListActiveCoupons returns a client's active coupons after sweeping
// the overdue ones to expired, so callers never see a stale active row.
// The sweep cutoff is day-granular, the same boundary RedeemCoupon
// applies, so a coupon stays redeemable through its final day.
func (s *CouponService) ListActiveCoupons(clientID int64) ([]*models.Coupon, error) {
	expired, err := s.couponRepo.ExpireOverdueForClient(clientID, time.Now().Truncate(24*time.Hour))
	if err != nil {
		return nil, err
	}
	if expired > 0 {
		s.logger.WithFields(logrus.Fields{
			"client_id": clientID,
			"expired":   expired,
		}).Info("Swept overdue coupons")
	}

	return s.couponRepo.ListActiveByClient(clientID)
}
