package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
)

// MembershipChecker answers whether a user is a member of a Telegram
// group chat. The production implementation calls the Bot API; tests
// substitute their own.
type MembershipChecker interface {
	IsMember(ctx context.Context, chatID, telegramID int64) (bool, error)
}

// GroupService manages company Telegram groups and evaluates the
// membership gate coupon issuance depends on.
type GroupService struct {
	groupRepo *database.GroupRepository
	checker   MembershipChecker
	logger    *logrus.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo *database.GroupRepository, checker MembershipChecker, logger *logrus.Logger) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		checker:   checker,
		logger:    logger,
	}
}

// RegisterGroup records a company's Telegram group
func (s *GroupService) RegisterGroup(companyID, chatID int64, name string) (*models.TelegramGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required: %w", ErrValidation)
	}
	if chatID == 0 {
		return nil, fmt.Errorf("group chat ID is required: %w", ErrValidation)
	}

	group := &models.TelegramGroup{
		GroupID:   chatID,
		CompanyID: companyID,
		Name:      name,
		IsActive:  true,
	}

	return s.groupRepo.Create(group)
}

// ListGroups returns a company's registered groups
func (s *GroupService) ListGroups(companyID int64) ([]*models.TelegramGroup, error) {
	return s.groupRepo.ListByCompany(companyID)
}

// RemoveGroup deletes a group, enforcing company ownership
func (s *GroupService) RemoveGroup(id, companyID int64) error {
	deleted, err := s.groupRepo.Delete(id, companyID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("group %d in company %d: %w", id, companyID, ErrNotFound)
	}
	return nil
}

// RequireGroupForCouponType attaches a required group to a coupon type.
// The group must belong to the coupon type's issuing company.
func (s *GroupService) RequireGroupForCouponType(couponTypeID, groupID, companyID int64) error {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return err
	}
	if group == nil || group.CompanyID != companyID {
		return fmt.Errorf("group %d in company %d: %w", groupID, companyID, ErrNotFound)
	}

	return s.groupRepo.AttachToCouponType(couponTypeID, groupID)
}

// CheckMembershipGate evaluates the group requirement of a coupon type
// for one client. requireAll selects AND semantics (member of every
// required group) over OR (member of at least one). A coupon type with
// no required groups always passes. Checker failures fail closed: the
// gate reports unsatisfied rather than guessing, and the error is
// logged with the chat so an operator can tell an outage from a real
// non-membership.
func (s *GroupService) CheckMembershipGate(ctx context.Context, couponTypeID, clientID int64, requireAll bool) error {
	chatIDs, err := s.groupRepo.RequiredGroupChatIDs(couponTypeID)
	if err != nil {
		return err
	}
	if len(chatIDs) == 0 {
		return nil
	}

	anyMember := false
	for _, chatID := range chatIDs {
		member, err := s.checker.IsMember(ctx, chatID, clientID)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"chat_id":     chatID,
				"telegram_id": clientID,
				"error":       err.Error(),
			}).Warn("Group membership check failed, treating as not a member")
			member = false
		}

		if member {
			anyMember = true
			if !requireAll {
				return nil
			}
		} else if requireAll {
			return fmt.Errorf("client %d is not a member of chat %d: %w", clientID, chatID, ErrGroupRequirement)
		}
	}

	if requireAll || anyMember {
		return nil
	}
	return fmt.Errorf("client %d is not a member of any required group: %w", clientID, ErrGroupRequirement)
}
