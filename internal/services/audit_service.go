package services

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
	"github.com/referralhub/coupon-backend/internal/utils"
)

// AuditService records user actions best-effort. Audit failures are
// logged and swallowed so they never fail the business operation.
type AuditService struct {
	actionLogRepo *database.ActionLogRepository
	logger        *logrus.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(actionLogRepo *database.ActionLogRepository, logger *logrus.Logger) *AuditService {
	return &AuditService{
		actionLogRepo: actionLogRepo,
		logger:        logger,
	}
}

// AuditEvent describes one recordable user action
type AuditEvent struct {
	TelegramID int64
	ActionType string
	EntityID   *int64
	Details    map[string]interface{}
	IPAddress  string
	UserAgent  string
}

// Record persists an audit event. The user agent is parsed into the
// details so reports can break actions down by device.
func (s *AuditService) Record(event AuditEvent) {
	log := &models.ActionLog{
		TelegramID: event.TelegramID,
		ActionType: event.ActionType,
		Timestamp:  time.Now(),
	}

	if event.EntityID != nil {
		log.EntityID = models.NewNullInt64(*event.EntityID)
	}
	if event.IPAddress != "" {
		log.IPAddress = models.NewNullString(event.IPAddress)
	}
	if event.UserAgent != "" {
		log.UserAgent = models.NewNullString(event.UserAgent)

		if event.Details == nil {
			event.Details = map[string]interface{}{}
		}
		event.Details["device"] = utils.ParseUserAgent(event.UserAgent).Summary()
	}

	if len(event.Details) > 0 {
		data, err := json.Marshal(event.Details)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to marshal audit details")
		} else {
			log.Details = models.NewNullString(string(data))
		}
	}

	if _, err := s.actionLogRepo.Create(log); err != nil {
		s.logger.WithFields(logrus.Fields{
			"action_type": event.ActionType,
			"telegram_id": event.TelegramID,
		}).WithError(err).Error("Failed to write audit record")
	}
}

// UserHistory returns a user's audit records within the last N days
func (s *AuditService) UserHistory(telegramID int64, days int) ([]*models.ActionLog, error) {
	return s.actionLogRepo.ListByUser(telegramID, days)
}

// RecentActivity returns the newest audit records across all users
func (s *AuditService) RecentActivity(limit int) ([]*models.ActionLog, error) {
	return s.actionLogRepo.ListRecent(limit)
}
