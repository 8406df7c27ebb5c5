package database

import (
	"fmt"
	"time"

	"github.com/referralhub/coupon-backend/internal/models"
)

// ActionLogRepository handles audit log persistence
type ActionLogRepository struct {
	db DB
}

// NewActionLogRepository creates a new action log repository
func NewActionLogRepository(db DB) *ActionLogRepository {
	return &ActionLogRepository{
		db: db,
	}
}

// Create inserts an audit record
func (r *ActionLogRepository) Create(log *models.ActionLog) (*models.ActionLog, error) {
	query := `
		INSERT INTO action_logs (telegram_id, action_type, entity_id, details, ip_address, user_agent, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		log.TelegramID,
		log.ActionType,
		log.EntityID,
		log.Details,
		log.IPAddress,
		log.UserAgent,
		log.Timestamp,
	).Scan(&log.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create action log: %w", err)
	}

	return log, nil
}

// ListByUser returns a user's audit records within the last N days
func (r *ActionLogRepository) ListByUser(telegramID int64, days int) ([]*models.ActionLog, error) {
	var logs []*models.ActionLog

	since := time.Now().AddDate(0, 0, -days)

	query := `
		SELECT id, telegram_id, action_type, entity_id, details, ip_address, user_agent, timestamp
		FROM action_logs
		WHERE telegram_id = $1 AND timestamp >= $2
		ORDER BY timestamp DESC
	`

	err := r.db.Select(&logs, query, telegramID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list action logs: %w", err)
	}

	return logs, nil
}

// ListRecent returns the most recent audit records
func (r *ActionLogRepository) ListRecent(limit int) ([]*models.ActionLog, error) {
	var logs []*models.ActionLog

	query := `
		SELECT id, telegram_id, action_type, entity_id, details, ip_address, user_agent, timestamp
		FROM action_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`

	err := r.db.Select(&logs, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent action logs: %w", err)
	}

	return logs, nil
}
