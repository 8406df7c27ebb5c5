package services

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
)

func TestAuditRecord(t *testing.T) {
	t.Run("Details Carry The Parsed Device", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewAuditService(database.NewActionLogRepository(db), newTestLogger())

		entityID := int64(11)

		mock.ExpectQuery(`INSERT INTO action_logs`).
			WithArgs(
				int64(100), models.ActionCouponIssued, entityID,
				sqlmock.AnyArg(), "203.0.113.9", sqlmock.AnyArg(), sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		svc.Record(AuditEvent{
			TelegramID: 100,
			ActionType: models.ActionCouponIssued,
			EntityID:   &entityID,
			IPAddress:  "203.0.113.9",
			UserAgent:  "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0",
		})

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Write Failure Never Surfaces", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewAuditService(database.NewActionLogRepository(db), newTestLogger())

		mock.ExpectQuery(`INSERT INTO action_logs`).
			WillReturnError(fmt.Errorf("database error"))

		// Record has no error return; it must not panic either.
		svc.Record(AuditEvent{TelegramID: 100, ActionType: models.ActionCouponRedeemed})

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuditQueries(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuditService(database.NewActionLogRepository(db), newTestLogger())

	actionLogRows := []string{
		"id", "telegram_id", "action_type", "entity_id", "details",
		"ip_address", "user_agent", "timestamp",
	}

	t.Run("User History", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM action_logs WHERE telegram_id = \$1`).
			WillReturnRows(sqlmock.NewRows(actionLogRows))

		logs, err := svc.UserHistory(100, 30)
		require.NoError(t, err)
		assert.Empty(t, logs)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Recent Activity", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM action_logs`).
			WillReturnRows(sqlmock.NewRows(actionLogRows))

		logs, err := svc.RecentActivity(100)
		require.NoError(t, err)
		assert.Empty(t, logs)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
