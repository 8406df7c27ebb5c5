package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/referralhub/coupon-backend/internal/database"
)

func newSubscriptionServiceForTest(t *testing.T) (*SubscriptionService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	svc := NewSubscriptionService(
		database.NewSubscriptionRepository(db),
		database.NewCompanyRepository(db),
		database.NewRoleRepository(db),
		newTestLogger(),
	)
	return svc, mock
}

func TestCreateSubscription(t *testing.T) {
	now := time.Now()

	t.Run("Window Ends Before It Starts", func(t *testing.T) {
		svc, _ := newSubscriptionServiceForTest(t)

		sub, err := svc.CreateSubscription(7, nil, now, now.AddDate(0, 0, -1))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, sub)
	})

	t.Run("Unknown Company", func(t *testing.T) {
		svc, mock := newSubscriptionServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM companies WHERE id = \$1`).
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}))

		sub, err := svc.CreateSubscription(999, nil, now, now.AddDate(0, 1, 0))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, sub)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success", func(t *testing.T) {
		svc, mock := newSubscriptionServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM companies WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
				AddRow(7, "Coffee Point", now, now))
		mock.ExpectQuery(`INSERT INTO subscriptions`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

		sub, err := svc.CreateSubscription(7, nil, now, now.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(9), sub.ID)
		assert.True(t, sub.IsActive)
		assert.False(t, sub.LocationID.Valid)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubscriptionGate(t *testing.T) {
	t.Run("Company Without Subscription Is Denied", func(t *testing.T) {
		svc, mock := newSubscriptionServiceForTest(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := svc.RequireActiveSubscription(7)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPermissionDenied)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Active Subscription Passes", func(t *testing.T) {
		svc, mock := newSubscriptionServiceForTest(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := svc.RequireActiveSubscription(7)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserHasActiveSubscription(t *testing.T) {
	t.Run("User Without Business Roles", func(t *testing.T) {
		svc, mock := newSubscriptionServiceForTest(t)

		mock.ExpectQuery(`SELECT DISTINCT company_id`).
			WillReturnRows(sqlmock.NewRows([]string{"company_id"}))

		active, err := svc.UserHasActiveSubscription(100)
		require.NoError(t, err)
		assert.False(t, active)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Any Subscribed Company Counts", func(t *testing.T) {
		svc, mock := newSubscriptionServiceForTest(t)

		mock.ExpectQuery(`SELECT DISTINCT company_id`).
			WillReturnRows(sqlmock.NewRows([]string{"company_id"}).AddRow(7).AddRow(8))
		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		active, err := svc.UserHasActiveSubscription(100)
		require.NoError(t, err)
		assert.True(t, active)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeactivateSubscription(t *testing.T) {
	svc, mock := newSubscriptionServiceForTest(t)

	mock.ExpectExec(`UPDATE subscriptions SET is_active = false`).
		WithArgs(int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.DeactivateSubscription(999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
