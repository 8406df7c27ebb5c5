package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/referralhub/coupon-backend/internal/database"
)

func TestResolveOrCreateUser(t *testing.T) {
	t.Run("Existing User Is Returned As Is", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewAuthService(database.NewUserRepository(db))
		regDate := time.Now().AddDate(-1, 0, 0)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE telegram_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(userTestRows).AddRow(
				1, 100, "alice_b", "Alice", "Brown", "", regDate, regDate, regDate,
			))

		user, created, err := svc.ResolveOrCreateUser(100, "Alice", "NewName", "new_handle", "")
		require.NoError(t, err)
		assert.False(t, created)
		// Repeat contact never rewrites the stored profile
		assert.Equal(t, "Brown", user.LastName)
		assert.Equal(t, regDate, user.RegDate)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("First Contact Creates The User", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewAuthService(database.NewUserRepository(db))

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE telegram_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(userTestRows))
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		user, created, err := svc.ResolveOrCreateUser(100, "Alice", "Brown", "alice_b", "")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, int64(100), user.TelegramID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetUser(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAuthService(database.NewUserRepository(db))

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE telegram_id = \$1`).
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows(userTestRows))

	user, err := svc.GetUser(999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileRequiresFirstName(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewAuthService(database.NewUserRepository(db))

	err := svc.UpdateProfile(100, "", "Brown", "alice_b", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
