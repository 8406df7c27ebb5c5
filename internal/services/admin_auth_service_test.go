package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/pkg/jwt"
)

var adminUserRows = []string{"id", "email", "password_hash", "is_active", "created_at"}

func newAdminAuthServiceForTest(t *testing.T) (*AdminAuthService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	jwtService := jwt.NewService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	svc := NewAdminAuthService(database.NewAdminUserRepository(db), jwtService, newTestLogger())
	return svc, mock
}

func TestAdminRegister(t *testing.T) {
	t.Run("Invalid Email", func(t *testing.T) {
		svc, _ := newAdminAuthServiceForTest(t)

		admin, err := svc.Register("not-an-email", "strongpassword")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, admin)
	})

	t.Run("Short Password", func(t *testing.T) {
		svc, _ := newAdminAuthServiceForTest(t)

		admin, err := svc.Register("ops@example.com", "short")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, admin)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		svc, mock := newAdminAuthServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM admin_users WHERE email = \$1`).
			WithArgs("ops@example.com").
			WillReturnRows(sqlmock.NewRows(adminUserRows).
				AddRow(1, "ops@example.com", "hash", true, time.Now()))

		admin, err := svc.Register("Ops@Example.com", "strongpassword")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Nil(t, admin)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success Stores Bcrypt Hash", func(t *testing.T) {
		svc, mock := newAdminAuthServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM admin_users WHERE email = \$1`).
			WithArgs("ops@example.com").
			WillReturnRows(sqlmock.NewRows(adminUserRows))
		mock.ExpectQuery(`INSERT INTO admin_users`).
			WithArgs("ops@example.com", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

		admin, err := svc.Register("Ops@Example.com ", "strongpassword")
		require.NoError(t, err)
		require.NotNil(t, admin)
		assert.Equal(t, "ops@example.com", admin.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("strongpassword")))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("strongpassword"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("Unknown Email Gets Generic Error", func(t *testing.T) {
		svc, mock := newAdminAuthServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM admin_users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows(adminUserRows))

		pair, err := svc.Login("nobody@example.com", "strongpassword")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Contains(t, err.Error(), "invalid credentials")
		assert.Nil(t, pair)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wrong Password Gets Same Generic Error", func(t *testing.T) {
		svc, mock := newAdminAuthServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM admin_users WHERE email = \$1`).
			WithArgs("ops@example.com").
			WillReturnRows(sqlmock.NewRows(adminUserRows).
				AddRow(1, "ops@example.com", string(hash), true, time.Now()))

		pair, err := svc.Login("ops@example.com", "wrongpassword")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Contains(t, err.Error(), "invalid credentials")
		assert.Nil(t, pair)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Inactive Account Cannot Log In", func(t *testing.T) {
		svc, mock := newAdminAuthServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM admin_users WHERE email = \$1`).
			WithArgs("ops@example.com").
			WillReturnRows(sqlmock.NewRows(adminUserRows).
				AddRow(1, "ops@example.com", string(hash), false, time.Now()))

		pair, err := svc.Login("ops@example.com", "strongpassword")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Nil(t, pair)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success Issues Token Pair", func(t *testing.T) {
		svc, mock := newAdminAuthServiceForTest(t)

		mock.ExpectQuery(`SELECT (.+) FROM admin_users WHERE email = \$1`).
			WithArgs("ops@example.com").
			WillReturnRows(sqlmock.NewRows(adminUserRows).
				AddRow(1, "ops@example.com", string(hash), true, time.Now()))

		pair, err := svc.Login("ops@example.com", "strongpassword")
		require.NoError(t, err)
		require.NotNil(t, pair)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdminRefresh(t *testing.T) {
	t.Run("Garbage Token", func(t *testing.T) {
		svc, _ := newAdminAuthServiceForTest(t)

		pair, err := svc.Refresh("not-a-token")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Nil(t, pair)
	})

	t.Run("Access Token Rejected As Refresh Token", func(t *testing.T) {
		svc, _ := newAdminAuthServiceForTest(t)

		jwtService := jwt.NewService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
		access, err := jwtService.GenerateAccessToken(1, "ops@example.com")
		require.NoError(t, err)

		pair, err := svc.Refresh(access)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.Nil(t, pair)
	})

	t.Run("Valid Refresh Token Rotates Pair", func(t *testing.T) {
		svc, mock := newAdminAuthServiceForTest(t)

		jwtService := jwt.NewService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
		refresh, err := jwtService.GenerateRefreshToken(1, "ops@example.com")
		require.NoError(t, err)

		hash, err := bcrypt.GenerateFromPassword([]byte("strongpassword"), bcrypt.MinCost)
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM admin_users WHERE email = \$1`).
			WithArgs("ops@example.com").
			WillReturnRows(sqlmock.NewRows(adminUserRows).
				AddRow(1, "ops@example.com", string(hash), true, time.Now()))

		pair, err := svc.Refresh(refresh)
		require.NoError(t, err)
		require.NotNil(t, pair)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
