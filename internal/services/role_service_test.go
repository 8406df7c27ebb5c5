package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/referralhub/coupon-backend/internal/database"
	"github.com/referralhub/coupon-backend/internal/models"
)

var roleAssignmentRows = []string{
	"id", "telegram_id", "role", "company_id", "location_id",
	"start_date", "end_date", "changed_by", "changed_date", "is_locked",
}

func TestRoleServiceHasPermission(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRoleService(database.NewRoleRepository(db), newTestLogger(), 999, 365)

	yesterday := time.Now().AddDate(0, 0, -1)
	nextYear := time.Now().AddDate(1, 0, 0)

	t.Run("Superuser Bypasses Assignments", func(t *testing.T) {
		allowed, err := svc.HasPermission(999, PermManageCompanies)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("Valid Assignment Grants", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM role_assignments WHERE telegram_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(roleAssignmentRows).AddRow(
				1, 100, models.RolePartner, 7, nil,
				yesterday, nextYear, 100, yesterday, false,
			))

		allowed, err := svc.HasPermission(100, PermGenCoupons)
		require.NoError(t, err)
		assert.True(t, allowed)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Role Does Not Grant Foreign Permission", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM role_assignments WHERE telegram_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(roleAssignmentRows).AddRow(
				1, 100, models.RolePartner, 7, nil,
				yesterday, nextYear, 100, yesterday, false,
			))

		allowed, err := svc.HasPermission(100, PermManageCompanies)
		require.NoError(t, err)
		assert.False(t, allowed)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Expired Assignment Denies", func(t *testing.T) {
		lastYear := time.Now().AddDate(-1, 0, 0)

		mock.ExpectQuery(`SELECT (.+) FROM role_assignments WHERE telegram_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(roleAssignmentRows).AddRow(
				1, 100, models.RolePartner, 7, nil,
				lastYear, yesterday.AddDate(0, 0, -1), 100, lastYear, false,
			))

		allowed, err := svc.HasPermission(100, PermGenCoupons)
		require.NoError(t, err)
		assert.False(t, allowed)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Locked Assignment Denies", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM role_assignments WHERE telegram_id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(roleAssignmentRows).AddRow(
				1, 100, models.RolePartner, 7, nil,
				yesterday, nextYear, 100, yesterday, true,
			))

		allowed, err := svc.HasPermission(100, PermGenCoupons)
		require.NoError(t, err)
		assert.False(t, allowed)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRoleServiceRequirePermission(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRoleService(database.NewRoleRepository(db), newTestLogger(), 0, 365)

	mock.ExpectQuery(`SELECT (.+) FROM role_assignments WHERE telegram_id = \$1`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows(roleAssignmentRows))

	err := svc.RequirePermission(100, PermManageCompanies)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleServiceAssignRole(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRoleService(database.NewRoleRepository(db), newTestLogger(), 0, 365)

	t.Run("Unknown Role", func(t *testing.T) {
		assignment, err := svc.AssignRole(100, "superhero", 7, nil, 200)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, assignment)
	})

	t.Run("Existing Assignment Returned Unchanged", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM role_assignments WHERE telegram_id = \$1 AND role = \$2 AND company_id = \$3`).
			WithArgs(int64(100), models.RoleAdmin, int64(7)).
			WillReturnRows(sqlmock.NewRows(roleAssignmentRows).AddRow(
				1, 100, models.RoleAdmin, 7, nil,
				now, now.AddDate(1, 0, 0), 42, now, false,
			))

		assignment, err := svc.AssignRole(100, models.RoleAdmin, 7, nil, 200)
		require.NoError(t, err)
		assert.Equal(t, int64(1), assignment.ID)
		// The original grantor survives repeat assignment
		assert.Equal(t, int64(42), assignment.ChangedBy)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("New Assignment Created", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM role_assignments WHERE telegram_id = \$1 AND role = \$2 AND company_id = \$3`).
			WithArgs(int64(100), models.RoleAdmin, int64(7)).
			WillReturnRows(sqlmock.NewRows(roleAssignmentRows))
		mock.ExpectQuery(`INSERT INTO role_assignments`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		assignment, err := svc.AssignRole(100, models.RoleAdmin, 7, nil, 200)
		require.NoError(t, err)
		assert.Equal(t, int64(5), assignment.ID)
		assert.Equal(t, int64(200), assignment.ChangedBy)

		wantEnd := assignment.StartDate.AddDate(0, 0, 365)
		assert.Equal(t, wantEnd, assignment.EndDate)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
