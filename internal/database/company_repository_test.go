package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/referralhub/coupon-backend/internal/models"
)

var companyRows = []string{"id", "name", "created_at", "updated_at"}

func TestCompanyRepositoryGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	t.Run("Found", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM companies WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(companyRows).AddRow(7, "Coffee Point", now, now))

		company, err := repo.GetByID(7)
		require.NoError(t, err)
		require.NotNil(t, company)
		assert.Equal(t, "Coffee Point", company.Name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found Returns Nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM companies WHERE id = \$1`).
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows(companyRows))

		company, err := repo.GetByID(999)
		require.NoError(t, err)
		assert.Nil(t, company)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCompanyRepositoryCreateWithOwnerRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	t.Run("Company And Owner Role Commit Together", func(t *testing.T) {
		assignment := NewAssignment(100, models.RolePartner, 0, nil, 100, 365)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO companies`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(`INSERT INTO role_assignments`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectCommit()

		company, err := repo.CreateWithOwnerRole("Coffee Point", assignment)
		require.NoError(t, err)
		assert.Equal(t, int64(7), company.ID)
		assert.Equal(t, int64(7), assignment.CompanyID)
		assert.Equal(t, int64(42), assignment.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Role Insert Failure Rolls Back", func(t *testing.T) {
		assignment := NewAssignment(100, models.RolePartner, 0, nil, 100, 365)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO companies`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(`INSERT INTO role_assignments`).
			WillReturnError(fmt.Errorf("database error"))
		mock.ExpectRollback()

		company, err := repo.CreateWithOwnerRole("Coffee Point", assignment)
		assert.Error(t, err)
		assert.Nil(t, company)
		assert.Contains(t, err.Error(), "failed to create owner role assignment")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCompanyRepositoryDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	t.Run("Deleted", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM companies WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		deleted, err := repo.Delete(7)
		require.NoError(t, err)
		assert.True(t, deleted)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown ID", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM companies WHERE id = \$1`).
			WithArgs(int64(999)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := repo.Delete(999)
		require.NoError(t, err)
		assert.False(t, deleted)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCompanyRepositoryFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCompanyRepository(db)

	now := time.Now()

	t.Run("City And Category Combine", func(t *testing.T) {
		filter := models.CompanyFilter{
			Cities:      []string{"Berlin"},
			CategoryIDs: []int64{3},
		}

		mock.ExpectQuery(`SELECT DISTINCT (.+) FROM companies c`).
			WithArgs(pq.Array(filter.CategoryIDs), pq.Array(filter.Cities)).
			WillReturnRows(sqlmock.NewRows(companyRows).AddRow(7, "Coffee Point", now, now))

		companies, err := repo.Filter(filter)
		require.NoError(t, err)
		require.Len(t, companies, 1)
		assert.Equal(t, int64(7), companies[0].ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Filter Lists Everything", func(t *testing.T) {
		mock.ExpectQuery(`SELECT DISTINCT (.+) FROM companies c`).
			WillReturnRows(sqlmock.NewRows(companyRows).
				AddRow(7, "Coffee Point", now, now).
				AddRow(8, "Book Nook", now, now))

		companies, err := repo.Filter(models.CompanyFilter{})
		require.NoError(t, err)
		assert.Len(t, companies, 2)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
