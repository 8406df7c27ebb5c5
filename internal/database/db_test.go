package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// mockDatabase adapts a sqlmock-backed connection to the DB interface
type mockDatabase struct {
	*sqlx.DB
}

// newMockDB returns a DB implementation driven by sqlmock expectations
func newMockDB(t *testing.T) (*mockDatabase, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &mockDatabase{DB: sqlx.NewDb(db, "sqlmock")}, mock
}
