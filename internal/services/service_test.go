package services

import (
	"context"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/referralhub/coupon-backend/internal/database"
)

// newMockDB returns a DB implementation driven by sqlmock expectations
func newMockDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

// newTestLogger returns a logger that discards everything
func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeChecker answers membership checks from a fixed chat ID set
type fakeChecker struct {
	members map[int64]bool
	err     error
}

func (f *fakeChecker) IsMember(_ context.Context, chatID, _ int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.members[chatID], nil
}
