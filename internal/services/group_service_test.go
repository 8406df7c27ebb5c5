package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/referralhub/coupon-backend/internal/database"
)

func expectRequiredChats(mock sqlmock.Sqlmock, couponTypeID int64, chatIDs ...int64) {
	rows := sqlmock.NewRows([]string{"group_id"})
	for _, id := range chatIDs {
		rows.AddRow(id)
	}
	mock.ExpectQuery(`SELECT tg.group_id`).
		WithArgs(couponTypeID).
		WillReturnRows(rows)
}

func TestGroupServiceCheckMembershipGate(t *testing.T) {
	ctx := context.Background()

	t.Run("No Required Groups Passes", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewGroupService(database.NewGroupRepository(db), &fakeChecker{}, newTestLogger())

		expectRequiredChats(mock, 11)

		err := svc.CheckMembershipGate(ctx, 11, 100, true)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("All Semantics Requires Every Group", func(t *testing.T) {
		db, mock := newMockDB(t)
		checker := &fakeChecker{members: map[int64]bool{10: true, 20: true}}
		svc := NewGroupService(database.NewGroupRepository(db), checker, newTestLogger())

		expectRequiredChats(mock, 11, 10, 20)

		err := svc.CheckMembershipGate(ctx, 11, 100, true)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("All Semantics Fails On First Missing Group", func(t *testing.T) {
		db, mock := newMockDB(t)
		checker := &fakeChecker{members: map[int64]bool{10: true}}
		svc := NewGroupService(database.NewGroupRepository(db), checker, newTestLogger())

		expectRequiredChats(mock, 11, 10, 20)

		err := svc.CheckMembershipGate(ctx, 11, 100, true)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGroupRequirement)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Any Semantics Requires One Group", func(t *testing.T) {
		db, mock := newMockDB(t)
		checker := &fakeChecker{members: map[int64]bool{20: true}}
		svc := NewGroupService(database.NewGroupRepository(db), checker, newTestLogger())

		expectRequiredChats(mock, 11, 10, 20)

		err := svc.CheckMembershipGate(ctx, 11, 100, false)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Any Semantics Fails When Member Of None", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewGroupService(database.NewGroupRepository(db), &fakeChecker{}, newTestLogger())

		expectRequiredChats(mock, 11, 10, 20)

		err := svc.CheckMembershipGate(ctx, 11, 100, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGroupRequirement)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Checker Failure Fails Closed", func(t *testing.T) {
		db, mock := newMockDB(t)
		checker := &fakeChecker{err: fmt.Errorf("telegram unreachable")}
		svc := NewGroupService(database.NewGroupRepository(db), checker, newTestLogger())

		expectRequiredChats(mock, 11, 10)

		err := svc.CheckMembershipGate(ctx, 11, 100, true)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGroupRequirement)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGroupServiceRegisterGroup(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewGroupService(database.NewGroupRepository(db), &fakeChecker{}, newTestLogger())

	t.Run("Missing Name", func(t *testing.T) {
		group, err := svc.RegisterGroup(7, -100200, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, group)
	})

	t.Run("Missing Chat ID", func(t *testing.T) {
		group, err := svc.RegisterGroup(7, 0, "VIP Club")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, group)
	})
}

func TestGroupServiceRemoveGroup(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewGroupService(database.NewGroupRepository(db), &fakeChecker{}, newTestLogger())

	mock.ExpectExec(`DELETE FROM telegram_groups WHERE id = \$1 AND company_id = \$2`).
		WithArgs(int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.RemoveGroup(3, 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
