// internal/repository/postgres/graph_pg_test.go
package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialgraph/internal/domain"
	"socialgraph/internal/repository"
	"socialgraph/internal/util"
)

const lockPairQuery = `SELECT id, username FROM users WHERE id IN ($1, $2) ORDER BY id FOR UPDATE`

func expectLockPair(mock sqlmock.Sqlmock, a, b int64) {
	mock.ExpectQuery(regexp.QuoteMeta(lockPairQuery)).
		WithArgs(a, b).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(1, "alice").
			AddRow(2, "bob"))
}

func TestGraphRepository_WithinPair_CommitsOnSuccess(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	mock.ExpectBegin()
	expectLockPair(mock, 2, 1)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM friendships`)).
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO friend_requests`)).
		WithArgs(int64(2), int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WithArgs(int64(1), "bob has sent you a friend request.", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.WithinPair(context.Background(), 2, 1, func(ctx context.Context, tx repository.PairTx) error {
		friends, err := tx.IsFriend(ctx, 2, 1)
		if err != nil {
			return err
		}
		assert.False(t, friends)
		now := time.Now()
		if err := tx.AddPendingRequest(ctx, 2, 1, now); err != nil {
			return err
		}
		return tx.AppendNotification(ctx, 1, domain.RequestSentMessage(tx.User(2).Username), now)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraphRepository_WithinPair_RollsBackOnError(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	mock.ExpectBegin()
	expectLockPair(mock, 1, 2)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM friend_requests`)).
		WithArgs(int64(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.WithinPair(context.Background(), 1, 2, func(ctx context.Context, tx repository.PairTx) error {
		return tx.RemovePendingRequest(ctx, 2, 1)
	})
	assert.ErrorIs(t, err, util.ErrNoSuchRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraphRepository_WithinPair_UnknownUser(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockPairQuery)).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "alice"))
	mock.ExpectRollback()

	called := false
	err := repo.WithinPair(context.Background(), 1, 42, func(ctx context.Context, tx repository.PairTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraphRepository_WithinPair_SameUser(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	err := repo.WithinPair(context.Background(), 3, 3, func(ctx context.Context, tx repository.PairTx) error {
		return nil
	})
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraphRepository_RemoveFriendship_RequiresBothRows(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	mock.ExpectBegin()
	expectLockPair(mock, 1, 2)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM friendships`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := repo.WithinPair(context.Background(), 1, 2, func(ctx context.Context, tx repository.PairTx) error {
		return tx.RemoveFriendship(ctx, 1, 2)
	})
	assert.ErrorIs(t, err, util.ErrNotFriends)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraphRepository_AddFriendship_InsertsMirroredRows(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	mock.ExpectBegin()
	expectLockPair(mock, 1, 2)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO friendships (user_id, friend_id, created_at) VALUES ($1, $2, $3), ($2, $1, $3)`)).
		WithArgs(int64(1), int64(2), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.WithinPair(context.Background(), 1, 2, func(ctx context.Context, tx repository.PairTx) error {
		return tx.AddFriendship(ctx, 1, 2, time.Now())
	})
	assert.ErrorIs(t, err, util.ErrAlreadyFriends)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraphRepository_PairTx_RejectsForeignIDs(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	mock.ExpectBegin()
	expectLockPair(mock, 1, 2)
	mock.ExpectRollback()

	err := repo.WithinPair(context.Background(), 1, 2, func(ctx context.Context, tx repository.PairTx) error {
		return tx.AppendNotification(ctx, 9, "hello", time.Now())
	})
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraphRepository_ListFriendIDs(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT friend_id FROM friendships WHERE user_id = $1 ORDER BY friend_id`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"friend_id"}).AddRow(2).AddRow(5))

	ids, err := repo.ListFriendIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, ids)
}

func TestGraphRepository_ListIncomingRequests(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM friend_requests fr`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(3, "carol"))

	senders, err := repo.ListIncomingRequests(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.UserSummary{{ID: 3, Username: "carol"}}, senders)
}

func TestNotificationRepository_ListNotifications(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewNotificationRepository(sqlxDB)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, message, created_at FROM notifications WHERE user_id = $1 ORDER BY id`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message", "created_at"}).
			AddRow(1, 1, "bob has sent you a friend request.", now).
			AddRow(2, 1, "bob has unfriended you.", now))

	notifications, err := repo.ListNotifications(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "bob has unfriended you.", notifications[1].Message)
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, isUnavailable(&pq.Error{Code: "08006"}))
	assert.True(t, isUnavailable(&pq.Error{Code: "40P01"}))
	assert.True(t, isUnavailable(&pq.Error{Code: "57P01"}))
	assert.False(t, isUnavailable(&pq.Error{Code: "23505"}))
	assert.False(t, isUnavailable(util.ErrNotFound))
}

func TestGraphRepository_WithinPair_BeginUnavailable(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	mock.ExpectBegin().WillReturnError(&pq.Error{Code: "08006"})

	err := repo.WithinPair(context.Background(), 1, 2, func(ctx context.Context, tx repository.PairTx) error {
		t.Fatal("fn must not run without a transaction")
		return nil
	})
	assert.ErrorIs(t, err, util.ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGraphRepository_WithinPair_SerializationFailureAtCommit(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewGraphRepository(sqlxDB)

	mock.ExpectBegin()
	expectLockPair(mock, 1, 2)
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

	err := repo.WithinPair(context.Background(), 1, 2, func(ctx context.Context, tx repository.PairTx) error {
		return nil
	})
	assert.ErrorIs(t, err, util.ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassifyTx(t *testing.T) {
	assert.NoError(t, classifyTx(nil))
	assert.Equal(t, util.ErrNotFound, classifyTx(util.ErrNotFound))

	wrapped := wrapErr("failed to lock user pair", &pq.Error{Code: "08006"})
	assert.Equal(t, wrapped, classifyTx(wrapped))
}
