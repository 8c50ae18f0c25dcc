// internal/service/mocks_test.go
package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"socialgraph/internal/domain"
	"socialgraph/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SearchUsers(ctx context.Context, fragment string) ([]domain.UserSummary, error) {
	args := m.Called(ctx, fragment)
	return args.Get(0).([]domain.UserSummary), args.Error(1)
}

func (m *MockUserRepository) ListUsersExcluding(ctx context.Context, id int64) ([]domain.UserSummary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.UserSummary), args.Error(1)
}

func (m *MockUserRepository) ListUsersWithAnyInterest(ctx context.Context, interests []string) ([]domain.User, error) {
	args := m.Called(ctx, interests)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserSummaries(ctx context.Context, ids []int64) ([]domain.UserSummary, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.UserSummary), args.Error(1)
}

func (m *MockUserRepository) UpdateInterests(ctx context.Context, id int64, interests []string) error {
	args := m.Called(ctx, id, interests)
	return args.Error(0)
}

// MockGraphRepository is a mock implementation of repository.GraphRepository.
type MockGraphRepository struct {
	mock.Mock
}

func (m *MockGraphRepository) WithinPair(ctx context.Context, a, b int64, fn func(ctx context.Context, tx repository.PairTx) error) error {
	args := m.Called(ctx, a, b, fn)
	return args.Error(0)
}

func (m *MockGraphRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockGraphRepository) ListFriends(ctx context.Context, userID int64) ([]domain.UserSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.UserSummary), args.Error(1)
}

func (m *MockGraphRepository) ListIncomingRequests(ctx context.Context, userID int64) ([]domain.UserSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.UserSummary), args.Error(1)
}

// MockPairTx is a mock implementation of repository.PairTx.
type MockPairTx struct {
	mock.Mock
}

func (m *MockPairTx) User(id int64) domain.UserSummary {
	args := m.Called(id)
	return args.Get(0).(domain.UserSummary)
}

func (m *MockPairTx) IsFriend(ctx context.Context, userID, otherID int64) (bool, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPairTx) HasPendingRequest(ctx context.Context, requesterID, targetID int64) (bool, error) {
	args := m.Called(ctx, requesterID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPairTx) AddPendingRequest(ctx context.Context, requesterID, targetID int64, at time.Time) error {
	args := m.Called(ctx, requesterID, targetID, at)
	return args.Error(0)
}

func (m *MockPairTx) RemovePendingRequest(ctx context.Context, requesterID, targetID int64) error {
	args := m.Called(ctx, requesterID, targetID)
	return args.Error(0)
}

func (m *MockPairTx) AddFriendship(ctx context.Context, userID, otherID int64, at time.Time) error {
	args := m.Called(ctx, userID, otherID, at)
	return args.Error(0)
}

func (m *MockPairTx) RemoveFriendship(ctx context.Context, userID, otherID int64) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

func (m *MockPairTx) AppendNotification(ctx context.Context, userID int64, message string, at time.Time) error {
	args := m.Called(ctx, userID, message, at)
	return args.Error(0)
}

// MockCache is a mock implementation of cache.RecommendationCache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, userID int64) ([]domain.Recommendation, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.Recommendation), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, userID int64, recs []domain.Recommendation) error {
	args := m.Called(ctx, userID, recs)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, userIDs ...int64) error {
	args := m.Called(ctx, userIDs)
	return args.Error(0)
}

// MockTokenIssuer is a mock implementation of TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) IssueToken(userID int64) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}
