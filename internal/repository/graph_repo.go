// internal/repository/graph_repo.go
package repository

import (
	"context"
	"time"

	"socialgraph/internal/domain"
)

// PairTx is the view of two locked user records handed to a WithinPair
// callback. Every method only accepts ids belonging to the locked pair.
type PairTx interface {
	// User returns the summary of one of the two locked users.
	User(id int64) domain.UserSummary
	IsFriend(ctx context.Context, userID, otherID int64) (bool, error)
	// HasPendingRequest reports whether requesterID sent targetID a request
	// that is still unresolved.
	HasPendingRequest(ctx context.Context, requesterID, targetID int64) (bool, error)
	AddPendingRequest(ctx context.Context, requesterID, targetID int64, at time.Time) error
	RemovePendingRequest(ctx context.Context, requesterID, targetID int64) error
	// AddFriendship adds each user to the other's friend set.
	AddFriendship(ctx context.Context, userID, otherID int64, at time.Time) error
	// RemoveFriendship removes each user from the other's friend set.
	RemoveFriendship(ctx context.Context, userID, otherID int64) error
	AppendNotification(ctx context.Context, userID int64, message string, at time.Time) error
}

// GraphRepository stores friendships and pending requests.
type GraphRepository interface {
	// WithinPair runs fn as one atomic unit holding exclusive access to the
	// records of users a and b. Either every change made through the PairTx
	// persists or none does. Fails with util.ErrNotFound if either user is unknown.
	WithinPair(ctx context.Context, a, b int64, fn func(ctx context.Context, tx PairTx) error) error
	// ListFriendIDs returns the ids in a user's friend set, ascending.
	ListFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	// ListFriends returns the friend set as summaries ordered by username.
	ListFriends(ctx context.Context, userID int64) ([]domain.UserSummary, error)
	// ListIncomingRequests returns the senders of unresolved requests
	// addressed to userID, oldest first.
	ListIncomingRequests(ctx context.Context, userID int64) ([]domain.UserSummary, error)
}
