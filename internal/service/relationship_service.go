// internal/service/relationship_service.go
package service

import (
	"context"
	"log/slog"
	"time"

	"socialgraph/internal/cache"
	"socialgraph/internal/domain"
	"socialgraph/internal/metrics"
	"socialgraph/internal/repository"
	"socialgraph/internal/util"
)

// RelationshipService drives the friend request workflow. It is the only
// writer of friendships, pending requests and relationship notifications.
type RelationshipService interface {
	SendRequest(ctx context.Context, requesterID, targetID int64) error
	AcceptRequest(ctx context.Context, accepterID, requesterID int64) error
	RejectRequest(ctx context.Context, rejecterID, requesterID int64) error
	Unfriend(ctx context.Context, initiatorID, otherID int64) error
	ListFriends(ctx context.Context, userID int64) ([]domain.UserSummary, error)
	ListFriendRequests(ctx context.Context, userID int64) ([]domain.UserSummary, error)
}

type relationshipService struct {
	users  repository.UserRepository
	graph  repository.GraphRepository
	cache  cache.RecommendationCache
	logger *slog.Logger
	now    func() time.Time
}

// NewRelationshipService creates a new instance of RelationshipService.
func NewRelationshipService(
	users repository.UserRepository,
	graph repository.GraphRepository,
	recCache cache.RecommendationCache,
	logger *slog.Logger,
) RelationshipService {
	return &relationshipService{
		users:  users,
		graph:  graph,
		cache:  recCache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// relationshipOf reads the state of the locked pair (a, b).
func relationshipOf(ctx context.Context, tx repository.PairTx, a, b int64) (domain.Relationship, error) {
	friends, err := tx.IsFriend(ctx, a, b)
	if err != nil {
		return domain.Relationship{}, err
	}
	if friends {
		return domain.Relationship{Status: domain.RelationshipFriends}, nil
	}
	for _, dir := range [][2]int64{{a, b}, {b, a}} {
		pending, err := tx.HasPendingRequest(ctx, dir[0], dir[1])
		if err != nil {
			return domain.Relationship{}, err
		}
		if pending {
			return domain.Relationship{Status: domain.RelationshipRequestPending, RequesterID: dir[0]}, nil
		}
	}
	return domain.Relationship{Status: domain.RelationshipNone}, nil
}

// SendRequest is valid only when the pair has no relationship. A request
// already pending in either direction is a duplicate.
func (s *relationshipService) SendRequest(ctx context.Context, requesterID, targetID int64) error {
	return s.transition(ctx, "send_request", requesterID, targetID, func(ctx context.Context, tx repository.PairTx) error {
		rel, err := relationshipOf(ctx, tx, requesterID, targetID)
		if err != nil {
			return err
		}
		switch rel.Status {
		case domain.RelationshipFriends:
			return util.ErrAlreadyFriends
		case domain.RelationshipRequestPending:
			return util.ErrDuplicateRequest
		}

		now := s.now()
		if err := tx.AddPendingRequest(ctx, requesterID, targetID, now); err != nil {
			return err
		}
		return tx.AppendNotification(ctx, targetID, domain.RequestSentMessage(tx.User(requesterID).Username), now)
	})
}

// AcceptRequest consumes the pending request from requesterID and makes the
// pair friends.
func (s *relationshipService) AcceptRequest(ctx context.Context, accepterID, requesterID int64) error {
	return s.transition(ctx, "accept_request", accepterID, requesterID, func(ctx context.Context, tx repository.PairTx) error {
		rel, err := relationshipOf(ctx, tx, accepterID, requesterID)
		if err != nil {
			return err
		}
		if !rel.PendingFrom(requesterID) {
			return util.ErrNoSuchRequest
		}

		now := s.now()
		if err := tx.RemovePendingRequest(ctx, requesterID, accepterID); err != nil {
			return err
		}
		if err := tx.AddFriendship(ctx, accepterID, requesterID, now); err != nil {
			return err
		}
		return tx.AppendNotification(ctx, requesterID, domain.RequestAcceptedMessage(tx.User(accepterID).Username), now)
	})
}

// RejectRequest drops the pending request from requesterID.
func (s *relationshipService) RejectRequest(ctx context.Context, rejecterID, requesterID int64) error {
	return s.transition(ctx, "reject_request", rejecterID, requesterID, func(ctx context.Context, tx repository.PairTx) error {
		rel, err := relationshipOf(ctx, tx, rejecterID, requesterID)
		if err != nil {
			return err
		}
		if !rel.PendingFrom(requesterID) {
			return util.ErrNoSuchRequest
		}

		if err := tx.RemovePendingRequest(ctx, requesterID, rejecterID); err != nil {
			return err
		}
		return tx.AppendNotification(ctx, requesterID, domain.RequestRejectedMessage(tx.User(rejecterID).Username), s.now())
	})
}

// Unfriend fails with util.ErrNotFriends unless the pair are friends.
func (s *relationshipService) Unfriend(ctx context.Context, initiatorID, otherID int64) error {
	return s.transition(ctx, "unfriend", initiatorID, otherID, func(ctx context.Context, tx repository.PairTx) error {
		rel, err := relationshipOf(ctx, tx, initiatorID, otherID)
		if err != nil {
			return err
		}
		if rel.Status != domain.RelationshipFriends {
			return util.ErrNotFriends
		}

		if err := tx.RemoveFriendship(ctx, initiatorID, otherID); err != nil {
			return err
		}
		return tx.AppendNotification(ctx, otherID, domain.UnfriendedMessage(tx.User(initiatorID).Username), s.now())
	})
}

// transition validates the ids, runs fn atomically over the pair and, on
// success, drops both users' cached recommendations.
func (s *relationshipService) transition(ctx context.Context, op string, actorID, otherID int64, fn func(ctx context.Context, tx repository.PairTx) error) error {
	if actorID <= 0 || otherID <= 0 || actorID == otherID {
		metrics.RecordTransition(op, resultLabel(util.ErrInvalidArgument))
		return util.ErrInvalidArgument
	}

	if err := s.graph.WithinPair(ctx, actorID, otherID, fn); err != nil {
		metrics.RecordTransition(op, resultLabel(err))
		if !util.IsDomainError(err) {
			s.logger.Error("Relationship transition failed", "operation", op, "user_id", actorID, "other_id", otherID, "error", err)
		}
		return err
	}

	metrics.RecordTransition(op, "ok")
	s.logger.Info("Relationship updated", "operation", op, "user_id", actorID, "other_id", otherID)
	if err := s.cache.Invalidate(ctx, actorID, otherID); err != nil {
		s.logger.Warn("Failed to invalidate recommendations", "user_id", actorID, "other_id", otherID, "error", err)
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case util.IsError(err, util.ErrInvalidArgument):
		return "invalid_argument"
	case util.IsError(err, util.ErrNotFound):
		return "not_found"
	case util.IsError(err, util.ErrAlreadyFriends):
		return "already_friends"
	case util.IsError(err, util.ErrDuplicateRequest):
		return "duplicate_request"
	case util.IsError(err, util.ErrNoSuchRequest):
		return "no_such_request"
	case util.IsError(err, util.ErrNotFriends):
		return "not_friends"
	case util.IsError(err, util.ErrStorageUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

func (s *relationshipService) ListFriends(ctx context.Context, userID int64) ([]domain.UserSummary, error) {
	var friends []domain.UserSummary
	err := util.RetryRead(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetUserByID(ctx, userID); err != nil {
			return err
		}
		var err error
		friends, err = s.graph.ListFriends(ctx, userID)
		return err
	})
	return friends, err
}

func (s *relationshipService) ListFriendRequests(ctx context.Context, userID int64) ([]domain.UserSummary, error) {
	var senders []domain.UserSummary
	err := util.RetryRead(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetUserByID(ctx, userID); err != nil {
			return err
		}
		var err error
		senders, err = s.graph.ListIncomingRequests(ctx, userID)
		return err
	})
	return senders, err
}
