// internal/repository/postgres/graph_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"socialgraph/internal/domain"
	"socialgraph/internal/repository"
	"socialgraph/internal/util"
	"socialgraph/pkg/db"
)

// GraphRepository implements repository.GraphRepository for PostgreSQL.
// Friendships are stored as two mirrored rows; requests as one directed row.
type GraphRepository struct {
	db *sqlx.DB
}

// NewGraphRepository creates a new GraphRepository.
func NewGraphRepository(db *sqlx.DB) repository.GraphRepository {
	return &GraphRepository{db: db}
}

// WithinPair locks both user rows in id order and runs fn in the same
// transaction. Disjoint pairs never contend for the same row locks.
func (r *GraphRepository) WithinPair(ctx context.Context, a, b int64, fn func(ctx context.Context, tx repository.PairTx) error) error {
	if a == b {
		return util.ErrInvalidArgument
	}
	err := db.WithTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		locked := []domain.UserSummary{}
		query := `SELECT id, username FROM users WHERE id IN ($1, $2) ORDER BY id FOR UPDATE`
		if err := tx.SelectContext(ctx, &locked, query, a, b); err != nil {
			return wrapErr("failed to lock user pair", err)
		}
		if len(locked) != 2 {
			return util.ErrNotFound
		}
		return fn(ctx, &pgPairTx{tx: tx, users: locked})
	})
	return classifyTx(err)
}

// ListFriendIDs returns a user's friend ids in ascending order.
func (r *GraphRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	query := `SELECT friend_id FROM friendships WHERE user_id = $1 ORDER BY friend_id`
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to list friend ids for user %d", userID), err)
	}
	return ids, nil
}

// ListFriends returns a user's friends ordered by username.
func (r *GraphRepository) ListFriends(ctx context.Context, userID int64) ([]domain.UserSummary, error) {
	friends := []domain.UserSummary{}
	query := `
		SELECT u.id, u.username
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY u.username`
	if err := r.db.SelectContext(ctx, &friends, query, userID); err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to list friends for user %d", userID), err)
	}
	return friends, nil
}

// ListIncomingRequests returns the senders of pending requests to userID, oldest first.
func (r *GraphRepository) ListIncomingRequests(ctx context.Context, userID int64) ([]domain.UserSummary, error) {
	senders := []domain.UserSummary{}
	query := `
		SELECT u.id, u.username
		FROM friend_requests fr
		JOIN users u ON u.id = fr.requester_id
		WHERE fr.target_id = $1
		ORDER BY fr.created_at, fr.requester_id`
	if err := r.db.SelectContext(ctx, &senders, query, userID); err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to list friend requests for user %d", userID), err)
	}
	return senders, nil
}

// pgPairTx is the PairTx handed out by WithinPair.
type pgPairTx struct {
	tx    *sqlx.Tx
	users []domain.UserSummary
}

func (p *pgPairTx) User(id int64) domain.UserSummary {
	for _, u := range p.users {
		if u.ID == id {
			return u
		}
	}
	return domain.UserSummary{}
}

func (p *pgPairTx) checkPair(ids ...int64) error {
	for _, id := range ids {
		if p.User(id).ID == 0 {
			return fmt.Errorf("user %d is not part of the locked pair: %w", id, util.ErrInvalidArgument)
		}
	}
	return nil
}

func (p *pgPairTx) IsFriend(ctx context.Context, userID, otherID int64) (bool, error) {
	if err := p.checkPair(userID, otherID); err != nil {
		return false, err
	}
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`
	if err := p.tx.GetContext(ctx, &exists, query, userID, otherID); err != nil {
		return false, wrapErr("failed to check friendship", err)
	}
	return exists, nil
}

func (p *pgPairTx) HasPendingRequest(ctx context.Context, requesterID, targetID int64) (bool, error) {
	if err := p.checkPair(requesterID, targetID); err != nil {
		return false, err
	}
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM friend_requests WHERE requester_id = $1 AND target_id = $2)`
	if err := p.tx.GetContext(ctx, &exists, query, requesterID, targetID); err != nil {
		return false, wrapErr("failed to check friend request", err)
	}
	return exists, nil
}

func (p *pgPairTx) AddPendingRequest(ctx context.Context, requesterID, targetID int64, at time.Time) error {
	if err := p.checkPair(requesterID, targetID); err != nil {
		return err
	}
	query := `INSERT INTO friend_requests (requester_id, target_id, created_at) VALUES ($1, $2, $3)`
	if _, err := p.tx.ExecContext(ctx, query, requesterID, targetID, at); err != nil {
		if isUniqueViolation(err) {
			return util.ErrDuplicateRequest
		}
		return wrapErr("failed to insert friend request", err)
	}
	return nil
}

func (p *pgPairTx) RemovePendingRequest(ctx context.Context, requesterID, targetID int64) error {
	if err := p.checkPair(requesterID, targetID); err != nil {
		return err
	}
	query := `DELETE FROM friend_requests WHERE requester_id = $1 AND target_id = $2`
	result, err := p.tx.ExecContext(ctx, query, requesterID, targetID)
	if err != nil {
		return wrapErr("failed to delete friend request", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	if rows == 0 {
		return util.ErrNoSuchRequest
	}
	return nil
}

func (p *pgPairTx) AddFriendship(ctx context.Context, userID, otherID int64, at time.Time) error {
	if err := p.checkPair(userID, otherID); err != nil {
		return err
	}
	query := `INSERT INTO friendships (user_id, friend_id, created_at) VALUES ($1, $2, $3), ($2, $1, $3)`
	if _, err := p.tx.ExecContext(ctx, query, userID, otherID, at); err != nil {
		if isUniqueViolation(err) {
			return util.ErrAlreadyFriends
		}
		return wrapErr("failed to insert friendship", err)
	}
	return nil
}

func (p *pgPairTx) RemoveFriendship(ctx context.Context, userID, otherID int64) error {
	if err := p.checkPair(userID, otherID); err != nil {
		return err
	}
	query := `DELETE FROM friendships
              WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)`
	result, err := p.tx.ExecContext(ctx, query, userID, otherID)
	if err != nil {
		return wrapErr("failed to delete friendship", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	// Both mirrored rows must go; anything else means the pair was not symmetric.
	if rows != 2 {
		return util.ErrNotFriends
	}
	return nil
}

func (p *pgPairTx) AppendNotification(ctx context.Context, userID int64, message string, at time.Time) error {
	if err := p.checkPair(userID); err != nil {
		return err
	}
	query := `INSERT INTO notifications (user_id, message, created_at) VALUES ($1, $2, $3)`
	if _, err := p.tx.ExecContext(ctx, query, userID, message, at); err != nil {
		return wrapErr("failed to append notification", err)
	}
	return nil
}
