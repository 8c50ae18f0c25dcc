// internal/repository/memory/pair_tx.go
package memory

import (
	"context"
	"fmt"
	"maps"
	"time"

	"socialgraph/internal/domain"
	"socialgraph/internal/util"
)

// staged is a working copy of the mutable parts of a record.
type staged struct {
	summary       domain.UserSummary
	friends       map[int64]struct{}
	pending       map[int64]time.Time
	notifications []domain.Notification
}

// stage copies rec. The caller must hold rec.mu.
func stage(rec *record) *staged {
	return &staged{
		summary: rec.user.Summary(),
		friends: maps.Clone(rec.friends),
		pending: maps.Clone(rec.pending),
		// appended entries land in the copy until commit
		notifications: rec.notifications[:len(rec.notifications):len(rec.notifications)],
	}
}

type pairTx struct {
	store  *Store
	staged map[int64]*staged
}

func (t *pairTx) get(id int64) (*staged, error) {
	st, ok := t.staged[id]
	if !ok {
		return nil, fmt.Errorf("user %d is not part of the locked pair: %w", id, util.ErrInvalidArgument)
	}
	return st, nil
}

func (t *pairTx) both(a, b int64) (*staged, *staged, error) {
	sa, err := t.get(a)
	if err != nil {
		return nil, nil, err
	}
	sb, err := t.get(b)
	if err != nil {
		return nil, nil, err
	}
	return sa, sb, nil
}

func (t *pairTx) User(id int64) domain.UserSummary {
	if st, ok := t.staged[id]; ok {
		return st.summary
	}
	return domain.UserSummary{}
}

func (t *pairTx) IsFriend(_ context.Context, userID, otherID int64) (bool, error) {
	su, _, err := t.both(userID, otherID)
	if err != nil {
		return false, err
	}
	_, ok := su.friends[otherID]
	return ok, nil
}

func (t *pairTx) HasPendingRequest(_ context.Context, requesterID, targetID int64) (bool, error) {
	_, target, err := t.both(requesterID, targetID)
	if err != nil {
		return false, err
	}
	_, ok := target.pending[requesterID]
	return ok, nil
}

func (t *pairTx) AddPendingRequest(_ context.Context, requesterID, targetID int64, at time.Time) error {
	_, target, err := t.both(requesterID, targetID)
	if err != nil {
		return err
	}
	if _, ok := target.pending[requesterID]; ok {
		return util.ErrDuplicateRequest
	}
	target.pending[requesterID] = at
	return nil
}

func (t *pairTx) RemovePendingRequest(_ context.Context, requesterID, targetID int64) error {
	_, target, err := t.both(requesterID, targetID)
	if err != nil {
		return err
	}
	if _, ok := target.pending[requesterID]; !ok {
		return util.ErrNoSuchRequest
	}
	delete(target.pending, requesterID)
	return nil
}

func (t *pairTx) AddFriendship(_ context.Context, userID, otherID int64, _ time.Time) error {
	su, so, err := t.both(userID, otherID)
	if err != nil {
		return err
	}
	if _, ok := su.friends[otherID]; ok {
		return util.ErrAlreadyFriends
	}
	su.friends[otherID] = struct{}{}
	so.friends[userID] = struct{}{}
	return nil
}

func (t *pairTx) RemoveFriendship(_ context.Context, userID, otherID int64) error {
	su, so, err := t.both(userID, otherID)
	if err != nil {
		return err
	}
	_, forward := su.friends[otherID]
	_, backward := so.friends[userID]
	if !forward || !backward {
		return util.ErrNotFriends
	}
	delete(su.friends, otherID)
	delete(so.friends, userID)
	return nil
}

func (t *pairTx) AppendNotification(_ context.Context, userID int64, message string, at time.Time) error {
	st, err := t.get(userID)
	if err != nil {
		return err
	}
	st.notifications = append(st.notifications, domain.Notification{
		ID:        t.store.notifID.Add(1),
		UserID:    userID,
		Message:   message,
		CreatedAt: at,
	})
	return nil
}

// commit publishes the staged copies. The caller must hold both record locks.
func (t *pairTx) commit(records ...*record) {
	for _, rec := range records {
		st := t.staged[rec.user.ID]
		rec.friends = st.friends
		rec.pending = st.pending
		rec.notifications = st.notifications
	}
}
