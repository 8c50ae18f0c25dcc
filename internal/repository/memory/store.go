// internal/repository/memory/store.go
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"socialgraph/internal/domain"
	"socialgraph/internal/repository"
	"socialgraph/internal/util"
)

// record is one user together with its embedded relationship collections.
// mu guards everything below it.
type record struct {
	mu            sync.Mutex
	user          domain.User
	friends       map[int64]struct{}
	pending       map[int64]time.Time // requester id -> time the request was sent
	notifications []domain.Notification
}

// Store is a process-local implementation of the user, graph and
// notification repositories. Pair operations lock the two records in id
// order, so operations on disjoint pairs never block each other.
type Store struct {
	mu      sync.RWMutex // guards the maps, not the records
	byID    map[int64]*record
	byName  map[string]int64
	nextID  int64
	notifID atomic.Int64
}

var (
	_ repository.UserRepository         = (*Store)(nil)
	_ repository.GraphRepository        = (*Store)(nil)
	_ repository.NotificationRepository = (*Store)(nil)
)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[int64]*record),
		byName: make(map[string]int64),
	}
}

func (s *Store) lookup(id int64) (*record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	return rec, ok
}

func (s *Store) snapshot() []*record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*record, 0, len(s.byID))
	for _, rec := range s.byID {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].user.ID < out[j].user.ID })
	return out
}

// CreateUser implements repository.UserRepository.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[user.Username]; taken {
		return util.ErrAlreadyExists
	}
	s.nextID++
	user.ID = s.nextID
	stored := *user
	stored.Interests = append([]string(nil), user.Interests...)
	s.byID[user.ID] = &record{
		user:    stored,
		friends: make(map[int64]struct{}),
		pending: make(map[int64]time.Time),
	}
	s.byName[user.Username] = user.ID
	return nil
}

func (rec *record) copyUser() *domain.User {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	u := rec.user
	u.Interests = append([]string{}, rec.user.Interests...)
	return &u
}

// GetUserByID implements repository.UserRepository.
func (s *Store) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	rec, ok := s.lookup(id)
	if !ok {
		return nil, util.ErrNotFound
	}
	return rec.copyUser(), nil
}

// GetUserByUsername implements repository.UserRepository.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	id, ok := s.byName[username]
	s.mu.RUnlock()
	if !ok {
		return nil, util.ErrNotFound
	}
	return s.GetUserByID(ctx, id)
}

// SearchUsers implements repository.UserRepository.
func (s *Store) SearchUsers(_ context.Context, fragment string) ([]domain.UserSummary, error) {
	needle := strings.ToLower(fragment)
	out := []domain.UserSummary{}
	for _, rec := range s.snapshot() {
		if strings.Contains(strings.ToLower(rec.user.Username), needle) {
			out = append(out, rec.user.Summary())
		}
	}
	sortByUsername(out)
	return out, nil
}

// ListUsersExcluding implements repository.UserRepository.
func (s *Store) ListUsersExcluding(_ context.Context, id int64) ([]domain.UserSummary, error) {
	out := []domain.UserSummary{}
	for _, rec := range s.snapshot() {
		if rec.user.ID != id {
			out = append(out, rec.user.Summary())
		}
	}
	sortByUsername(out)
	return out, nil
}

// ListUsersWithAnyInterest implements repository.UserRepository.
func (s *Store) ListUsersWithAnyInterest(_ context.Context, interests []string) ([]domain.User, error) {
	out := []domain.User{}
	if len(interests) == 0 {
		return out, nil
	}
	for _, rec := range s.snapshot() {
		u := rec.copyUser()
		if domain.CommonInterests(interests, u.Interests) > 0 {
			out = append(out, *u)
		}
	}
	return out, nil
}

// GetUserSummaries implements repository.UserRepository.
func (s *Store) GetUserSummaries(_ context.Context, ids []int64) ([]domain.UserSummary, error) {
	out := []domain.UserSummary{}
	for _, id := range ids {
		if rec, ok := s.lookup(id); ok {
			out = append(out, rec.user.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateInterests implements repository.UserRepository.
func (s *Store) UpdateInterests(_ context.Context, id int64, interests []string) error {
	rec, ok := s.lookup(id)
	if !ok {
		return util.ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.user.Interests = append([]string{}, interests...)
	rec.user.UpdatedAt = time.Now().UTC()
	return nil
}

// WithinPair implements repository.GraphRepository. fn works on staged
// copies of both records; the copies replace the originals only when fn
// returns nil.
func (s *Store) WithinPair(ctx context.Context, a, b int64, fn func(ctx context.Context, tx repository.PairTx) error) error {
	if a == b {
		return util.ErrInvalidArgument
	}
	recA, okA := s.lookup(a)
	recB, okB := s.lookup(b)
	if !okA || !okB {
		return util.ErrNotFound
	}

	first, second := recA, recB
	if b < a {
		first, second = recB, recA
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	tx := &pairTx{
		store:  s,
		staged: map[int64]*staged{a: stage(recA), b: stage(recB)},
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit(recA, recB)
	return nil
}

// ListFriendIDs implements repository.GraphRepository.
func (s *Store) ListFriendIDs(_ context.Context, userID int64) ([]int64, error) {
	rec, ok := s.lookup(userID)
	if !ok {
		return nil, util.ErrNotFound
	}
	rec.mu.Lock()
	ids := make([]int64, 0, len(rec.friends))
	for id := range rec.friends {
		ids = append(ids, id)
	}
	rec.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ListFriends implements repository.GraphRepository.
func (s *Store) ListFriends(ctx context.Context, userID int64) ([]domain.UserSummary, error) {
	ids, err := s.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.GetUserSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	sortByUsername(friends)
	return friends, nil
}

// ListIncomingRequests implements repository.GraphRepository.
func (s *Store) ListIncomingRequests(ctx context.Context, userID int64) ([]domain.UserSummary, error) {
	rec, ok := s.lookup(userID)
	if !ok {
		return nil, util.ErrNotFound
	}
	type entry struct {
		id int64
		at time.Time
	}
	rec.mu.Lock()
	entries := make([]entry, 0, len(rec.pending))
	for id, at := range rec.pending {
		entries = append(entries, entry{id: id, at: at})
	}
	rec.mu.Unlock()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].at.Equal(entries[j].at) {
			return entries[i].id < entries[j].id
		}
		return entries[i].at.Before(entries[j].at)
	})

	out := make([]domain.UserSummary, 0, len(entries))
	for _, e := range entries {
		if sender, ok := s.lookup(e.id); ok {
			out = append(out, sender.user.Summary())
		}
	}
	return out, nil
}

// ListNotifications implements repository.NotificationRepository.
func (s *Store) ListNotifications(_ context.Context, userID int64) ([]domain.Notification, error) {
	rec, ok := s.lookup(userID)
	if !ok {
		return nil, util.ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]domain.Notification{}, rec.notifications...), nil
}

func sortByUsername(users []domain.UserSummary) {
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
}
