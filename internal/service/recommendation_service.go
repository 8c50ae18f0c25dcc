// internal/service/recommendation_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"socialgraph/internal/cache"
	"socialgraph/internal/domain"
	"socialgraph/internal/metrics"
	"socialgraph/internal/repository"
	"socialgraph/internal/util"
)

// RecommendationService ranks friend candidates for a user.
type RecommendationService interface {
	Recommend(ctx context.Context, userID int64) ([]domain.Recommendation, error)
}

type recommendationService struct {
	users  repository.UserRepository
	graph  repository.GraphRepository
	cache  cache.RecommendationCache
	fanout int
	logger *slog.Logger
	group  singleflight.Group

	computeTimeout time.Duration
}

const defaultComputeTimeout = 10 * time.Second

// NewRecommendationService creates a new instance of RecommendationService.
// fanout bounds the concurrent friend-list reads of one computation.
func NewRecommendationService(
	users repository.UserRepository,
	graph repository.GraphRepository,
	recCache cache.RecommendationCache,
	fanout int,
	logger *slog.Logger,
) RecommendationService {
	if fanout < 1 {
		fanout = 1
	}
	return &recommendationService{
		users:  users,
		graph:  graph,
		cache:  recCache,
		fanout: fanout,
		logger: logger,

		computeTimeout: defaultComputeTimeout,
	}
}

// Recommend serves from cache when possible. Concurrent misses for the same
// user share one computation.
func (s *recommendationService) Recommend(ctx context.Context, userID int64) ([]domain.Recommendation, error) {
	recs, hit, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("Recommendation cache read failed", "user_id", userID, "error", err)
	}
	if hit {
		metrics.RecordCacheHit()
		return recs, nil
	}
	metrics.RecordCacheMiss()

	// The shared computation outlives any single caller's cancellation.
	ch := s.group.DoChan(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		computeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.computeTimeout)
		defer cancel()
		return s.compute(computeCtx, userID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		recs = res.Val.([]domain.Recommendation)
	}

	if err := s.cache.Set(ctx, userID, recs); err != nil {
		s.logger.Warn("Recommendation cache write failed", "user_id", userID, "error", err)
	}
	return recs, nil
}

func (s *recommendationService) compute(ctx context.Context, userID int64) ([]domain.Recommendation, error) {
	start := time.Now()
	defer func() { metrics.RecordRecommendation(time.Since(start)) }()

	var user *domain.User
	var friendIDs []int64
	err := util.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		if user, err = s.users.GetUserByID(ctx, userID); err != nil {
			return err
		}
		friendIDs, err = s.graph.ListFriendIDs(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	excluded := make(map[int64]struct{}, len(friendIDs)+1)
	excluded[userID] = struct{}{}
	for _, id := range friendIDs {
		excluded[id] = struct{}{}
	}

	acc := newCandidateAccumulator()

	if len(user.Interests) > 0 {
		var matches []domain.User
		err := util.RetryRead(ctx, func(ctx context.Context) error {
			var err error
			matches, err = s.users.ListUsersWithAnyInterest(ctx, user.Interests)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("recommend: interest pass: %w", err)
		}
		for _, m := range matches {
			if _, skip := excluded[m.ID]; skip {
				continue
			}
			acc.setInterests(m.ID, m.Username, domain.CommonInterests(user.Interests, m.Interests))
		}
	}

	friendsOfFriends, err := s.friendLists(ctx, friendIDs)
	if err != nil {
		return nil, fmt.Errorf("recommend: mutual-friend pass: %w", err)
	}
	// Every (friend, friend-of-friend) path adds one, so a candidate shared by
	// three friends ends with three.
	for _, list := range friendsOfFriends {
		for _, g := range list {
			if _, skip := excluded[g]; skip {
				continue
			}
			acc.addMutual(g)
		}
	}

	if missing := acc.unnamed(); len(missing) > 0 {
		var summaries []domain.UserSummary
		err := util.RetryRead(ctx, func(ctx context.Context) error {
			var err error
			summaries, err = s.users.GetUserSummaries(ctx, missing)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("recommend: resolve usernames: %w", err)
		}
		for _, u := range summaries {
			acc.name(u.ID, u.Username)
		}
	}

	return acc.ranked(), nil
}

// friendLists loads the friend list of each id concurrently. The result is
// indexed like ids so the merge order does not depend on scheduling.
func (s *recommendationService) friendLists(ctx context.Context, ids []int64) ([][]int64, error) {
	lists := make([][]int64, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, id := range ids {
		g.Go(func() error {
			return util.RetryRead(gctx, func(ctx context.Context) error {
				friends, err := s.graph.ListFriendIDs(ctx, id)
				if err != nil {
					return err
				}
				lists[i] = friends
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lists, nil
}

// candidateAccumulator merges both passes into one record per candidate,
// remembering discovery order for stable ranking.
type candidateAccumulator struct {
	byID  map[int64]*domain.Recommendation
	order []int64
}

func newCandidateAccumulator() *candidateAccumulator {
	return &candidateAccumulator{byID: make(map[int64]*domain.Recommendation)}
}

func (a *candidateAccumulator) get(id int64) *domain.Recommendation {
	rec, ok := a.byID[id]
	if !ok {
		rec = &domain.Recommendation{UserID: id}
		a.byID[id] = rec
		a.order = append(a.order, id)
	}
	return rec
}

func (a *candidateAccumulator) setInterests(id int64, username string, common int) {
	rec := a.get(id)
	rec.Username = username
	rec.CommonInterests = common
}

func (a *candidateAccumulator) addMutual(id int64) {
	a.get(id).MutualFriends++
}

func (a *candidateAccumulator) unnamed() []int64 {
	var ids []int64
	for _, id := range a.order {
		if a.byID[id].Username == "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (a *candidateAccumulator) name(id int64, username string) {
	if rec, ok := a.byID[id]; ok {
		rec.Username = username
	}
}

// ranked orders by common interests, then mutual friends, both descending.
// Ties keep discovery order.
func (a *candidateAccumulator) ranked() []domain.Recommendation {
	out := make([]domain.Recommendation, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, *a.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CommonInterests != out[j].CommonInterests {
			return out[i].CommonInterests > out[j].CommonInterests
		}
		return out[i].MutualFriends > out[j].MutualFriends
	})
	return out
}
