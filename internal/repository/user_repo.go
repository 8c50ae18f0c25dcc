// internal/repository/user_repo.go
package repository

import (
	"context"

	"socialgraph/internal/domain"
)

// UserRepository is the user directory. It is the only component that
// creates users; its read methods never mutate state.
type UserRepository interface {
	// CreateUser stores a new user and sets user.ID. Fails with
	// util.ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByID returns the user with interests populated, or util.ErrNotFound.
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	// GetUserByUsername performs an exact username lookup.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// SearchUsers returns users whose username contains fragment, case-insensitively.
	SearchUsers(ctx context.Context, fragment string) ([]domain.UserSummary, error)
	// ListUsersExcluding returns every user except the given one.
	ListUsersExcluding(ctx context.Context, id int64) ([]domain.UserSummary, error)
	// ListUsersWithAnyInterest returns, ordered by id, the users sharing at
	// least one of the given tags, with their full interest sets.
	ListUsersWithAnyInterest(ctx context.Context, interests []string) ([]domain.User, error)
	// GetUserSummaries resolves ids to summaries, ordered by id. Unknown ids are skipped.
	GetUserSummaries(ctx context.Context, ids []int64) ([]domain.UserSummary, error)
	// UpdateInterests replaces the interest set of a user.
	UpdateInterests(ctx context.Context, id int64, interests []string) error
}
