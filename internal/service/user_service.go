// internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"socialgraph/internal/cache"
	"socialgraph/internal/domain"
	"socialgraph/internal/repository"
	"socialgraph/internal/util"
)

// Username length bounds, counted in runes after trimming.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
)

// TokenIssuer mints identity tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(userID int64) (string, error)
}

// UserService defines the user directory operations exposed to clients.
type UserService interface {
	Register(ctx context.Context, username, password string, interests []string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	SearchUsers(ctx context.Context, fragment string) ([]domain.UserSummary, error)
	ListUsers(ctx context.Context, callerID int64) ([]domain.UserSummary, error)
	UpdateInterests(ctx context.Context, id int64, interests []string) (*domain.User, error)
}

type userService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	cache      cache.RecommendationCache
	bcryptCost int
	logger     *slog.Logger
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	users repository.UserRepository,
	tokens TokenIssuer,
	recCache cache.RecommendationCache,
	bcryptCost int,
	logger *slog.Logger,
) UserService {
	return &userService{
		users:      users,
		tokens:     tokens,
		cache:      recCache,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a user with a bcrypt-hashed password.
func (s *userService) Register(ctx context.Context, username, password string, interests []string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength || password == "" {
		return nil, util.ErrInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	user := domain.NewUser(username, string(hash), interests)
	if err := s.users.CreateUser(ctx, user); err != nil {
		if util.IsError(err, util.ErrAlreadyExists) {
			return nil, util.ErrAlreadyExists
		}
		return nil, fmt.Errorf("register: failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks the credentials and returns an identity token.
func (s *userService) Login(ctx context.Context, username, password string) (string, error) {
	var user *domain.User
	err := util.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
		return err
	})
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return "", util.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", util.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: failed to compare password: %w", err)
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return token, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user *domain.User
	err := util.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.users.GetUserByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) SearchUsers(ctx context.Context, fragment string) ([]domain.UserSummary, error) {
	var users []domain.UserSummary
	err := util.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.users.SearchUsers(ctx, strings.TrimSpace(fragment))
		return err
	})
	return users, err
}

func (s *userService) ListUsers(ctx context.Context, callerID int64) ([]domain.UserSummary, error) {
	var users []domain.UserSummary
	err := util.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.users.ListUsersExcluding(ctx, callerID)
		return err
	})
	return users, err
}

// UpdateInterests replaces a user's interests and drops their cached recommendations.
func (s *userService) UpdateInterests(ctx context.Context, id int64, interests []string) (*domain.User, error) {
	normalized := domain.NormalizeInterests(interests)
	if err := s.users.UpdateInterests(ctx, id, normalized); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate recommendations", "user_id", id, "error", err)
	}
	return s.GetUser(ctx, id)
}
