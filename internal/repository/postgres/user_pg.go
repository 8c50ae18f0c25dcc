// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"socialgraph/internal/domain"
	"socialgraph/internal/repository"
	"socialgraph/internal/util"
	"socialgraph/pkg/db"
)

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts the user and its interests in one transaction.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	err := db.WithTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		query := `INSERT INTO users (username, password_hash, created_at, updated_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
		if err := tx.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt).Scan(&user.ID); err != nil {
			if isUniqueViolation(err) {
				return util.ErrAlreadyExists
			}
			return wrapErr("failed to create user", err)
		}
		return insertInterests(ctx, tx, user.ID, user.Interests)
	})
	if err != nil {
		user.ID = 0
		return classifyTx(err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, password_hash, created_at, updated_at FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, wrapErr(fmt.Sprintf("failed to get user by ID %d", id), err)
	}
	if err := r.loadInterests(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by exact username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, password_hash, created_at, updated_at FROM users WHERE username = $1`
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, wrapErr(fmt.Sprintf("failed to get user by username '%s'", username), err)
	}
	if err := r.loadInterests(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers matches username substrings case-insensitively.
func (r *UserRepository) SearchUsers(ctx context.Context, fragment string) ([]domain.UserSummary, error) {
	users := []domain.UserSummary{}
	query := `SELECT id, username FROM users WHERE username ILIKE $1 ESCAPE '\' ORDER BY username`
	if err := r.db.SelectContext(ctx, &users, query, likePattern(fragment)); err != nil {
		return nil, wrapErr("failed to search users", err)
	}
	return users, nil
}

// ListUsersExcluding lists every user but id.
func (r *UserRepository) ListUsersExcluding(ctx context.Context, id int64) ([]domain.UserSummary, error) {
	users := []domain.UserSummary{}
	query := `SELECT id, username FROM users WHERE id <> $1 ORDER BY username`
	if err := r.db.SelectContext(ctx, &users, query, id); err != nil {
		return nil, wrapErr("failed to list users", err)
	}
	return users, nil
}

type userInterestRow struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Interest string `db:"interest"`
}

// ListUsersWithAnyInterest loads every user holding at least one of the tags,
// together with that user's complete interest set.
func (r *UserRepository) ListUsersWithAnyInterest(ctx context.Context, interests []string) ([]domain.User, error) {
	users := []domain.User{}
	if len(interests) == 0 {
		return users, nil
	}

	rows := []userInterestRow{}
	query := `
		SELECT u.id, u.username, ui.interest
		FROM users u
		JOIN user_interests ui ON ui.user_id = u.id
		WHERE u.id IN (SELECT user_id FROM user_interests WHERE interest = ANY($1))
		ORDER BY u.id, ui.interest`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(interests)); err != nil {
		return nil, wrapErr("failed to list users by interest", err)
	}

	for _, row := range rows {
		if n := len(users); n == 0 || users[n-1].ID != row.ID {
			users = append(users, domain.User{ID: row.ID, Username: row.Username})
		}
		last := &users[len(users)-1]
		last.Interests = append(last.Interests, row.Interest)
	}
	return users, nil
}

// GetUserSummaries resolves ids to {id, username}.
func (r *UserRepository) GetUserSummaries(ctx context.Context, ids []int64) ([]domain.UserSummary, error) {
	users := []domain.UserSummary{}
	if len(ids) == 0 {
		return users, nil
	}
	query := `SELECT id, username FROM users WHERE id = ANY($1) ORDER BY id`
	if err := r.db.SelectContext(ctx, &users, query, pq.Array(ids)); err != nil {
		return nil, wrapErr("failed to resolve user summaries", err)
	}
	return users, nil
}

// UpdateInterests replaces the user's interest rows under a row lock.
func (r *UserRepository) UpdateInterests(ctx context.Context, id int64, interests []string) error {
	err := db.WithTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var locked int64
		if err := tx.GetContext(ctx, &locked, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return util.ErrNotFound
			}
			return wrapErr("failed to lock user", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_interests WHERE user_id = $1`, id); err != nil {
			return wrapErr("failed to clear interests", err)
		}
		if err := insertInterests(ctx, tx, id, interests); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE users SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), id); err != nil {
			return wrapErr("failed to touch user", err)
		}
		return nil
	})
	return classifyTx(err)
}

func (r *UserRepository) loadInterests(ctx context.Context, user *domain.User) error {
	interests := []string{}
	query := `SELECT interest FROM user_interests WHERE user_id = $1 ORDER BY interest`
	if err := r.db.SelectContext(ctx, &interests, query, user.ID); err != nil {
		return wrapErr(fmt.Sprintf("failed to load interests for user %d", user.ID), err)
	}
	user.Interests = interests
	return nil
}

func insertInterests(ctx context.Context, q repository.DBExecutor, userID int64, interests []string) error {
	if len(interests) == 0 {
		return nil
	}
	query := `INSERT INTO user_interests (user_id, interest) SELECT $1, unnest($2::text[])`
	if _, err := q.ExecContext(ctx, query, userID, pq.Array(interests)); err != nil {
		return wrapErr("failed to store interests", err)
	}
	return nil
}
