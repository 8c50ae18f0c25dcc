// internal/domain/user.go
package domain

import (
	"sort"
	"strings"
	"time"
)

// User is an identity record in the social graph directory.
type User struct {
	ID           int64     `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	Username     string    `db:"username" json:"username"`     // Globally unique username
	PasswordHash string    `db:"password_hash" json:"-"`       // bcrypt hash, never exposed
	Interests    []string  `db:"-" json:"interests"`           // Normalized interest tags
	CreatedAt    time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"` // Timestamp of last update
}

// UserSummary is the public {id, username} projection used in list responses.
type UserSummary struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}

// NewUser creates a new User instance with normalized interests.
func NewUser(username, passwordHash string, interests []string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		Interests:    NormalizeInterests(interests),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Summary returns the public projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}

// NormalizeInterests trims and lower-cases tags, drops empty ones and
// removes duplicates. The result is sorted so that equal sets compare equal.
func NormalizeInterests(interests []string) []string {
	seen := make(map[string]struct{}, len(interests))
	out := make([]string, 0, len(interests))
	for _, tag := range interests {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// CommonInterests counts the tags present in both sets.
func CommonInterests(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, tag := range a {
		set[tag] = struct{}{}
	}
	n := 0
	for _, tag := range b {
		if _, ok := set[tag]; ok {
			n++
			delete(set, tag)
		}
	}
	return n
}
