// internal/util/errors.go
package util

import "errors"

// Domain errors. Everything except ErrStorageUnavailable is an expected,
// caller-recoverable condition and is surfaced to the client as-is.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("username already exists")
	ErrAlreadyFriends     = errors.New("users are already friends")
	ErrDuplicateRequest   = errors.New("friend request already pending")
	ErrNoSuchRequest      = errors.New("no such friend request")
	ErrNotFriends         = errors.New("users are not friends")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("invalid or expired token")
)

// ErrStorageUnavailable marks a transient backend failure. It is the only
// error eligible for an internal retry, and only on idempotent reads.
var ErrStorageUnavailable = errors.New("storage unavailable")

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// IsDomainError reports whether err belongs to the caller-facing taxonomy.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrInvalidArgument, ErrNotFound, ErrAlreadyExists, ErrAlreadyFriends,
		ErrDuplicateRequest, ErrNoSuchRequest, ErrNotFriends,
		ErrInvalidCredentials, ErrUnauthorized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
