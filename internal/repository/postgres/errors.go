// internal/repository/postgres/errors.go
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"

	"socialgraph/internal/util"
)

const uniqueViolation = "23505"

// wrapErr annotates err with op and tags transient backend failures with
// util.ErrStorageUnavailable so callers can tell them apart from domain errors.
func wrapErr(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, util.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// classifyTx tags transient begin and commit failures returned by db.WithTx.
// Errors already classified inside the transaction pass through unchanged.
func classifyTx(err error) error {
	if err == nil || errors.Is(err, util.ErrStorageUnavailable) || !isUnavailable(err) {
		return err
	}
	return fmt.Errorf("%w: %w", util.ErrStorageUnavailable, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch {
		case strings.HasPrefix(code, "08"), // connection exception
			strings.HasPrefix(code, "53"), // insufficient resources
			strings.HasPrefix(code, "57P"), // operator intervention
			code == "40001", code == "40P01": // serialization failure, deadlock
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// likePattern escapes LIKE metacharacters and wraps fragment for a substring match.
func likePattern(fragment string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(fragment) + "%"
}
