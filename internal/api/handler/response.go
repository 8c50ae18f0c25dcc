// internal/api/handler/response.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"socialgraph/internal/api/types"
	"socialgraph/internal/auth"
	"socialgraph/internal/util"
)

// DefaultTimeout bounds every request handled by the router.
const DefaultTimeout = 15 * time.Second

// responder carries the JSON helpers shared by all handlers.
type responder struct {
	logger *slog.Logger
}

func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

var errorStatus = []struct {
	err  error
	code int
}{
	{util.ErrInvalidArgument, http.StatusBadRequest},
	{util.ErrUnauthorized, http.StatusUnauthorized},
	{util.ErrInvalidCredentials, http.StatusUnauthorized},
	{util.ErrNotFound, http.StatusNotFound},
	{util.ErrNoSuchRequest, http.StatusNotFound},
	{util.ErrAlreadyExists, http.StatusConflict},
	{util.ErrAlreadyFriends, http.StatusConflict},
	{util.ErrDuplicateRequest, http.StatusConflict},
	{util.ErrNotFriends, http.StatusConflict},
}

func (h responder) respondWithError(w http.ResponseWriter, err error) {
	for _, e := range errorStatus {
		if util.IsError(err, e.err) {
			h.respondWithJSON(w, e.code, types.ErrorResponse{Error: e.err.Error()})
			return
		}
	}

	if util.IsError(err, util.ErrStorageUnavailable) {
		h.logger.Warn("Storage unavailable", "error", err)
		h.respondWithJSON(w, http.StatusServiceUnavailable, types.ErrorResponse{Error: "Service temporarily unavailable"})
		return
	}

	h.logger.Error("Unhandled service error", "error", err)
	h.respondWithJSON(w, http.StatusInternalServerError, types.ErrorResponse{Error: "Internal server error"})
}

// respondWithValidationError reports a malformed body as InvalidArgument
// with the failing detail appended.
func (h responder) respondWithValidationError(w http.ResponseWriter, detail string) {
	h.respondWithJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: util.ErrInvalidArgument.Error() + ": " + detail})
}

// callerID returns the authenticated user, set by auth.Middleware.
func callerID(r *http.Request) (int64, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return 0, util.ErrUnauthorized
	}
	return id, nil
}

func pathUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidArgument
	}
	return id, nil
}
