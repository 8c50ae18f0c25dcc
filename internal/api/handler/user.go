// internal/api/handler/user.go
package handler

import (
	"log/slog"
	"net/http"

	"socialgraph/internal/api/types"
	"socialgraph/internal/service"
)

// UserHandler serves the user directory.
type UserHandler struct {
	responder
	users service.UserService
}

func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{responder: responder{logger: logger}, users: users}
}

// UpdateInterestsRequest represents the request body for replacing interests.
type UpdateInterestsRequest struct {
	Interests []string `json:"interests" validate:"max=50,dive,max=64"`
}

// Search handles GET /users/search?q=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(users))
}

// List handles GET /users, every user but the caller.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	users, err := h.users.ListUsers(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(users))
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// UpdateInterests handles PUT /users/me/interests
func (h *UserHandler) UpdateInterests(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req UpdateInterestsRequest
	if detail, ok := decodeAndValidate(r, &req); !ok {
		h.respondWithValidationError(w, detail)
		return
	}
	user, err := h.users.UpdateInterests(r.Context(), id, req.Interests)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}
