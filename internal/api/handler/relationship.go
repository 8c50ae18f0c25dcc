// internal/api/handler/relationship.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"socialgraph/internal/api/types"
	"socialgraph/internal/service"
)

// RelationshipHandler serves friendships and friend requests.
type RelationshipHandler struct {
	responder
	relationships service.RelationshipService
}

func NewRelationshipHandler(relationships service.RelationshipService, logger *slog.Logger) *RelationshipHandler {
	return &RelationshipHandler{responder: responder{logger: logger}, relationships: relationships}
}

// pairAction runs op for (caller, {userID}) and reports status on success.
func (h *RelationshipHandler) pairAction(w http.ResponseWriter, r *http.Request, status string, op func(ctx context.Context, caller, other int64) error) {
	caller, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	other, err := pathUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if err := op(r.Context(), caller, other); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":  status,
		"user_id": other,
	})
}

// SendRequest handles POST /friends/requests/{userID}
func (h *RelationshipHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	h.pairAction(w, r, "request_sent", h.relationships.SendRequest)
}

// AcceptRequest handles POST /friends/requests/{userID}/accept
func (h *RelationshipHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.pairAction(w, r, "friends", h.relationships.AcceptRequest)
}

// RejectRequest handles POST /friends/requests/{userID}/reject
func (h *RelationshipHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.pairAction(w, r, "rejected", h.relationships.RejectRequest)
}

// Unfriend handles DELETE /friends/{userID}
func (h *RelationshipHandler) Unfriend(w http.ResponseWriter, r *http.Request) {
	h.pairAction(w, r, "unfriended", h.relationships.Unfriend)
}

// ListFriends handles GET /friends
func (h *RelationshipHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	friends, err := h.relationships.ListFriends(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(friends))
}

// ListRequests handles GET /friends/requests
func (h *RelationshipHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	senders, err := h.relationships.ListFriendRequests(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(senders))
}
