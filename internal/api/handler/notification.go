// internal/api/handler/notification.go
package handler

import (
	"log/slog"
	"net/http"

	"socialgraph/internal/api/types"
	"socialgraph/internal/service"
)

type NotificationHandler struct {
	responder
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{responder: responder{logger: logger}, notifications: notifications}
}

// List handles GET /notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	notes, err := h.notifications.ListNotifications(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(notes))
}
