// internal/api/handler/recommendation.go
package handler

import (
	"log/slog"
	"net/http"

	"socialgraph/internal/api/types"
	"socialgraph/internal/service"
)

type RecommendationHandler struct {
	responder
	recommendations service.RecommendationService
}

func NewRecommendationHandler(recommendations service.RecommendationService, logger *slog.Logger) *RecommendationHandler {
	return &RecommendationHandler{responder: responder{logger: logger}, recommendations: recommendations}
}

// List handles GET /recommendations
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := callerID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	recs, err := h.recommendations.Recommend(r.Context(), id)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(recs))
}
