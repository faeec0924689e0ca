package api

import (
	"context"
	"net/http"

	"github.com/okian/footprint/internal/domain/recommend"
)

// RecommendationDependencies defines the interface for recommendations.
type RecommendationDependencies interface {
	Recommendations(ctx context.Context, employeeID string, limit int) ([]recommend.Recommendation, error)
}

// RecommendationHandler handles recommendation requests.
type RecommendationHandler struct {
	deps RecommendationDependencies
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(deps RecommendationDependencies) *RecommendationHandler {
	return &RecommendationHandler{deps: deps}
}

// HandleRecommendations handles GET /recommendations/{employee_id}?limit=N.
func (h *RecommendationHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	id, ok := employeeID(w, r, op)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeFailure(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	recs, err := h.deps.Recommendations(r.Context(), id, limit)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}
