package api

import (
	"context"
	"net/http"

	"github.com/okian/footprint/internal/domain/insights"
)

// PeerDependencies defines the interface for peer comparison.
type PeerDependencies interface {
	Peers(ctx context.Context, employeeID string) (insights.PeerComparison, error)
}

// PeersHandler handles peer comparison requests.
type PeersHandler struct {
	deps PeerDependencies
}

// NewPeersHandler creates a new peers handler.
func NewPeersHandler(deps PeerDependencies) *PeersHandler {
	return &PeersHandler{deps: deps}
}

// HandlePeers handles GET /peers/{employee_id} requests.
func (h *PeersHandler) HandlePeers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_peers"
	id, ok := employeeID(w, r, op)
	if !ok {
		return
	}
	pc, err := h.deps.Peers(r.Context(), id)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, pc)
}
