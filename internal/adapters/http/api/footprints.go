package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/okian/footprint/internal/domain/emission"
	"github.com/okian/footprint/internal/domain/model"
)

// FootprintDependencies defines the interface for footprint operations.
type FootprintDependencies interface {
	Submit(ctx context.Context, sub model.Submission) (model.Receipt, error)
	Calculate(ctx context.Context, sub model.Submission) (emission.Breakdown, error)
	Latest(ctx context.Context, employeeID string) (model.Footprint, error)
	History(ctx context.Context, employeeID string) ([]model.Footprint, error)
}

// FootprintsHandler handles submission and footprint lookups.
type FootprintsHandler struct {
	deps FootprintDependencies
}

// NewFootprintsHandler creates a new footprints handler.
func NewFootprintsHandler(deps FootprintDependencies) *FootprintsHandler {
	return &FootprintsHandler{deps: deps}
}

// HandleSubmit handles POST /footprints requests.
func (h *FootprintsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_footprint"
	sub, err := decodeSubmission(w, r)
	if err != nil {
		writeFailure(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	receipt, err := h.deps.Submit(r.Context(), sub)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	status := http.StatusAccepted
	if receipt.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, receipt)
}

// HandleCalculate handles POST /calculate requests. Nothing is stored.
func (h *FootprintsHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "api.calculate"
	sub, err := decodeSubmission(w, r)
	if err != nil {
		writeFailure(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	b, err := h.deps.Calculate(r.Context(), sub)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleLatest handles GET /footprints/{employee_id} requests.
func (h *FootprintsHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_footprint"
	id, ok := employeeID(w, r, op)
	if !ok {
		return
	}
	fp, err := h.deps.Latest(r.Context(), id)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, fp)
}

// HandleHistory handles GET /footprints/{employee_id}/history requests.
func (h *FootprintsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_footprint_history"
	id, ok := employeeID(w, r, op)
	if !ok {
		return
	}
	history, err := h.deps.History(r.Context(), id)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// decodeSubmission validates the body against the submission schema and
// decodes it.
func decodeSubmission(w http.ResponseWriter, r *http.Request) (model.Submission, error) {
	body, err := readBody(w, r)
	if err != nil {
		return model.Submission{}, err
	}
	if err := validateBody(submissionSchema, body); err != nil {
		return model.Submission{}, err
	}
	var sub model.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		return model.Submission{}, err
	}
	return sub, nil
}

// employeeID reads the {employee_id} path value, writing a 400 when blank.
func employeeID(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	id := strings.TrimSpace(r.PathValue("employee_id"))
	if id == "" {
		writeFailure(w, r, NewKind(op, ErrBadRequest))
		return "", false
	}
	return id, true
}
