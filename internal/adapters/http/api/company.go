package api

import (
	"context"
	"net/http"

	"github.com/okian/footprint/internal/domain/insights"
)

// CompanyDependencies defines the interface for company insights.
type CompanyDependencies interface {
	CompanyMetrics(ctx context.Context) (insights.CompanyMetrics, error)
	Departments(ctx context.Context) ([]insights.DepartmentStats, error)
	Trends(ctx context.Context, months int) ([]insights.TrendPoint, error)
}

// CompanyHandler handles company-wide insight requests.
type CompanyHandler struct {
	deps CompanyDependencies
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(deps CompanyDependencies) *CompanyHandler {
	return &CompanyHandler{deps: deps}
}

// HandleMetrics handles GET /company/metrics requests.
func (h *CompanyHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.CompanyMetrics(r.Context())
	if err != nil {
		writeFailure(w, r, Wrap("api.get_company_metrics", err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleDepartments handles GET /company/departments requests.
func (h *CompanyHandler) HandleDepartments(w http.ResponseWriter, r *http.Request) {
	depts, err := h.deps.Departments(r.Context())
	if err != nil {
		writeFailure(w, r, Wrap("api.get_company_departments", err))
		return
	}
	if depts == nil {
		depts = []insights.DepartmentStats{}
	}
	writeJSON(w, http.StatusOK, depts)
}

// HandleTrends handles GET /company/trends?months=N requests.
func (h *CompanyHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_company_trends"
	months, err := queryInt(r, "months", 0)
	if err != nil {
		writeFailure(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	points, err := h.deps.Trends(r.Context(), months)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, points)
}
