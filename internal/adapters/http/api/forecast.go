package api

import (
	"context"
	"net/http"

	"github.com/okian/footprint/internal/domain/forecast"
)

// ForecastDependencies defines the interface for forecast operations.
type ForecastDependencies interface {
	Forecast(ctx context.Context, employeeID string, months int) (forecast.EmployeeForecast, error)
	Scenarios(ctx context.Context, employeeID string) (forecast.EmployeeScenarios, error)
	CompanyForecast(ctx context.Context, months int) (forecast.CompanyOverview, error)
}

// ForecastHandler handles individual and company forecasts.
type ForecastHandler struct {
	deps ForecastDependencies
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps ForecastDependencies) *ForecastHandler {
	return &ForecastHandler{deps: deps}
}

// HandleForecast handles GET /forecast/{employee_id}?months=N requests.
// A missing months selects the configured horizon.
func (h *ForecastHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_forecast"
	id, ok := employeeID(w, r, op)
	if !ok {
		return
	}
	months, err := queryInt(r, "months", 0)
	if err != nil {
		writeFailure(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Forecast(r.Context(), id, months)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleScenarios handles GET /scenarios/{employee_id} requests.
func (h *ForecastHandler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scenarios"
	id, ok := employeeID(w, r, op)
	if !ok {
		return
	}
	res, err := h.deps.Scenarios(r.Context(), id)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleCompanyForecast handles GET /company/forecast?months=N requests.
func (h *ForecastHandler) HandleCompanyForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_company_forecast"
	months, err := queryInt(r, "months", 0)
	if err != nil {
		writeFailure(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.CompanyForecast(r.Context(), months)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
