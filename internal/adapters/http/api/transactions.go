package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/footprint/internal/domain/model"
)

// monthLayout is the ?month= format on GET /transactions/{employee_id}.
const monthLayout = "2006-01"

// TransactionDependencies defines the interface for transaction operations.
type TransactionDependencies interface {
	RecordTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error)
	Transactions(ctx context.Context, employeeID string, at time.Time) ([]model.Transaction, error)
}

// TransactionsHandler handles purchase transactions.
type TransactionsHandler struct {
	deps TransactionDependencies
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(deps TransactionDependencies) *TransactionsHandler {
	return &TransactionsHandler{deps: deps}
}

// HandleRecord handles POST /transactions requests.
func (h *TransactionsHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_transaction"
	body, err := readBody(w, r)
	if err != nil {
		writeFailure(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateBody(transactionSchema, body); err != nil {
		writeFailure(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	var tx model.Transaction
	if err := json.Unmarshal(body, &tx); err != nil {
		writeFailure(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	saved, err := h.deps.RecordTransaction(r.Context(), tx)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// HandleList handles GET /transactions/{employee_id}?month=YYYY-MM requests.
// The current month is used when month is omitted.
func (h *TransactionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_transactions"
	id, ok := employeeID(w, r, op)
	if !ok {
		return
	}
	var at time.Time
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse(monthLayout, raw)
		if err != nil {
			writeFailure(w, r, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid month %q; must be YYYY-MM", raw)))
			return
		}
		at = parsed
	}
	txs, err := h.deps.Transactions(r.Context(), id, at)
	if err != nil {
		writeFailure(w, r, Wrap(op, err))
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}
