// Package repository keeps scored footprints, transactions and the
// employee leaderboard.
package repository

import (
	"context"
	"time"

	"github.com/okian/footprint/internal/domain/model"
)

// Store provides read/write access to footprint history and ranking state.
type Store interface {
	// Save appends fp to the employee's history. It assigns an ID when fp has
	// none and fills ChangePct against the record dated just before it.
	Save(ctx context.Context, fp model.Footprint) (model.Footprint, error)

	// Latest returns the most recent record of an employee.
	// Returns ErrNotFound if the employee is unknown.
	Latest(ctx context.Context, employeeID string) (model.Footprint, error)

	// History returns every record of an employee, oldest first.
	History(ctx context.Context, employeeID string) ([]model.Footprint, error)

	// Between returns all records dated in [from, to), oldest first.
	Between(ctx context.Context, from, to time.Time) ([]model.Footprint, error)

	// LatestAll returns the latest record per employee ordered by employee id.
	LatestAll(ctx context.Context) ([]model.Footprint, error)

	// Rank returns the leaderboard position of an employee.
	// Returns ErrNotFound if the employee is unknown.
	Rank(ctx context.Context, employeeID string) (model.Ranked, error)

	// TopN returns the top-N employees ordered by score desc, id asc.
	TopN(ctx context.Context, n int) ([]model.Ranked, error)

	// TopNInDepartment is TopN restricted to one department. Ranks are
	// positions within that department.
	TopNInDepartment(ctx context.Context, department string, n int) ([]model.Ranked, error)

	// Count returns the number of employees with at least one record.
	Count(ctx context.Context) int

	// SaveTransaction stores a transaction, assigning an ID when it has none.
	SaveTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error)

	// Transactions returns an employee's transactions dated in [from, to),
	// oldest first. A zero to means no upper bound.
	Transactions(ctx context.Context, employeeID string, from, to time.Time) ([]model.Transaction, error)
}
