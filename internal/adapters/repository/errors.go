package repository

import (
	"fmt"

	"github.com/okian/footprint/internal/domain/model"
)

// Sentinel kinds for store errors.
var (
	ErrNotFound        = fmt.Errorf("employee %w", model.ErrNotFound)
	ErrInvalidLimit    = fmt.Errorf("%w: leaderboard limit must be positive", model.ErrInvalid)
	ErrMissingEmployee = fmt.Errorf("%w: employee id is required", model.ErrInvalid)
)
