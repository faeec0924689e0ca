package service

import (
	"fmt"

	"github.com/okian/footprint/internal/adapters/repository"
	"github.com/okian/footprint/internal/domain/model"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted        = fmt.Errorf("%w: service not started", model.ErrUnavailable)
	ErrInvalidSubmission = fmt.Errorf("%w: submission", model.ErrInvalid)
	ErrBusy              = fmt.Errorf("%w: submission queue is full", model.ErrBusy)
	ErrNotFound          = repository.ErrNotFound
)
