package model

import "errors"

// Error kinds shared across layers. Packages wrap one of these in their own
// sentinels so transports can map failures without knowing the package.
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalid     = errors.New("invalid input")
	ErrBusy        = errors.New("busy")
	ErrUnavailable = errors.New("unavailable")
)
