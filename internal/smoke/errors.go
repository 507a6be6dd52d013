package smoke

import "errors"

// Sentinel kinds for smoke run failures.
var (
	ErrConfig   = errors.New("invalid smoke config")
	ErrStatus   = errors.New("unexpected status")
	ErrMismatch = errors.New("dashboard value mismatch")
)
