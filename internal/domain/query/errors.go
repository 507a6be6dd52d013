package query

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownPage      = errors.New("unknown page")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrUnknownChart     = errors.New("unknown chart")
	ErrIncompletePlan   = errors.New("plan has no aggregation request")
)
