package aggregate

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownReduction = errors.New("unknown reduction")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrUnknownField     = errors.New("unknown field")
	ErrNoFields         = errors.New("no fields requested")
	ErrInvalidBins      = errors.New("bin count must be positive")
	ErrNonFinite        = errors.New("reduction is not a finite number")
)
