package normalize

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownField  = errors.New("unknown field")
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidYear   = errors.New("invalid year")
)
