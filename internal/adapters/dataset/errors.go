package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrMissingColumns    = errors.New("dataset is missing required columns")
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrEmpty             = errors.New("dataset has no usable rows")
)
