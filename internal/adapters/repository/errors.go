package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNoSnapshot = errors.New("no dataset loaded")
	ErrNilTable   = errors.New("nil table")
)
