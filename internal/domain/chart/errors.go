package chart

import "errors"

var (
	// ErrNoFields is returned when a request names no fields.
	ErrNoFields = errors.New("no fields")
	// ErrShape is returned when the data does not fit the chart kind.
	ErrShape = errors.New("data shape does not fit chart")
	// ErrMissingKey is returned when a row lacks a dimension the layout needs.
	ErrMissingKey = errors.New("row missing key")
)
