// Package repository holds the published dataset snapshot.
package repository

import (
	"context"

	"github.com/okian/unirank/internal/domain/model"
)

// Store provides read access to the current dataset and atomic replacement.
type Store interface {
	// Snapshot returns the current table. Returns ErrNoSnapshot before the
	// first Replace.
	Snapshot(ctx context.Context) (*model.Table, error)

	// Current returns the current table and its version as one read.
	Current(ctx context.Context) (*model.Table, uint64, error)

	// Replace publishes tbl and returns the new version.
	Replace(ctx context.Context, tbl *model.Table) (uint64, error)

	// Version returns the version of the current snapshot, 0 when empty.
	Version(ctx context.Context) uint64

	// Count returns the number of records in the current snapshot.
	Count(ctx context.Context) int
}
