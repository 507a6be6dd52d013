// Package dedupe enforces (university, year) uniqueness while a dataset loads.
package dedupe

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/okian/unirank/internal/domain/model"
)

// Key identifies one ranking observation.
type Key struct {
	University string
	Year       int
}

// KeyOf returns the key of r.
func KeyOf(r model.Record) Key {
	return Key{University: r.University, Year: r.Year}
}

func (k Key) String() string {
	return k.University + "/" + strconv.Itoa(k.Year)
}

// Deduper records seen keys so that only the first occurrence is kept.
type Deduper interface {
	// SeenAndRecord atomically checks if k was seen and records it if not.
	// Returns true if k was already seen.
	SeenAndRecord(ctx context.Context, k Key) bool

	// Size is the number of distinct keys recorded.
	Size() int64

	// Duplicates is the number of SeenAndRecord calls that hit a known key.
	Duplicates() int64
}

type inMemoryDeduper struct {
	mu         sync.Mutex
	seen       map[Key]struct{}
	capacity   int
	size       atomic.Int64
	duplicates atomic.Int64
}

// NewInMemoryDeduper creates a map-backed deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[Key]struct{}, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, k Key) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[k]; exists {
		d.duplicates.Add(1)
		return true
	}
	d.seen[k] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

func (d *inMemoryDeduper) Duplicates() int64 {
	return d.duplicates.Load()
}

// Unique returns records in order with every repeated key after the first
// dropped, plus the dropped keys.
func Unique(ctx context.Context, d Deduper, records []model.Record) ([]model.Record, []Key) {
	out := make([]model.Record, 0, len(records))
	var dropped []Key
	for _, r := range records {
		k := KeyOf(r)
		if d.SeenAndRecord(ctx, k) {
			dropped = append(dropped, k)
			continue
		}
		out = append(out, r)
	}
	return out, dropped
}
