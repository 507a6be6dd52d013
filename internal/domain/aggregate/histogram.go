package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/unirank/internal/domain/model"
)

// Bin is one equal-width histogram bucket covering [Lo, Hi).
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// Center returns the midpoint of the bin.
func (b Bin) Center() float64 { return (b.Lo + b.Hi) / 2 }

// Histogram is the binned distribution of one field.
type Histogram struct {
	Field model.Field
	Total int
	Bins  []Bin
}

// HistogramOf bins the valid values of field into equal-width buckets
// spanning their range. A field with no valid values yields no bins.
func HistogramOf(rows []model.Record, field model.Field, bins int) (Histogram, error) {
	if !field.Valid() {
		return Histogram{}, ErrUnknownField
	}
	if bins < 1 {
		return Histogram{}, ErrInvalidBins
	}
	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Value(field); ok {
			vals = append(vals, v)
		}
	}
	h := Histogram{Field: field, Total: len(vals)}
	if len(vals) == 0 {
		return h, nil
	}
	sort.Float64s(vals)

	lo, hi := vals[0], vals[len(vals)-1]
	if hi == lo {
		hi = lo + 1
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// The last divider is exclusive; nudge it so the maximum falls inside.
	dividers[bins] = math.Nextafter(dividers[bins], math.Inf(1))

	counts := stat.Histogram(nil, dividers, vals, nil)
	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	return h, nil
}
