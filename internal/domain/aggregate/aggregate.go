// Package aggregate computes grouped summary statistics over normalized
// records: one output row per distinct group key, ordered by natural key
// order, with missing values excluded from every reduction.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/unirank/internal/domain/model"
)

// Reduction names a per-group reduction.
type Reduction string

// Supported reductions.
const (
	Mean Reduction = "mean"
	Sum  Reduction = "sum"
)

// Valid reports whether r is a supported reduction.
func (r Reduction) Valid() bool { return r == Mean || r == Sum }

func (r Reduction) reduce(vals []float64) (float64, error) {
	var v float64
	switch r {
	case Mean:
		v = stat.Mean(vals, nil)
		if math.IsInf(v, 0) {
			v = runningMean(vals)
		}
	case Sum:
		v = floats.Sum(vals)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownReduction, string(r))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s over %d values", ErrNonFinite, r, len(vals))
	}
	return v, nil
}

// runningMean stays finite where the plain sum of finite inputs overflows.
func runningMean(vals []float64) float64 {
	var m float64
	for i, v := range vals {
		m += v/float64(i+1) - m/float64(i+1)
	}
	return m
}

// Request describes one aggregation.
type Request struct {
	GroupBy   []model.Dimension
	Fields    []model.Field
	Reduction Reduction
}

// KeyValue is one component of a group key.
type KeyValue struct {
	Dim  model.Dimension `json:"dimension"`
	Year int             `json:"year,omitempty"`
	Text string          `json:"text,omitempty"`
}

// String renders the key value for labels.
func (k KeyValue) String() string {
	if k.Dim == model.DimYear {
		return strconv.Itoa(k.Year)
	}
	return k.Text
}

func (k KeyValue) less(o KeyValue) bool {
	if k.Dim == model.DimYear {
		return k.Year < o.Year
	}
	return k.Text < o.Text
}

func keyOf(r model.Record, d model.Dimension) KeyValue {
	switch d {
	case model.DimYear:
		return KeyValue{Dim: d, Year: r.Year}
	case model.DimUniversity:
		return KeyValue{Dim: d, Text: r.University}
	default:
		return KeyValue{Dim: d, Text: r.Country}
	}
}

// Row is one group of the derived aggregate.
type Row struct {
	Keys   []KeyValue
	Values map[model.Field]float64
	Counts map[model.Field]int
}

// Value returns the reduced value of f and whether the group had any.
func (r Row) Value(f model.Field) (float64, bool) {
	v, ok := r.Values[f]
	return v, ok
}

// Key returns the key component for dimension d.
func (r Row) Key(d model.Dimension) (KeyValue, bool) {
	for _, k := range r.Keys {
		if k.Dim == d {
			return k, true
		}
	}
	return KeyValue{}, false
}

// Result is a derived aggregate table. It is built per request and not
// shared.
type Result struct {
	Request Request
	Rows    []Row
}

// Len returns the number of groups.
func (r Result) Len() int { return len(r.Rows) }

// Aggregate groups rows by req.GroupBy and reduces each requested field.
// Groups with no contributing value are omitted. An empty GroupBy yields a
// single whole-population row.
func Aggregate(rows []model.Record, req Request) (Result, error) {
	if len(req.Fields) == 0 {
		return Result{}, ErrNoFields
	}
	for _, d := range req.GroupBy {
		if d != model.DimYear && d != model.DimUniversity && d != model.DimCountry {
			return Result{}, fmt.Errorf("%w: %q", ErrUnknownDimension, string(d))
		}
	}
	for _, f := range req.Fields {
		if !f.Valid() {
			return Result{}, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
		}
	}
	if !req.Reduction.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownReduction, string(req.Reduction))
	}

	type bucket struct {
		keys []KeyValue
		vals map[model.Field][]float64
	}
	buckets := make(map[string]*bucket)
	for _, r := range rows {
		keys := make([]KeyValue, len(req.GroupBy))
		parts := make([]string, len(req.GroupBy))
		for i, d := range req.GroupBy {
			keys[i] = keyOf(r, d)
			parts[i] = keys[i].String()
		}
		id := strings.Join(parts, "\x00")
		b, ok := buckets[id]
		if !ok {
			b = &bucket{keys: keys, vals: make(map[model.Field][]float64, len(req.Fields))}
			buckets[id] = b
		}
		for _, f := range req.Fields {
			if v, ok := r.Value(f); ok {
				b.vals[f] = append(b.vals[f], v)
			}
		}
	}

	out := Result{Request: req, Rows: make([]Row, 0, len(buckets))}
	for _, b := range buckets {
		row := Row{
			Keys:   b.keys,
			Values: make(map[model.Field]float64, len(req.Fields)),
			Counts: make(map[model.Field]int, len(req.Fields)),
		}
		for _, f := range req.Fields {
			vals := b.vals[f]
			if len(vals) == 0 {
				continue
			}
			v, err := req.Reduction.reduce(vals)
			if err != nil {
				return Result{}, err
			}
			row.Values[f] = v
			row.Counts[f] = len(vals)
		}
		if len(row.Values) == 0 {
			continue
		}
		out.Rows = append(out.Rows, row)
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i].Keys, out.Rows[j].Keys
		for k := range a {
			if a[k].less(b[k]) {
				return true
			}
			if b[k].less(a[k]) {
				return false
			}
		}
		return false
	})
	return out, nil
}
