// Package normalize turns raw dataset columns into clean numeric columns.
//
// Each numeric field has a fixed cleaning rule and a fallback policy. Parse
// failures never surface to callers: the value becomes zero or missing (NaN)
// depending on the field. All functions are idempotent.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/unirank/internal/domain/model"
)

// Policy decides what a value becomes when it cannot be parsed.
type Policy int

const (
	// ZeroOnFailure substitutes 0.
	ZeroOnFailure Policy = iota
	// MissingOnFailure marks the value missing; aggregations skip it.
	MissingOnFailure
)

func (p Policy) String() string {
	if p == MissingOnFailure {
		return "missing"
	}
	return "zero"
}

type rule struct {
	clean  func(string) string
	policy Policy
}

var rules = map[model.Field]rule{
	model.Teaching:              {clean: strings.TrimSpace, policy: ZeroOnFailure},
	model.Research:              {clean: strings.TrimSpace, policy: ZeroOnFailure},
	model.Citations:             {clean: strings.TrimSpace, policy: ZeroOnFailure},
	model.Income:                {clean: strings.TrimSpace, policy: ZeroOnFailure},
	model.WorldRank:             {clean: strings.TrimSpace, policy: ZeroOnFailure},
	model.StudentStaffRatio:     {clean: strings.TrimSpace, policy: ZeroOnFailure},
	model.NumStudents:           {clean: stripThousands, policy: MissingOnFailure},
	model.InternationalStudents: {clean: stripPercent, policy: MissingOnFailure},
}

func stripThousands(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

func stripPercent(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

// PolicyFor returns the fallback policy of a field.
func PolicyFor(f model.Field) (Policy, error) {
	r, ok := rules[f]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return r.policy, nil
}

// Value cleans a single raw value of field f. fellBack reports whether the
// field's fallback policy was applied. Unknown fields are parsed as plain
// numbers and treated as missing on failure.
func Value(f model.Field, raw string) (v float64, fellBack bool) {
	r, ok := rules[f]
	if !ok {
		r = rule{clean: strings.TrimSpace, policy: MissingOnFailure}
	}
	parsed, err := strconv.ParseFloat(r.clean(raw), 64)
	if err != nil {
		return fallback(r.policy), true
	}
	return finite(r.policy, parsed)
}

// finite applies the policy to non-finite numbers (NaN, ±Inf).
func finite(p Policy, v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback(p), true
	}
	return v, false
}

func fallback(p Policy) float64 {
	if p == MissingOnFailure {
		return math.NaN()
	}
	return 0
}

// Format renders a normalized value back to text; missing becomes "".
// Value(f, Format(Value(f, x))) == Value(f, x) for every field.
func Format(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Year parses a year key. Integral floats such as "2011.0" are accepted.
func Year(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, raw)
	}
	return int(f), nil
}

// Column produces the clean float column for field f of the raw frame.
// The returned count is the number of values that fell back to the policy.
func Column(df dataframe.DataFrame, f model.Field) (series.Series, int, error) {
	r, ok := rules[f]
	if !ok {
		return series.Series{}, 0, fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	col := df.Col(string(f))
	if col.Err != nil {
		return series.Series{}, 0, fmt.Errorf("%w: %s", ErrMissingColumn, f)
	}

	out := make([]float64, 0, col.Len())
	fellBack := 0
	switch col.Type() {
	case series.Float, series.Int:
		// Already numeric: only the non-finite rule can apply.
		for _, v := range col.Float() {
			clean, fb := finite(r.policy, v)
			if fb {
				fellBack++
			}
			out = append(out, clean)
		}
	default:
		for _, raw := range col.Records() {
			clean, fb := Value(f, raw)
			if fb {
				fellBack++
			}
			out = append(out, clean)
		}
	}
	return series.New(out, series.Float, string(f)), fellBack, nil
}

// Report summarises a frame normalization.
type Report struct {
	Rows      int
	Fallbacks map[model.Field]int
}

// Total returns the number of values that fell back across all fields.
func (r Report) Total() int {
	n := 0
	for _, c := range r.Fallbacks {
		n += c
	}
	return n
}

// Frame returns a new frame whose numeric columns are replaced by clean
// float columns. The input frame is left untouched.
func Frame(df dataframe.DataFrame) (dataframe.DataFrame, Report, error) {
	rep := Report{Rows: df.Nrow(), Fallbacks: make(map[model.Field]int, len(model.NumericFields))}
	out := df.Copy()
	for _, f := range model.NumericFields {
		col, fellBack, err := Column(out, f)
		if err != nil {
			return dataframe.DataFrame{}, Report{}, err
		}
		out = out.Mutate(col)
		if out.Err != nil {
			return dataframe.DataFrame{}, Report{}, fmt.Errorf("normalize %s: %w", f, out.Err)
		}
		rep.Fallbacks[f] = fellBack
	}
	return out, rep, nil
}
