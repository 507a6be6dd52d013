// Package model contains domain models passed between layers.
package model

import "math"

// Field names a numeric column of the rankings table.
type Field string

// Numeric fields of a ranking record. Values match the dataset column names.
const (
	WorldRank             Field = "world_rank"
	Teaching              Field = "teaching"
	Research              Field = "research"
	Citations             Field = "citations"
	Income                Field = "income"
	NumStudents           Field = "num_students"
	InternationalStudents Field = "international_students"
	StudentStaffRatio     Field = "student_staff_ratio"
)

// Key columns of the rankings table.
const (
	ColumnUniversity = "university_name"
	ColumnCountry    = "country"
	ColumnYear       = "year"
)

// NumericFields lists every numeric field in dataset column order.
var NumericFields = []Field{
	WorldRank, Teaching, Research, Citations, Income,
	NumStudents, InternationalStudents, StudentStaffRatio,
}

// Criteria are the four scored criteria shown together on most charts.
var Criteria = []Field{Teaching, Research, Citations, Income}

// StudentMetrics are the student body fields used by the comparison page.
var StudentMetrics = []Field{NumStudents, StudentStaffRatio, InternationalStudents}

// Valid reports whether f is a known numeric field.
func (f Field) Valid() bool {
	for _, k := range NumericFields {
		if k == f {
			return true
		}
	}
	return false
}

// Dimension is a grouping key of the rankings table.
type Dimension string

// Grouping dimensions.
const (
	DimYear       Dimension = ColumnYear
	DimUniversity Dimension = ColumnUniversity
	DimCountry    Dimension = ColumnCountry
)

// Record is one (university, year) observation after normalization.
// A missing numeric value is stored as NaN; use Value to read it.
type Record struct {
	University string
	Country    string
	Year       int

	WorldRank             float64
	Teaching              float64
	Research              float64
	Citations             float64
	Income                float64
	NumStudents           float64
	InternationalStudents float64
	StudentStaffRatio     float64
}

// Value returns the field value and whether it is present.
func (r Record) Value(f Field) (float64, bool) {
	var v float64
	switch f {
	case WorldRank:
		v = r.WorldRank
	case Teaching:
		v = r.Teaching
	case Research:
		v = r.Research
	case Citations:
		v = r.Citations
	case Income:
		v = r.Income
	case NumStudents:
		v = r.NumStudents
	case InternationalStudents:
		v = r.InternationalStudents
	case StudentStaffRatio:
		v = r.StudentStaffRatio
	default:
		return 0, false
	}
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Set returns a copy of r with field f set to v.
func (r Record) Set(f Field, v float64) Record {
	switch f {
	case WorldRank:
		r.WorldRank = v
	case Teaching:
		r.Teaching = v
	case Research:
		r.Research = v
	case Citations:
		r.Citations = v
	case Income:
		r.Income = v
	case NumStudents:
		r.NumStudents = v
	case InternationalStudents:
		r.InternationalStudents = v
	case StudentStaffRatio:
		r.StudentStaffRatio = v
	}
	return r
}

// Complete reports whether every field in fields has a value.
func (r Record) Complete(fields ...Field) bool {
	for _, f := range fields {
		if _, ok := r.Value(f); !ok {
			return false
		}
	}
	return true
}
