package model

import (
	"sort"
	"time"
)

// Table is the normalized, read-only rankings table.
// It is built once per load and never mutated afterwards; every accessor
// returns fresh slices so callers cannot alter the shared state.
type Table struct {
	records      []Record
	universities []string
	countries    []string
	years        []int
	source       string
	loadedAt     time.Time
}

// NewTable builds a Table from records. The slice is copied.
func NewTable(source string, records []Record) *Table {
	t := &Table{
		records:  append([]Record(nil), records...),
		source:   source,
		loadedAt: time.Now(),
	}

	seenUni := make(map[string]struct{})
	seenCountry := make(map[string]struct{})
	seenYear := make(map[int]struct{})
	for _, r := range t.records {
		if _, ok := seenUni[r.University]; !ok {
			seenUni[r.University] = struct{}{}
			t.universities = append(t.universities, r.University)
		}
		if _, ok := seenCountry[r.Country]; !ok && r.Country != "" {
			seenCountry[r.Country] = struct{}{}
			t.countries = append(t.countries, r.Country)
		}
		if _, ok := seenYear[r.Year]; !ok {
			seenYear[r.Year] = struct{}{}
			t.years = append(t.years, r.Year)
		}
	}
	return t
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Source returns where the table was loaded from.
func (t *Table) Source() string {
	if t == nil {
		return ""
	}
	return t.source
}

// LoadedAt returns when the table was built.
func (t *Table) LoadedAt() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.loadedAt
}

// Records returns a copy of all records in load order.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	return append([]Record(nil), t.records...)
}

// Filter returns a copy of the records accepted by keep, in load order.
func (t *Table) Filter(keep func(Record) bool) []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, 0)
	for _, r := range t.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Universities returns unique university names in load order.
func (t *Table) Universities() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.universities...)
}

// Countries returns unique countries in load order.
func (t *Table) Countries() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.countries...)
}

// Years returns unique years in load order.
func (t *Table) Years() []int {
	if t == nil {
		return nil
	}
	return append([]int(nil), t.years...)
}

// SortedYears returns unique years ascending.
func (t *Table) SortedYears() []int {
	ys := t.Years()
	sort.Ints(ys)
	return ys
}

// HasUniversity reports whether name occurs in the table.
func (t *Table) HasUniversity(name string) bool {
	if t == nil {
		return false
	}
	for _, u := range t.universities {
		if u == name {
			return true
		}
	}
	return false
}
