package chart

import (
	"fmt"
	"strconv"

	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/model"
)

// Line lays out a year-keyed aggregate. Without SeriesBy each field becomes a
// series; with SeriesBy each group value becomes a series of the first field.
func Line(req Request, res aggregate.Result) (Spec, error) {
	if len(req.Fields) == 0 {
		return Spec{}, ErrNoFields
	}
	spec := req.spec()
	if req.SeriesBy == "" {
		for _, f := range req.Fields {
			s := Series{Name: req.label(f), Color: Color(len(spec.Series)), Points: []Point{}}
			for _, row := range res.Rows {
				v, ok := row.Value(f)
				if !ok {
					continue
				}
				year, ok := row.Key(model.DimYear)
				if !ok {
					return Spec{}, fmt.Errorf("%w: %s", ErrMissingKey, model.DimYear)
				}
				s.Points = append(s.Points, Point{X: float64(year.Year), Y: v, Label: year.String()})
			}
			spec.Series = append(spec.Series, s)
		}
		return spec, nil
	}

	f := req.Fields[0]
	index := map[string]int{}
	for _, row := range res.Rows {
		v, ok := row.Value(f)
		if !ok {
			continue
		}
		group, ok := row.Key(req.SeriesBy)
		if !ok {
			return Spec{}, fmt.Errorf("%w: %s", ErrMissingKey, req.SeriesBy)
		}
		year, ok := row.Key(model.DimYear)
		if !ok {
			return Spec{}, fmt.Errorf("%w: %s", ErrMissingKey, model.DimYear)
		}
		i, seen := index[group.String()]
		if !seen {
			i = len(spec.Series)
			index[group.String()] = i
			spec.Series = append(spec.Series, Series{Name: group.String(), Color: Color(i), Points: []Point{}})
		}
		spec.Series[i].Points = append(spec.Series[i].Points, Point{X: float64(year.Year), Y: v, Label: year.String()})
	}
	return spec, nil
}

// Radar lays out a single aggregate row as a closed polygon over the fields.
func Radar(req Request, res aggregate.Result) (Spec, error) {
	if len(req.Fields) == 0 {
		return Spec{}, ErrNoFields
	}
	if res.Len() != 1 {
		return Spec{}, fmt.Errorf("%w: radar needs one row, got %d", ErrShape, res.Len())
	}
	spec := req.spec()
	spec.Closed = true
	spec.Categories = req.categories()
	s := Series{Name: req.Name, Color: Color(0), Points: []Point{}}
	for i, f := range req.Fields {
		v, ok := res.Rows[0].Value(f)
		if !ok {
			continue
		}
		s.Points = append(s.Points, Point{X: float64(i), Y: v, Label: spec.Categories[i]})
	}
	spec.Series = append(spec.Series, s)
	return spec, nil
}

// GroupedBar lays out one series per group with a bar at every field.
func GroupedBar(req Request, res aggregate.Result) (Spec, error) {
	if len(req.Fields) == 0 {
		return Spec{}, ErrNoFields
	}
	if req.SeriesBy == "" {
		return Spec{}, fmt.Errorf("%w: grouped bar needs a series dimension", ErrShape)
	}
	spec := req.spec()
	spec.Categories = req.categories()
	for _, row := range res.Rows {
		group, ok := row.Key(req.SeriesBy)
		if !ok {
			return Spec{}, fmt.Errorf("%w: %s", ErrMissingKey, req.SeriesBy)
		}
		s := Series{Name: group.String(), Color: Color(len(spec.Series)), Points: []Point{}}
		for i, f := range req.Fields {
			v, ok := row.Value(f)
			if !ok {
				continue
			}
			s.Points = append(s.Points, Point{X: float64(i), Y: v, Label: spec.Categories[i]})
		}
		spec.Series = append(spec.Series, s)
	}
	return spec, nil
}

// Scatter plots raw records: the first field on x, the second on y. Records
// missing either value are skipped.
func Scatter(req Request, rows []model.Record) (Spec, error) {
	if len(req.Fields) != 2 {
		return Spec{}, fmt.Errorf("%w: scatter needs two fields, got %d", ErrShape, len(req.Fields))
	}
	spec := req.spec()
	s := Series{Name: req.Name, Color: Color(0), Points: make([]Point, 0, len(rows))}
	for _, r := range rows {
		x, okx := r.Value(req.Fields[0])
		y, oky := r.Value(req.Fields[1])
		if !okx || !oky {
			continue
		}
		s.Points = append(s.Points, Point{X: x, Y: y, Label: r.University + " (" + strconv.Itoa(r.Year) + ")"})
	}
	spec.Series = append(spec.Series, s)
	return spec, nil
}

// Histogram lays out one series per histogram: x is the bin centre, y the
// count.
func Histogram(req Request, hists []aggregate.Histogram) (Spec, error) {
	if len(hists) == 0 {
		return Spec{}, ErrNoFields
	}
	spec := req.spec()
	for _, h := range hists {
		s := Series{Name: req.label(h.Field), Color: Color(len(spec.Series)), Points: make([]Point, 0, len(h.Bins))}
		for _, b := range h.Bins {
			s.Points = append(s.Points, Point{
				X:     b.Center(),
				Y:     float64(b.Count),
				Label: fmt.Sprintf("[%s, %s)", trim(b.Lo), trim(b.Hi)),
			})
		}
		spec.Series = append(spec.Series, s)
	}
	return spec, nil
}

// Empty returns a placeholder chart for a selection without data.
func Empty(req Request) Spec {
	spec := req.spec()
	spec.NoData = true
	return spec
}

func (r Request) categories() []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = r.label(f)
	}
	return out
}

func trim(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
