// Package chart lays out aggregated values as chart specifications. Builders
// never transform values; they only decide which value goes to which series
// and axis position.
package chart

import "github.com/okian/unirank/internal/domain/model"

// Kind is the visual form of a chart.
type Kind string

// Supported chart kinds.
const (
	KindLine       Kind = "line"
	KindRadar      Kind = "radar"
	KindHistogram  Kind = "histogram"
	KindScatter    Kind = "scatter"
	KindGroupedBar Kind = "grouped_bar"
)

// Point is one plotted value. For categorical charts X is the category
// index and Label the category name.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// Series is a named sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Spec is a renderable chart description.
type Spec struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"kind"`
	Title      string   `json:"title"`
	XLabel     string   `json:"x_label,omitempty"`
	YLabel     string   `json:"y_label,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Series     []Series `json:"series"`
	Closed     bool     `json:"closed,omitempty"`
	NoData     bool     `json:"no_data"`
}

// Points returns the total number of points across all series.
func (s Spec) Points() int {
	n := 0
	for _, ser := range s.Series {
		n += len(ser.Points)
	}
	return n
}

// Request carries everything a builder needs besides the data.
type Request struct {
	ID     string
	Kind   Kind
	Title  string
	XLabel string
	YLabel string
	// Fields to plot, in display order.
	Fields []model.Field
	// Labels maps fields to display names; missing entries use the field key.
	Labels map[model.Field]string
	// SeriesBy names the dimension whose values become series. Empty means
	// one series per field.
	SeriesBy model.Dimension
	// Name labels the single series of radar and scatter charts.
	Name string
}

func (r Request) label(f model.Field) string {
	if l, ok := r.Labels[f]; ok && l != "" {
		return l
	}
	return string(f)
}

func (r Request) spec() Spec {
	return Spec{
		ID:     r.ID,
		Kind:   r.Kind,
		Title:  r.Title,
		XLabel: r.XLabel,
		YLabel: r.YLabel,
		Series: []Series{},
	}
}

var palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Color returns the palette colour of the i-th series.
func Color(i int) string {
	return palette[i%len(palette)]
}
