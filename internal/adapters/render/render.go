// Package render draws chart specifications as PNG images.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/unirank/internal/domain/chart"
	"github.com/okian/unirank/pkg/metrics"
)

// ErrUnsupported is returned for specs that have no PNG form.
var ErrUnsupported = errors.New("chart cannot be rendered as png")

// Default image size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 512
)

// Renderer draws specs with go-chart.
type Renderer struct {
	width  int
	height int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the image size. Non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Supported reports whether spec can be drawn.
func Supported(spec chart.Spec) bool {
	if spec.NoData || spec.Points() == 0 {
		return false
	}
	switch spec.Kind {
	case chart.KindLine, chart.KindScatter, chart.KindHistogram, chart.KindGroupedBar:
		return true
	}
	return false
}

// PNG writes spec to w.
func (r *Renderer) PNG(w io.Writer, spec chart.Spec) error {
	if !Supported(spec) {
		metrics.RecordChartRender(string(spec.Kind), "unsupported")
		return fmt.Errorf("%w: %s (%s)", ErrUnsupported, spec.ID, spec.Kind)
	}
	var err error
	if spec.Kind == chart.KindGroupedBar {
		err = r.bars(w, spec)
	} else {
		err = r.continuous(w, spec)
	}
	if err != nil {
		metrics.RecordChartRender(string(spec.Kind), "error")
		return fmt.Errorf("render %s: %w", spec.ID, err)
	}
	metrics.RecordChartRender(string(spec.Kind), "ok")
	return nil
}

func (r *Renderer) continuous(w io.Writer, spec chart.Spec) error {
	series := make([]gochart.Series, 0, len(spec.Series))
	lo, hi := math.Inf(1), math.Inf(-1)
	ylo, yhi := math.Inf(1), math.Inf(-1)
	for _, s := range spec.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, 0, len(s.Points)+1)
		ys := make([]float64, 0, len(s.Points)+1)
		for _, p := range s.Points {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			lo, hi = math.Min(lo, p.X), math.Max(hi, p.X)
			ylo, yhi = math.Min(ylo, p.Y), math.Max(yhi, p.Y)
		}
		// A single point has no x range; extend it one unit to the right.
		if len(xs) == 1 {
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
			hi = math.Max(hi, xs[1])
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   styleFor(spec.Kind, s.Color),
		})
	}
	if hi <= lo {
		hi = lo + 1
	}
	yAxis := gochart.YAxis{Name: spec.YLabel}
	// go-chart refuses a zero y delta.
	if yhi <= ylo {
		yAxis.Range = &gochart.ContinuousRange{Min: ylo - 1, Max: yhi + 1}
	}

	ch := gochart.Chart{
		Title:      spec.Title,
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:           spec.XLabel,
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: formatter(spec.Kind),
		},
		YAxis:  yAxis,
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch.Render(gochart.PNG, w)
}

// bars flattens grouped bars into one bar per (series, category).
func (r *Renderer) bars(w io.Writer, spec chart.Spec) error {
	var bars []gochart.Value
	lo, hi := 0.0, 0.0
	for _, s := range spec.Series {
		for _, p := range s.Points {
			bars = append(bars, gochart.Value{
				Value: p.Y,
				Label: s.Name + ": " + p.Label,
				Style: gochart.Style{FillColor: color(s.Color), StrokeColor: color(s.Color)},
			})
			lo, hi = math.Min(lo, p.Y), math.Max(hi, p.Y)
		}
	}
	if hi <= lo {
		hi = lo + 1
	}
	width := r.width / (len(bars) + 1)
	if width > 60 {
		width = 60
	}
	bc := gochart.BarChart{
		Title:      spec.Title,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   width,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis: gochart.YAxis{
			Name:  spec.YLabel,
			Range: &gochart.ContinuousRange{Min: lo, Max: hi * 1.1},
		},
		Bars: bars,
	}
	return bc.Render(gochart.PNG, w)
}

func styleFor(kind chart.Kind, hex string) gochart.Style {
	c := color(hex)
	if kind == chart.KindScatter {
		return gochart.Style{
			StrokeColor: drawing.ColorTransparent,
			DotWidth:    3,
			DotColor:    c,
		}
	}
	return gochart.Style{StrokeColor: c, StrokeWidth: 2}
}

func formatter(kind chart.Kind) gochart.ValueFormatter {
	if kind == chart.KindLine {
		return func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.0f", f)
			}
			return ""
		}
	}
	return gochart.FloatValueFormatter
}

func color(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return gochart.ColorBlue
	}
	return drawing.ColorFromHex(hex)
}
