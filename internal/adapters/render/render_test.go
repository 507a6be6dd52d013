package render_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/okian/unirank/internal/adapters/render"
	"github.com/okian/unirank/internal/domain/chart"
	. "github.com/smartystreets/goconvey/convey"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func line(points ...chart.Point) chart.Spec {
	return chart.Spec{
		ID: "trend", Kind: chart.KindLine, Title: "Average world rank", XLabel: "Year", YLabel: "Rank",
		Series: []chart.Series{{Name: "World rank", Color: chart.Color(0), Points: points}},
	}
}

func TestRenderer(t *testing.T) {
	r := render.New(render.WithSize(400, 300))

	Convey("Given a line spec", t, func() {
		spec := line(chart.Point{X: 2011, Y: 90}, chart.Point{X: 2012, Y: 80})

		Convey("When it is rendered", func() {
			var buf bytes.Buffer
			err := r.PNG(&buf, spec)

			Convey("Then a PNG image is written", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), pngSignature), ShouldBeTrue)
			})
		})

		Convey("When it has a single point", func() {
			var buf bytes.Buffer
			err := r.PNG(&buf, line(chart.Point{X: 2011, Y: 90}))

			Convey("Then it still renders", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), pngSignature), ShouldBeTrue)
			})
		})
	})

	Convey("Given scatter, histogram and grouped bar specs", t, func() {
		scatter := chart.Spec{ID: "scatter", Kind: chart.KindScatter, Series: []chart.Series{{
			Name: "pairs", Color: "#10B981", Points: []chart.Point{{X: 1, Y: 2}, {X: 3, Y: 5}, {X: 4, Y: 1}},
		}}}
		hist := chart.Spec{ID: "histogram", Kind: chart.KindHistogram, Series: []chart.Series{{
			Name: "Teaching", Points: []chart.Point{{X: 15, Y: 1}, {X: 25, Y: 3}},
		}}}
		bars := chart.Spec{ID: "criteria", Kind: chart.KindGroupedBar, Categories: []string{"Teaching", "Research"},
			Series: []chart.Series{
				{Name: "A", Color: chart.Color(0), Points: []chart.Point{{X: 0, Y: 70, Label: "Teaching"}, {X: 1, Y: 60, Label: "Research"}}},
				{Name: "B", Color: chart.Color(1), Points: []chart.Point{{X: 0, Y: 60, Label: "Teaching"}, {X: 1, Y: 50, Label: "Research"}}},
			}}

		Convey("Then each renders to PNG", func() {
			for _, spec := range []chart.Spec{scatter, hist, bars} {
				var buf bytes.Buffer
				So(r.PNG(&buf, spec), ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), pngSignature), ShouldBeTrue)
			}
		})
	})

	Convey("Given specs without a PNG form", t, func() {
		radar := chart.Spec{ID: "radar", Kind: chart.KindRadar, Series: []chart.Series{{Points: []chart.Point{{X: 0, Y: 1}}}}}
		empty := chart.Empty(chart.Request{ID: "trend", Kind: chart.KindLine})

		Convey("Then rendering is refused", func() {
			So(render.Supported(radar), ShouldBeFalse)
			So(render.Supported(empty), ShouldBeFalse)
			So(errors.Is(r.PNG(&bytes.Buffer{}, radar), render.ErrUnsupported), ShouldBeTrue)
			So(errors.Is(r.PNG(&bytes.Buffer{}, empty), render.ErrUnsupported), ShouldBeTrue)
		})
	})
}
