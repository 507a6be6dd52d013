package query

import (
	"fmt"

	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/chart"
	"github.com/okian/unirank/internal/domain/model"
)

// Plan is everything needed to produce one chart. A NoData plan carries no
// rows and no aggregation request.
type Plan struct {
	Page      Page               `json:"page"`
	Chart     chart.Request      `json:"-"`
	Filter    Filter             `json:"filter"`
	Rows      []model.Record     `json:"-"`
	Aggregate *aggregate.Request `json:"-"`
	// Bins is the histogram bin count for histogram charts.
	Bins   int  `json:"bins,omitempty"`
	NoData bool `json:"no_data"`
}

// PageResult is the set of charts built for one page and selection.
type PageResult struct {
	Page      Page         `json:"page"`
	Version   uint64       `json:"version"`
	Selection Selection    `json:"selection"`
	Charts    []chart.Spec `json:"charts"`
}

// ChartID returns the id of the chart the plan produces.
func (p Plan) ChartID() string { return p.Chart.ID }

// Execute runs the aggregation and lays out the chart. NoData plans give the
// placeholder chart without touching the builders.
func (p Plan) Execute() (chart.Spec, error) {
	if p.NoData {
		return chart.Empty(p.Chart), nil
	}
	switch p.Chart.Kind {
	case chart.KindScatter:
		return chart.Scatter(p.Chart, p.Rows)
	case chart.KindHistogram:
		hists := make([]aggregate.Histogram, 0, len(p.Chart.Fields))
		for _, f := range p.Chart.Fields {
			h, err := aggregate.HistogramOf(p.Rows, f, p.Bins)
			if err != nil {
				return chart.Spec{}, fmt.Errorf("histogram %s: %w", f, err)
			}
			hists = append(hists, h)
		}
		return chart.Histogram(p.Chart, hists)
	}

	if p.Aggregate == nil {
		return chart.Spec{}, fmt.Errorf("%w: %s", ErrIncompletePlan, p.Chart.ID)
	}
	res, err := aggregate.Aggregate(p.Rows, *p.Aggregate)
	if err != nil {
		return chart.Spec{}, fmt.Errorf("aggregate %s: %w", p.Chart.ID, err)
	}
	if res.Len() == 0 {
		return chart.Empty(p.Chart), nil
	}
	switch p.Chart.Kind {
	case chart.KindRadar:
		return chart.Radar(p.Chart, res)
	case chart.KindGroupedBar:
		return chart.GroupedBar(p.Chart, res)
	default:
		return chart.Line(p.Chart, res)
	}
}

// Find returns the plan for chart id.
func Find(plans []Plan, id string) (Plan, bool) {
	for _, p := range plans {
		if p.Chart.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
