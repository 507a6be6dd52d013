package smoke

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"github.com/okian/unirank/internal/domain/chart"
	"github.com/okian/unirank/internal/domain/query"
	"github.com/okian/unirank/internal/domain/types"
	"github.com/okian/unirank/pkg/logger"
)

// universities returns the generated university names in file order.
func (d *Dataset) universities() []string {
	seen := map[string]bool{}
	var out []string
	for _, row := range d.Records[1:] {
		if name := row[1]; !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// verifyTrends checks the global trend means against the generated data.
func verifyTrends(ctx context.Context, client *HTTPClient, ds *Dataset, stats *Stats) error {
	byIndicator := map[string][]Expectation{}
	for _, e := range ds.Expected {
		byIndicator[e.Indicator] = append(byIndicator[e.Indicator], e)
	}
	for indicator, want := range byIndicator {
		req := pageRequest{page: query.PageGlobalTrends, query: url.Values{"indicator": {indicator}}}
		var res query.PageResult
		if err := client.Get(ctx, req.path(), &res); err != nil {
			return err
		}
		trend, ok := chartByID(res, "trend")
		if !ok || len(trend.Series) != 1 {
			return fmt.Errorf("%w: %s trend has no single series", ErrMismatch, indicator)
		}
		got := map[int]float64{}
		for _, p := range trend.Series[0].Points {
			got[int(p.X)] = p.Y
		}
		for _, e := range want {
			v, ok := got[e.Year]
			if !ok {
				return fmt.Errorf("%w: %s has no %d point", ErrMismatch, indicator, e.Year)
			}
			if math.Abs(v-e.Mean) > tolerance {
				return fmt.Errorf("%w: %s %d mean %.6f, want %.6f", ErrMismatch, indicator, e.Year, v, e.Mean)
			}
			stats.Verified++
		}
	}
	logger.Get().Info(ctx, "trend means verified", logger.Int("points", stats.Verified))
	return nil
}

// verifyOptions checks that every generated university is selectable.
func verifyOptions(ctx context.Context, client *HTTPClient, ds *Dataset) error {
	var opts types.Options
	if err := client.Get(ctx, "/api/options", &opts); err != nil {
		return err
	}
	for i, label := range types.Labels(opts.Indicators) {
		if label == "" {
			return fmt.Errorf("%w: indicator %q has no label", ErrMismatch, opts.Indicators[i].Value)
		}
	}
	if err := offers("page", types.Values(opts.Pages), query.Pages); err != nil {
		return err
	}
	if err := offers("indicator", types.Values(opts.Indicators), query.Indicators); err != nil {
		return err
	}
	if err := offers("pair", types.Values(opts.Pairs), query.Pairs); err != nil {
		return err
	}
	return offers("university", opts.Universities, ds.universities())
}

// offers checks that every wanted value is among the offered ones.
func offers[T ~string](kind string, offered []string, wanted []T) error {
	set := make(map[string]bool, len(offered))
	for _, v := range offered {
		set[v] = true
	}
	for _, w := range wanted {
		if !set[string(w)] {
			return fmt.Errorf("%w: %s %q missing from options", ErrMismatch, kind, string(w))
		}
	}
	return nil
}

func chartByID(res query.PageResult, id string) (chart.Spec, bool) {
	for _, c := range res.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return chart.Spec{}, false
}
