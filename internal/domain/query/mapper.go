// Package query maps a dashboard selection to the filter, aggregation and
// chart requests of every chart on a page.
package query

import (
	"fmt"
	"strconv"

	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/chart"
	"github.com/okian/unirank/internal/domain/i18n"
	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/types"
)

// Defaults for mapper options.
const (
	DefaultBins       = 30
	DefaultMaxCompare = 10
	DefaultPair       = PairResearchCitations
)

// Mapper turns selections into plans. It holds no data and is safe for
// concurrent use.
type Mapper struct {
	tr         *i18n.Translator
	bins       int
	maxCompare int
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithTranslator sets the translator used for titles and labels.
func WithTranslator(tr *i18n.Translator) Option {
	return func(m *Mapper) {
		if tr != nil {
			m.tr = tr
		}
	}
}

// WithBins sets the histogram bin count.
func WithBins(n int) Option {
	return func(m *Mapper) {
		if n > 0 {
			m.bins = n
		}
	}
}

// WithMaxCompare caps the number of universities on the comparison page.
func WithMaxCompare(n int) Option {
	return func(m *Mapper) {
		if n > 0 {
			m.maxCompare = n
		}
	}
}

// New creates a Mapper.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		tr:         i18n.New(i18n.English),
		bins:       DefaultBins,
		maxCompare: DefaultMaxCompare,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve validates sel against the closed option sets and fills page
// defaults from tbl.
func (m *Mapper) Resolve(tbl *model.Table, page Page, sel Selection) (Selection, error) {
	if !page.Valid() {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownPage, string(page))
	}
	if sel.Indicator != "" && !validIndicator(sel.Indicator) {
		return Selection{}, fmt.Errorf("%w: indicator %q", ErrInvalidSelection, string(sel.Indicator))
	}
	if sel.Pair != "" {
		if _, _, ok := sel.Pair.Fields(); !ok {
			return Selection{}, fmt.Errorf("%w: pair %q", ErrInvalidSelection, string(sel.Pair))
		}
	}
	if sel.Year < 0 {
		return Selection{}, fmt.Errorf("%w: year %d", ErrInvalidSelection, sel.Year)
	}
	sel.Universities = unique(sel.Universities)
	if len(sel.Universities) > m.maxCompare {
		return Selection{}, fmt.Errorf("%w: %d universities selected, at most %d allowed",
			ErrInvalidSelection, len(sel.Universities), m.maxCompare)
	}

	if sel.Indicator == "" {
		sel.Indicator = model.WorldRank
	}
	if sel.Pair == "" {
		sel.Pair = DefaultPair
	}
	switch page {
	case PageUniversity:
		if sel.University == "" {
			sel.University = first(tbl.Universities())
		}
	case PageComparison:
		if len(sel.Universities) == 0 {
			if u := first(tbl.Universities()); u != "" {
				sel.Universities = []string{u}
			}
		}
		if sel.Year == 0 {
			if years := tbl.Years(); len(years) > 0 {
				sel.Year = years[0]
			}
		}
	}
	return sel, nil
}

// Map returns one plan per chart of page.
func (m *Mapper) Map(tbl *model.Table, page Page, sel Selection) ([]Plan, error) {
	sel, err := m.Resolve(tbl, page, sel)
	if err != nil {
		return nil, err
	}
	switch page {
	case PageGlobalTrends:
		return m.globalTrends(tbl, sel), nil
	case PageCriteria:
		return m.criteria(tbl, sel), nil
	case PageUniversity:
		return m.university(tbl, sel), nil
	default:
		return m.comparison(tbl, sel), nil
	}
}

// Options lists the selectable values for the dashboard controls.
func (m *Mapper) Options(tbl *model.Table) types.Options {
	opts := types.Options{
		Locale:       m.tr.Locale(),
		Universities: tbl.Universities(),
		Countries:    tbl.Countries(),
		Years:        tbl.SortedYears(),
		MaxCompare:   m.maxCompare,
	}
	if opts.Universities == nil {
		opts.Universities = []string{}
	}
	if opts.Countries == nil {
		opts.Countries = []string{}
	}
	if opts.Years == nil {
		opts.Years = []int{}
	}
	for _, p := range Pages {
		opts.Pages = append(opts.Pages, types.Option{Value: string(p), Label: m.pageTitle(p)})
	}
	for _, f := range Indicators {
		opts.Indicators = append(opts.Indicators, types.Option{Value: string(f), Label: m.tr.Field(f)})
	}
	for _, p := range Pairs {
		x, y, _ := p.Fields()
		opts.Pairs = append(opts.Pairs, types.Option{Value: string(p), Label: m.tr.Field(x) + " / " + m.tr.Field(y)})
	}
	return opts
}

func (m *Mapper) pageTitle(p Page) string {
	switch p {
	case PageGlobalTrends:
		return m.tr.T(i18n.MsgPageGlobalTrends)
	case PageCriteria:
		return m.tr.T(i18n.MsgPageCriteria)
	case PageUniversity:
		return m.tr.T(i18n.MsgPageUniversity)
	default:
		return m.tr.T(i18n.MsgPageComparison)
	}
}

func (m *Mapper) globalTrends(tbl *model.Table, sel Selection) []Plan {
	title := m.tr.T(i18n.MsgAvgIndicator, m.tr.Field(sel.Indicator))
	if sel.Indicator == model.WorldRank {
		title = m.tr.T(i18n.MsgAvgWorldRank)
	}
	all := Filter{}
	return []Plan{
		m.plan(tbl, PageGlobalTrends, all, m.line("trend", title, m.tr.Field(sel.Indicator), sel.Indicator),
			byYear(sel.Indicator)),
		m.plan(tbl, PageGlobalTrends, all, m.line("criteria", m.tr.T(i18n.MsgAvgCriteria), m.tr.T(i18n.MsgScore), model.Criteria...),
			byYear(model.Criteria...)),
	}
}

func (m *Mapper) criteria(tbl *model.Table, sel Selection) []Plan {
	radar := m.request("radar", chart.KindRadar, m.tr.T(i18n.MsgRadarPlaceholder), "", m.tr.T(i18n.MsgScore), model.Criteria...)
	var f Filter
	switch {
	case sel.University != "":
		f.University = sel.University
		radar.Title = m.tr.T(i18n.MsgRadarUniversity, sel.University)
		radar.Name = sel.University
	case sel.Country != "":
		f.Country = sel.Country
		radar.Title = m.tr.T(i18n.MsgRadarCountry, sel.Country)
		radar.Name = sel.Country
	}
	radarPlan := m.plan(tbl, PageCriteria, f, radar, &aggregate.Request{Fields: model.Criteria, Reduction: aggregate.Mean})

	hist := m.request("histogram", chart.KindHistogram, m.tr.T(i18n.MsgHistogram), m.tr.T(i18n.MsgScore), m.tr.T(i18n.MsgCount), model.Criteria...)
	histPlan := m.plan(tbl, PageCriteria, Filter{}, hist, nil)
	histPlan.Bins = m.bins

	x, y, _ := sel.Pair.Fields()
	scatter := m.request("scatter", chart.KindScatter, m.tr.T(i18n.MsgScatter, m.tr.Field(x), m.tr.Field(y)),
		m.tr.Field(x), m.tr.Field(y), x, y)
	scatter.Name = m.tr.Field(x) + " / " + m.tr.Field(y)
	scatterPlan := m.plan(tbl, PageCriteria, Filter{}, scatter, nil)

	return []Plan{radarPlan, histPlan, scatterPlan}
}

func (m *Mapper) university(tbl *model.Table, sel Selection) []Plan {
	f := Filter{University: sel.University}
	label := m.tr.Field(sel.Indicator)
	return []Plan{
		m.plan(tbl, PageUniversity, f, m.line("trend", m.tr.T(i18n.MsgUniversityTrend, label, sel.University), label, sel.Indicator),
			byYear(sel.Indicator)),
		m.plan(tbl, PageUniversity, f, m.line("scores", m.tr.T(i18n.MsgUniversityScores, sel.University), m.tr.T(i18n.MsgScore), model.Criteria...),
			byYear(model.Criteria...)),
	}
}

func (m *Mapper) comparison(tbl *model.Table, sel Selection) []Plan {
	year := strconv.Itoa(sel.Year)
	perUniversity := []model.Dimension{model.DimUniversity}

	criteria := m.request("criteria", chart.KindGroupedBar, m.tr.T(i18n.MsgCompareCriteria, year),
		m.tr.T(i18n.MsgCriterion), m.tr.T(i18n.MsgScore), model.Criteria...)
	criteria.SeriesBy = model.DimUniversity
	ranking := m.line("ranking", m.tr.T(i18n.MsgCompareRanking), m.tr.Field(model.WorldRank), model.WorldRank)
	ranking.SeriesBy = model.DimUniversity
	students := m.request("students", chart.KindGroupedBar, m.tr.T(i18n.MsgCompareStudents, year),
		"", "", model.StudentMetrics...)
	students.SeriesBy = model.DimUniversity

	yearly := Filter{Universities: sel.Universities, Year: sel.Year, Require: model.StudentMetrics}
	if len(sel.Universities) == 0 || len(tbl.Filter(yearly.Match)) == 0 {
		return []Plan{
			noData(PageComparison, yearly, criteria),
			noData(PageComparison, Filter{Universities: sel.Universities}, ranking),
			noData(PageComparison, yearly, students),
		}
	}
	return []Plan{
		m.plan(tbl, PageComparison, yearly, criteria,
			&aggregate.Request{GroupBy: perUniversity, Fields: model.Criteria, Reduction: aggregate.Mean}),
		m.plan(tbl, PageComparison, Filter{Universities: sel.Universities}, ranking,
			&aggregate.Request{GroupBy: []model.Dimension{model.DimUniversity, model.DimYear}, Fields: []model.Field{model.WorldRank}, Reduction: aggregate.Mean}),
		m.plan(tbl, PageComparison, yearly, students,
			&aggregate.Request{GroupBy: perUniversity, Fields: model.StudentMetrics, Reduction: aggregate.Mean}),
	}
}

func (m *Mapper) plan(tbl *model.Table, page Page, f Filter, req chart.Request, agg *aggregate.Request) Plan {
	rows := tbl.Filter(f.Match)
	if len(rows) == 0 {
		return noData(page, f, req)
	}
	return Plan{Page: page, Chart: req, Filter: f, Rows: rows, Aggregate: agg}
}

func noData(page Page, f Filter, req chart.Request) Plan {
	return Plan{Page: page, Chart: req, Filter: f, NoData: true}
}

func (m *Mapper) request(id string, kind chart.Kind, title, xLabel, yLabel string, fields ...model.Field) chart.Request {
	labels := make(map[model.Field]string, len(fields))
	for _, f := range fields {
		labels[f] = m.tr.Field(f)
	}
	return chart.Request{
		ID:     id,
		Kind:   kind,
		Title:  title,
		XLabel: xLabel,
		YLabel: yLabel,
		Fields: fields,
		Labels: labels,
	}
}

func (m *Mapper) line(id, title, yLabel string, fields ...model.Field) chart.Request {
	return m.request(id, chart.KindLine, title, m.tr.T(i18n.MsgYear), yLabel, fields...)
}

func byYear(fields ...model.Field) *aggregate.Request {
	return &aggregate.Request{GroupBy: []model.Dimension{model.DimYear}, Fields: fields, Reduction: aggregate.Mean}
}

func unique(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != "" && !contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
