package query

import (
	"github.com/okian/unirank/internal/domain/model"
)

// Page identifies one dashboard view.
type Page string

// Dashboard pages.
const (
	PageGlobalTrends Page = "global-trends"
	PageCriteria     Page = "criteria"
	PageUniversity   Page = "university"
	PageComparison   Page = "comparison"
)

// Pages lists the pages in menu order.
var Pages = []Page{PageGlobalTrends, PageCriteria, PageUniversity, PageComparison}

// Valid reports whether p is a known page.
func (p Page) Valid() bool {
	for _, known := range Pages {
		if p == known {
			return true
		}
	}
	return false
}

// Pair is a scatter plot axis pair.
type Pair string

// Scatter pairs.
const (
	PairTeachingResearch  Pair = "teaching_research"
	PairResearchCitations Pair = "research_citations"
	PairCitationsIncome   Pair = "citations_income"
)

// Pairs lists the selectable scatter pairs.
var Pairs = []Pair{PairTeachingResearch, PairResearchCitations, PairCitationsIncome}

// Fields returns the x and y fields of the pair.
func (p Pair) Fields() (x, y model.Field, ok bool) {
	switch p {
	case PairTeachingResearch:
		return model.Teaching, model.Research, true
	case PairResearchCitations:
		return model.Research, model.Citations, true
	case PairCitationsIncome:
		return model.Citations, model.Income, true
	}
	return "", "", false
}

// Indicators lists the selectable trend indicators.
var Indicators = []model.Field{model.WorldRank, model.Teaching, model.Research, model.Citations, model.Income}

func validIndicator(f model.Field) bool {
	for _, i := range Indicators {
		if f == i {
			return true
		}
	}
	return false
}

// Selection is the user's current choice on a page. Zero values mean "use
// the page default".
type Selection struct {
	Indicator    model.Field `json:"indicator,omitempty"`
	Pair         Pair        `json:"pair,omitempty"`
	University   string      `json:"university,omitempty"`
	Country      string      `json:"country,omitempty"`
	Year         int         `json:"year,omitempty"`
	Universities []string    `json:"universities,omitempty"`
}

// Filter selects the records a chart is computed from.
type Filter struct {
	University   string        `json:"university,omitempty"`
	Country      string        `json:"country,omitempty"`
	Universities []string      `json:"universities,omitempty"`
	Year         int           `json:"year,omitempty"`
	Require      []model.Field `json:"require,omitempty"`
}

// Match reports whether r passes the filter. A university filter overrides
// the country filter.
func (f Filter) Match(r model.Record) bool {
	switch {
	case f.University != "":
		if r.University != f.University {
			return false
		}
	case f.Country != "":
		if r.Country != f.Country {
			return false
		}
	}
	if len(f.Universities) > 0 && !contains(f.Universities, r.University) {
		return false
	}
	if f.Year != 0 && r.Year != f.Year {
		return false
	}
	return r.Complete(f.Require...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
