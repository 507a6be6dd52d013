package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/query"
)

// PageDependencies defines the interface for building page charts.
type PageDependencies interface {
	Page(ctx context.Context, page query.Page, sel query.Selection) (query.PageResult, error)
}

// PagesHandler handles page requests.
type PagesHandler struct {
	deps PageDependencies
}

// NewPagesHandler creates a new pages handler.
func NewPagesHandler(deps PageDependencies) *PagesHandler {
	return &PagesHandler{deps: deps}
}

// HandleGetPage handles GET /api/pages/{page} requests.
func (h *PagesHandler) HandleGetPage(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_page"
	if r.Method != http.MethodGet {
		fail(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	page := strings.TrimPrefix(r.URL.Path, "/api/pages/")
	if page == "" || strings.Contains(page, "/") {
		fail(w, NewKind(op, ErrBadRequest))
		return
	}
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		fail(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Page(r.Context(), query.Page(page), sel)
	if err != nil {
		fail(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ChartDependencies defines the interface for chart rendering.
type ChartDependencies interface {
	ChartPNG(ctx context.Context, page query.Page, id string, sel query.Selection, w io.Writer) error
}

// ChartsHandler handles rendered chart requests.
type ChartsHandler struct {
	deps ChartDependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps ChartDependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandleGetChart handles GET /api/charts/{page}/{chart}.png requests.
func (h *ChartsHandler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_chart"
	if r.Method != http.MethodGet {
		fail(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/charts/"), "/")
	if len(parts) != 2 || parts[0] == "" || !strings.HasSuffix(parts[1], ".png") {
		fail(w, NewKind(op, ErrBadRequest))
		return
	}
	id := strings.TrimSuffix(parts[1], ".png")
	if id == "" {
		fail(w, NewKind(op, ErrBadRequest))
		return
	}
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		fail(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	// Render to memory first so failures still produce a JSON error.
	var buf bytes.Buffer
	if err := h.deps.ChartPNG(r.Context(), query.Page(parts[0]), id, sel, &buf); err != nil {
		fail(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// parseSelection reads the page controls from the query string. Repeated
// university parameters select several universities; the first one is also
// the single-university choice.
func parseSelection(v url.Values) (query.Selection, error) {
	sel := query.Selection{
		Indicator: model.Field(strings.TrimSpace(v.Get("indicator"))),
		Pair:      query.Pair(strings.TrimSpace(v.Get("pair"))),
		Country:   strings.TrimSpace(v.Get("country")),
	}
	for _, u := range v["university"] {
		if u = strings.TrimSpace(u); u != "" {
			sel.Universities = append(sel.Universities, u)
		}
	}
	if len(sel.Universities) > 0 {
		sel.University = sel.Universities[0]
	}
	if raw := strings.TrimSpace(v.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return query.Selection{}, Wrap("year", err)
		}
		sel.Year = year
	}
	return sel, nil
}
