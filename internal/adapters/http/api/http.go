// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/unirank/internal/adapters/dataset"
	"github.com/okian/unirank/internal/adapters/render"
	"github.com/okian/unirank/internal/adapters/repository"
	"github.com/okian/unirank/internal/domain/query"
	"github.com/okian/unirank/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// Page builds every chart of a dashboard page.
	Page(ctx context.Context, page query.Page, sel query.Selection) (query.PageResult, error)

	// ChartPNG renders one chart of a page.
	ChartPNG(ctx context.Context, page query.Page, id string, sel query.Selection, w io.Writer) error

	// Options lists the values the dashboard controls offer.
	Options(ctx context.Context) (types.Options, error)

	// Reload re-reads the dataset and publishes it.
	Reload(ctx context.Context) (dataset.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	pagesHandler   *PagesHandler
	chartsHandler  *ChartsHandler
	optionsHandler *OptionsHandler
	reloadHandler  *ReloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		pagesHandler:   NewPagesHandler(deps),
		chartsHandler:  NewChartsHandler(deps),
		optionsHandler: NewOptionsHandler(deps),
		reloadHandler:  NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/options", MetricsMiddleware(s.optionsHandler.HandleGetOptions, "options"))
	mux.HandleFunc("/api/reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
	mux.HandleFunc("/api/pages/", MetricsMiddleware(s.pagesHandler.HandleGetPage, "pages"))
	mux.HandleFunc("/api/charts/", MetricsMiddleware(s.chartsHandler.HandleGetChart, "charts"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before touching the response so an unencodable value
// becomes a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{
			Code:    "internal_error",
			Message: Wrap("api.encode", err).Error(),
		})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps upstream error kinds to a status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, query.ErrInvalidSelection):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, query.ErrUnknownPage):
		return http.StatusNotFound, "unknown_page"
	case errors.Is(err, query.ErrUnknownChart):
		return http.StatusNotFound, "unknown_chart"
	case errors.Is(err, render.ErrUnsupported):
		return http.StatusUnsupportedMediaType, "not_renderable"
	case errors.Is(err, repository.ErrNoSnapshot):
		return http.StatusServiceUnavailable, "no_dataset"
	case errors.Is(err, ErrReload):
		return http.StatusUnprocessableEntity, "reload_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func fail(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
