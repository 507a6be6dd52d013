// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/unirank/internal/adapters/dataset"
	"github.com/okian/unirank/internal/adapters/render"
	"github.com/okian/unirank/internal/adapters/repository"
	"github.com/okian/unirank/internal/domain/chart"
	"github.com/okian/unirank/internal/domain/i18n"
	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/query"
	"github.com/okian/unirank/internal/domain/types"
	"github.com/okian/unirank/pkg/logger"
	"github.com/okian/unirank/pkg/metrics"
)

// Loader produces a table from the configured source.
type Loader interface {
	Load(ctx context.Context) (*model.Table, dataset.Report, error)
	Path() string
}

// Service implements the API dependencies for the rankings dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    *repository.SnapshotStore
	loader   Loader
	watcher  *dataset.Watcher
	mapper   *query.Mapper
	renderer *render.Renderer

	// Configuration
	datasetPath string
	sheet       string
	watch       bool
	debounce    time.Duration
	locale      string
	bins        int
	maxCompare  int
	width       int
	height      int

	// State
	started    bool
	reloadMu   sync.Mutex
	lastReport atomic.Pointer[dataset.Report]
	lastError  atomic.Pointer[string]
	reloads    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatasetPath sets the CSV or XLSX file to load.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.datasetPath = path
		}
	}
}

// WithDatasetSheet selects the workbook sheet.
func WithDatasetSheet(sheet string) Option {
	return func(s *Service) {
		s.sheet = sheet
	}
}

// WithWatch enables reloading when the dataset file changes.
func WithWatch(enabled bool, debounce time.Duration) Option {
	return func(s *Service) {
		s.watch = enabled
		if debounce > 0 {
			s.debounce = debounce
		}
	}
}

// WithLocale sets the chart title language.
func WithLocale(locale string) Option {
	return func(s *Service) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithHistogramBins sets the bin count of the criteria histogram.
func WithHistogramBins(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.bins = n
		}
	}
}

// WithMaxCompare caps the comparison page selection.
func WithMaxCompare(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxCompare = n
		}
	}
}

// WithRenderSize sets the PNG size.
func WithRenderSize(width, height int) Option {
	return func(s *Service) {
		if width > 0 && height > 0 {
			s.width = width
			s.height = height
		}
	}
}

// WithLoader replaces the file loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetPath: "data/timesData.csv",
		debounce:    500 * time.Millisecond,
		locale:      i18n.English,
		bins:        query.DefaultBins,
		maxCompare:  query.DefaultMaxCompare,
		width:       render.DefaultWidth,
		height:      render.DefaultHeight,
		logger:      nil, // replaced when the service starts
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset and starts the optional watcher. A failed first
// load is returned to the caller.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting dashboard service...")

	s.store = repository.NewSnapshotStore(ctx)
	s.mapper = query.New(
		query.WithTranslator(i18n.New(s.locale)),
		query.WithBins(s.bins),
		query.WithMaxCompare(s.maxCompare),
	)
	s.renderer = render.New(render.WithSize(s.width, s.height))
	if s.loader == nil {
		s.loader = dataset.NewLoader(s.datasetPath,
			dataset.WithSheet(s.sheet),
			dataset.WithLogger(s.logger.Named("dataset")))
	}

	if _, err := s.reload(ctx); err != nil {
		_ = s.store.Close()
		return fmt.Errorf("initial load: %w", err)
	}

	if s.watch {
		w, err := dataset.NewWatcher(s.loader.Path(), func(ctx context.Context) {
			if _, err := s.reload(ctx); err != nil {
				s.logger.Warn(ctx, "reload after change failed; keeping previous dataset", logger.Error(err))
			}
		}, dataset.WithDebounce(s.debounce), dataset.WithWatchLogger(s.logger.Named("watcher")))
		if err != nil {
			_ = s.store.Close()
			return fmt.Errorf("watch dataset: %w", err)
		}
		w.Start(ctx)
		s.watcher = w
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("dataset", s.loader.Path()),
		logger.String("locale", s.locale),
		logger.Bool("watch", s.watch),
		logger.Int("records", s.store.Count(ctx)),
	)
	return nil
}

// Stop shuts down the watcher and the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping dashboard service...")
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// Reload reads the dataset again and publishes it. On failure the previous
// snapshot stays current.
func (s *Service) Reload(ctx context.Context) (dataset.Report, error) {
	if !s.isStarted() {
		return dataset.Report{}, ErrNotStarted
	}
	return s.reload(ctx)
}

func (s *Service) reload(ctx context.Context) (dataset.Report, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	s.reloads.Add(1)
	tbl, rep, err := s.loader.Load(ctx)
	if err != nil {
		msg := err.Error()
		s.lastError.Store(&msg)
		return rep, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	version, err := s.store.Replace(ctx, tbl)
	if err != nil {
		return rep, err
	}
	s.lastReport.Store(&rep)
	s.lastError.Store(nil)
	s.logger.Info(ctx, "dataset published", logger.Int("version", int(version)), logger.Int("records", tbl.Len()))
	return rep, nil
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func (s *Service) snapshot(ctx context.Context) (*model.Table, uint64, error) {
	if !s.isStarted() {
		return nil, 0, ErrNotStarted
	}
	return s.store.Current(ctx)
}

// Page builds every chart of page for sel against one snapshot.
func (s *Service) Page(ctx context.Context, page query.Page, sel query.Selection) (query.PageResult, error) {
	tbl, version, err := s.snapshot(ctx)
	if err != nil {
		return query.PageResult{}, err
	}
	resolved, err := s.mapper.Resolve(tbl, page, sel)
	if err != nil {
		return query.PageResult{}, err
	}
	plans, err := s.mapper.Map(tbl, page, resolved)
	if err != nil {
		return query.PageResult{}, err
	}
	out := query.PageResult{Page: page, Version: version, Selection: resolved, Charts: make([]chart.Spec, 0, len(plans))}
	for _, p := range plans {
		spec, err := s.build(ctx, p)
		if err != nil {
			return query.PageResult{}, err
		}
		out.Charts = append(out.Charts, spec)
	}
	return out, nil
}

// ChartPNG renders one chart of page as PNG.
func (s *Service) ChartPNG(ctx context.Context, page query.Page, id string, sel query.Selection, w io.Writer) error {
	tbl, _, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	plans, err := s.mapper.Map(tbl, page, sel)
	if err != nil {
		return err
	}
	p, ok := query.Find(plans, id)
	if !ok {
		return fmt.Errorf("%w: %s/%s", query.ErrUnknownChart, page, id)
	}
	spec, err := s.build(ctx, p)
	if err != nil {
		return err
	}
	return s.renderer.PNG(w, spec)
}

func (s *Service) build(ctx context.Context, p query.Plan) (chart.Spec, error) {
	start := time.Now()
	spec, err := p.Execute()
	metrics.RecordChartBuildDuration(string(p.Page), float64(time.Since(start).Microseconds())/1000)
	switch {
	case err != nil:
		metrics.RecordChartBuild(string(p.Page), p.ChartID(), "error")
		metrics.RecordErrorByComponent("chart", "build")
		s.logger.Error(ctx, "chart build failed",
			logger.String("page", string(p.Page)), logger.String("chart", p.ChartID()), logger.Error(err))
		return chart.Spec{}, fmt.Errorf("build %s/%s: %w", p.Page, p.ChartID(), err)
	case spec.NoData:
		metrics.RecordChartBuild(string(p.Page), p.ChartID(), "no_data")
	default:
		metrics.RecordChartBuild(string(p.Page), p.ChartID(), "ok")
	}
	return spec, nil
}

// Options lists the selectable values for the current snapshot.
func (s *Service) Options(ctx context.Context) (types.Options, error) {
	tbl, _, err := s.snapshot(ctx)
	if err != nil {
		return types.Options{}, err
	}
	return s.mapper.Options(tbl), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
		"dataset": s.datasetPath,
		"locale":  s.locale,
		"watch":   s.watch,
		"reloads": s.reloads.Load(),
	}
	if s.loader != nil {
		stats["dataset"] = s.loader.Path()
	}
	if s.started {
		if tbl, version, err := s.store.Current(ctx); err == nil {
			stats["records"] = tbl.Len()
			stats["version"] = version
			stats["source"] = tbl.Source()
			stats["loadedAt"] = tbl.LoadedAt().UTC().Format(time.RFC3339)
		}
		stats["publishedAt"] = s.store.PublishedAt().UTC().Format(time.RFC3339)
	}
	if rep := s.lastReport.Load(); rep != nil {
		stats["lastLoad"] = *rep
	}
	if msg := s.lastError.Load(); msg != nil {
		stats["lastError"] = *msg
	}
	return stats
}
