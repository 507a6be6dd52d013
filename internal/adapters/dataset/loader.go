// Package dataset loads the rankings file into an immutable table.
package dataset

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/okian/unirank/internal/domain/dedupe"
	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/normalize"
	"github.com/okian/unirank/pkg/logger"
	"github.com/okian/unirank/pkg/metrics"
)

// RequiredColumns must be present in every dataset.
var RequiredColumns = append([]string{model.ColumnUniversity, model.ColumnCountry, model.ColumnYear}, fieldNames()...)

func fieldNames() []string {
	out := make([]string, len(model.NumericFields))
	for i, f := range model.NumericFields {
		out[i] = string(f)
	}
	return out
}

// Report summarises one load.
type Report struct {
	Source     string              `json:"source"`
	Rows       int                 `json:"rows"`
	Records    int                 `json:"records"`
	Rejected   int                 `json:"rejected"`
	Duplicates int                 `json:"duplicates"`
	Fallbacks  map[model.Field]int `json:"fallbacks"`
	Duration   time.Duration       `json:"duration"`
}

// Loader reads and normalizes the dataset file.
type Loader struct {
	path   string
	sheet  string
	logger logger.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithSheet selects the workbook sheet for XLSX files.
func WithSheet(sheet string) Option {
	return func(l *Loader) { l.sheet = strings.TrimSpace(sheet) }
}

// WithLogger sets the loader logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// NewLoader creates a loader for path.
func NewLoader(path string, opts ...Option) *Loader {
	l := &Loader{path: path, logger: logger.Discard()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the dataset path.
func (l *Loader) Path() string { return l.path }

// Load reads the file and builds a table.
func (l *Loader) Load(ctx context.Context) (*model.Table, Report, error) {
	start := time.Now()
	tbl, rep, err := l.load(ctx)
	rep.Duration = time.Since(start)
	metrics.RecordDatasetLoadDuration(float64(rep.Duration.Milliseconds()))
	if err != nil {
		metrics.RecordDatasetLoad("error")
		metrics.RecordErrorByComponent("dataset", "load")
		l.logger.Error(ctx, "dataset load failed", logger.String("path", l.path), logger.Error(err))
		return nil, rep, err
	}
	metrics.RecordDatasetLoad("ok")
	metrics.AddDatasetDuplicates(rep.Duplicates)
	metrics.AddDatasetRejectedRows(rep.Rejected)
	for f, n := range rep.Fallbacks {
		if n > 0 {
			metrics.AddNormalizationFallbacks(string(f), n)
		}
	}
	l.logger.Info(ctx, "dataset loaded",
		logger.String("path", l.path),
		logger.Int("rows", rep.Rows),
		logger.Int("records", rep.Records),
		logger.Int("rejected", rep.Rejected),
		logger.Int("duplicates", rep.Duplicates),
		logger.Duration("took", rep.Duration))
	return tbl, rep, nil
}

func (l *Loader) load(ctx context.Context) (*model.Table, Report, error) {
	rep := Report{Source: l.path}
	df, err := ReadFile(l.path, l.sheet)
	if err != nil {
		return nil, rep, err
	}
	if err := ctx.Err(); err != nil {
		return nil, rep, err
	}
	return Build(ctx, l.path, df, l.logger)
}

// Build validates, normalizes and deduplicates a raw frame.
func Build(ctx context.Context, source string, df dataframe.DataFrame, log logger.Logger) (*model.Table, Report, error) {
	rep := Report{Source: source, Rows: df.Nrow()}
	if missing := missingColumns(df.Names()); len(missing) > 0 {
		return nil, rep, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	norm, nrep, err := normalize.Frame(df)
	if err != nil {
		return nil, rep, fmt.Errorf("normalize: %w", err)
	}
	rep.Fallbacks = nrep.Fallbacks

	unis := norm.Col(model.ColumnUniversity)
	countryCol := norm.Col(model.ColumnCountry)
	countries := countryCol.Records()
	years := norm.Col(model.ColumnYear).Records()
	values := make(map[model.Field][]float64, len(model.NumericFields))
	for _, f := range model.NumericFields {
		values[f] = norm.Col(string(f)).Float()
	}

	records := make([]model.Record, 0, norm.Nrow())
	for i := 0; i < norm.Nrow(); i++ {
		uni := strings.TrimSpace(unis.Elem(i).String())
		if unis.Elem(i).IsNA() || uni == "" {
			rep.Rejected++
			log.Debug(ctx, "row rejected: blank university", logger.Int("row", i+1))
			continue
		}
		year, err := normalize.Year(years[i])
		if err != nil {
			rep.Rejected++
			log.Debug(ctx, "row rejected: bad year", logger.Int("row", i+1), logger.Error(err))
			continue
		}
		country := strings.TrimSpace(countries[i])
		if countryCol.Elem(i).IsNA() {
			country = ""
		}
		r := model.Record{University: uni, Country: country, Year: year}
		for _, f := range model.NumericFields {
			r = r.Set(f, values[f][i])
		}
		records = append(records, r)
	}

	seen := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(len(records)))
	unique, dropped := dedupe.Unique(ctx, seen, records)
	rep.Duplicates = int(seen.Duplicates())
	for _, k := range dropped {
		log.Debug(ctx, "duplicate row dropped", logger.String("key", k.String()))
	}
	if seen.Size() == 0 {
		return nil, rep, ErrEmpty
	}
	rep.Records = int(seen.Size())
	return model.NewTable(source, unique), rep, nil
}

func missingColumns(names []string) []string {
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
