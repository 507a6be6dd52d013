// Package smoke drives a running dashboard end to end: it writes a synthetic
// rankings file, has the service reload it, checks the reported means and
// sweeps every page.
package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/unirank/pkg/logger"
)

// PercentageMultiplier converts ratios to percentages.
const PercentageMultiplier = 100

// Run executes the complete smoke run.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	if cfg.DatasetPath == "" {
		return stats, fmt.Errorf("%w: dataset path is required", ErrConfig)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	logger.Get().Info(ctx, "starting dashboard smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("dataset", cfg.DatasetPath),
		logger.Int("universities", cfg.Universities),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.Get(ctx, "/healthz", nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate and write the dataset
	ds, err := Generate(ctx, cfg, stats)
	if err != nil {
		return stats, fmt.Errorf("dataset generation failed: %w", err)
	}
	if err := ds.WriteCSV(cfg.DatasetPath); err != nil {
		return stats, fmt.Errorf("dataset write failed: %w", err)
	}

	// Step 3: Publish it
	if err := client.Post(ctx, "/api/reload", nil); err != nil {
		return stats, fmt.Errorf("reload failed: %w", err)
	}

	// Step 4: Verify options and trend means
	if err := verifyOptions(ctx, client, ds); err != nil {
		return stats, fmt.Errorf("option verification failed: %w", err)
	}
	if err := verifyTrends(ctx, client, ds, stats); err != nil {
		return stats, fmt.Errorf("trend verification failed: %w", err)
	}

	// Step 5: Sweep every page
	sweepPages(ctx, cfg, client, sweepRequests(ds, cfg.Years), stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if stats.PagesFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d page requests failed", ErrStatus, stats.PagesFailed, stats.PagesRequested)
	}
	logger.Get().Info(ctx, "smoke run completed successfully", logger.String("run", ds.RunID))
	return stats, nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, pagesPerSecond float64
	if stats.PagesRequested > 0 {
		successRate = float64(stats.PagesRequested-stats.PagesFailed) / float64(stats.PagesRequested) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		pagesPerSecond = float64(stats.PagesRequested) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("rowsGenerated", stats.RowsGenerated),
		logger.Int("pagesRequested", stats.PagesRequested),
		logger.Int("pagesFailed", stats.PagesFailed),
		logger.Int("chartsReceived", stats.ChartsReceived),
		logger.Int("chartsNoData", stats.ChartsNoData),
		logger.Int("meansVerified", stats.Verified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("pagesPerSecond", pagesPerSecond))
}
