// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the rankings CSV or XLSX file.
	DatasetPath string `koanf:"dataset_path"`

	// DatasetSheet names the workbook sheet; empty means the first sheet.
	DatasetSheet string `koanf:"dataset_sheet"`

	// WatchDataset reloads the dataset when the file changes.
	WatchDataset bool `koanf:"watch_dataset"`

	// ReloadDebounceMS coalesces bursts of file events.
	ReloadDebounceMS int `koanf:"reload_debounce_ms"`

	// Locale selects chart title language: en or ru.
	Locale string `koanf:"locale"`

	// HistogramBins sets the criteria histogram bin count.
	HistogramBins int `koanf:"histogram_bins"`

	// MaxCompareUniversities caps the comparison page selection.
	MaxCompareUniversities int `koanf:"max_compare_universities"`

	// RenderWidth and RenderHeight size server-rendered PNG charts.
	RenderWidth  int `koanf:"render_width"`
	RenderHeight int `koanf:"render_height"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		DatasetPath:            "data/timesData.csv",
		ReloadDebounceMS:       500,
		Locale:                 "en",
		HistogramBins:          30,
		MaxCompareUniversities: 10,
		RenderWidth:            1024,
		RenderHeight:           512,
	}
}
