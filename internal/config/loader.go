package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if UNIRANK_CONFIG is set
//  3. env (prefix UNIRANK_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("UNIRANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// UNIRANK_DATASET_PATH -> dataset_path; underscores are kept to match
	// the flat koanf tags.
	envProvider := env.Provider("UNIRANK_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "unirank_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make the service unusable.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DatasetPath == "":
		return fmt.Errorf("%w: dataset_path must not be empty", ErrInvalidConfig)
	case c.Locale != "en" && c.Locale != "ru":
		return fmt.Errorf("%w: locale %q is not supported", ErrInvalidConfig, c.Locale)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format %q is not supported", ErrInvalidConfig, c.LogFormat)
	case c.HistogramBins <= 0:
		return fmt.Errorf("%w: histogram_bins must be positive", ErrInvalidConfig)
	case c.MaxCompareUniversities <= 0:
		return fmt.Errorf("%w: max_compare_universities must be positive", ErrInvalidConfig)
	case c.ReloadDebounceMS < 0:
		return fmt.Errorf("%w: reload_debounce_ms must not be negative", ErrInvalidConfig)
	case c.RenderWidth <= 0 || c.RenderHeight <= 0:
		return fmt.Errorf("%w: render size must be positive", ErrInvalidConfig)
	}
	return nil
}
