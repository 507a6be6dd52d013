package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/unirank/internal/smoke"
)

// Default configuration constants.
const (
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		datasetPath  = flag.String("dataset", "", "Dataset file the service loads (overwritten)")
		generate     = flag.String("generate", "", "Only write a synthetic dataset to this path")
		universities = flag.Int("universities", smoke.DefaultUniversities, "Universities per generated year")
		workers      = flag.Int("workers", smoke.DefaultWorkers, "Concurrent page requests")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile      = flag.String("log", "", "Also write logs to this file")
		verbose      = flag.Bool("verbose", false, "Enable debug logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := smoke.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &smoke.Config{
		BaseURL:      *baseURL,
		DatasetPath:  *datasetPath,
		Universities: *universities,
		Years:        smoke.DefaultYears,
		Workers:      *workers,
		Timeout:      *timeout,
		Verbose:      *verbose,
	}
	if *generate != "" {
		ds, err := smoke.Generate(ctx, cfg, &smoke.Stats{})
		if err == nil {
			err = ds.WriteCSV(*generate)
		}
		if err != nil {
			os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		return
	}

	if _, err := smoke.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
