package smoke

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/unirank/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging initializes the logger, teeing to logFile when it is set.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`Dashboard smoke tool
====================

Writes a synthetic rankings file to the path the dashboard loads, asks the
service to reload it, verifies the global trend means and requests every page.

Usage:
  go run ./cmd/smoke -dataset data/timesData.csv [options]
  go run ./cmd/smoke -generate data/synthetic.csv [-universities N]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -dataset string
        Dataset file the service is configured with (required; overwritten)
  -generate string
        Only write a synthetic dataset to this path and exit
  -universities int
        Universities per generated year (default 50)
  -workers int
        Concurrent page requests (default 4)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Also write logs to this file
  -verbose
        Enable debug logging
  -help
        Show this help message
`)
}
