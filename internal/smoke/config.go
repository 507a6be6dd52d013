package smoke

import "time"

// Config holds configuration for the dashboard smoke run.
type Config struct {
	BaseURL      string        // Base URL of the service
	DatasetPath  string        // File the service loads; overwritten by the run
	Universities int           // Universities per generated year
	Years        []int         // Years to generate
	Workers      int           // Concurrent page requests
	Timeout      time.Duration // HTTP request timeout
	Verbose      bool          // Log every page response
}

// Stats holds run statistics.
type Stats struct {
	RowsGenerated  int
	PagesRequested int
	PagesFailed    int
	ChartsReceived int
	ChartsNoData   int
	Verified       int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// Expectation is a value the dashboard must report for a generated dataset.
type Expectation struct {
	Indicator string
	Year      int
	Mean      float64
}
