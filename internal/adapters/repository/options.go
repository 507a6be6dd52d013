package repository

import "time"

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *SnapshotStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
