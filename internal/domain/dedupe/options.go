package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithCapacity pre-sizes the key set. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(d *inMemoryDeduper) {
		if n > 0 {
			d.capacity = n
		}
	}
}
