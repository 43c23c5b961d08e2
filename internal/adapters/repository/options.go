package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxSections bounds the number of sections a single match may hold.
// Non-positive values leave the store unbounded.
func WithMaxSections(n int) Option {
	return func(s *MemoryStore) {
		s.maxSections = n
	}
}

// WithSizeHook sets a callback invoked with the store totals after every
// write, used to feed gauges.
func WithSizeHook(fn func(matches, sections int)) Option {
	return func(s *MemoryStore) {
		if fn != nil {
			s.onResize = fn
		}
	}
}
