package cache

// Stats contains cache counters.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the configured capacity (0 = unbounded).
	Capacity int
	// Hits is the number of cache hits since creation.
	Hits uint64
	// Misses is the number of cache misses since creation.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of entries evicted over capacity.
	Evictions uint64
}
