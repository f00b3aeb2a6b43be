package animimg

import "net/http"

// Option configures a Loader during creation.
//
// Example:
//
//	loader := animimg.NewLoader(
//	    animimg.WithFallbackURL("https://cdn.example.com/placeholder.png"),
//	    animimg.WithCacheCapacity(512),
//	)
type Option func(*loaderOptions)

// loaderOptions holds optional configuration for Loader creation.
type loaderOptions struct {
	source        ByteSource
	fallbackURL   string
	cacheCapacity int
}

// defaultLoaderOptions returns the default loader options.
func defaultLoaderOptions() loaderOptions {
	return loaderOptions{
		source:        &HTTPSource{},
		cacheCapacity: 0, // unbounded, cleared only when the process restarts
	}
}

// WithByteSource sets a custom byte source. Use this to route fetches
// through a proxy, a test double, or local storage.
func WithByteSource(s ByteSource) Option {
	return func(o *loaderOptions) {
		if s != nil {
			o.source = s
		}
	}
}

// WithHTTPClient keeps the default HTTP byte source but fetches through the
// given client (custom timeouts, transport, proxy settings).
func WithHTTPClient(c *http.Client) Option {
	return func(o *loaderOptions) {
		o.source = &HTTPSource{Client: c}
	}
}

// WithFallbackURL sets the placeholder image substituted for failed loads.
// The placeholder is loaded through the same cached path as any other URL.
func WithFallbackURL(url string) Option {
	return func(o *loaderOptions) {
		o.fallbackURL = url
	}
}

// WithCacheCapacity bounds the loader cache to at most n decoded images,
// evicting least-recently-used entries beyond that. 0 (the default) means
// unbounded.
func WithCacheCapacity(n int) Option {
	return func(o *loaderOptions) {
		o.cacheCapacity = n
	}
}
