package animimg

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/overlayfx/animimg/cache"
)

// Loader fetches, decodes, and caches images by URL.
//
// Load is idempotent and safe to call concurrently: requests for the same
// URL share a single fetch+decode flight, and successful results are cached
// so later calls return the same *LoadedImage. Failed loads are never
// cached, so a URL that failed once is retried on the next call.
//
// Decode failures do not surface as errors. The loader substitutes the
// configured fallback placeholder (loaded through the same cached path), and
// if the placeholder fails too it resolves to an explicit empty image, so
// render loops never have to handle a failed load.
type Loader struct {
	source      ByteSource
	cache       *cache.LRU[string, *LoadedImage]
	group       singleflight.Group
	fallbackURL string
}

// NewLoader creates a Loader. With no options it fetches over
// http.DefaultClient, caches without bound, and has no fallback placeholder.
func NewLoader(opts ...Option) *Loader {
	o := defaultLoaderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{
		source:      o.source,
		cache:       cache.NewLRU[string, *LoadedImage](o.cacheCapacity),
		fallbackURL: o.fallbackURL,
	}
}

// Load returns the decoded image for url.
//
// Concurrent callers for the same URL share one flight; the flight runs
// under the first caller's context, so cancelling a later caller's context
// does not abort a fetch that is already under way.
//
// The only returned errors are context cancellation/deadline; every other
// failure resolves through the fallback policy.
func (l *Loader) Load(ctx context.Context, url string) (*LoadedImage, error) {
	if img, ok := l.cache.Get(url); ok {
		return img, nil
	}

	v, err, shared := l.group.Do(url, func() (any, error) {
		// A racing caller may have populated the cache between our miss
		// and the flight starting.
		if img, ok := l.cache.Get(url); ok {
			return img, nil
		}
		img, err := l.fetchAndDecode(ctx, url)
		if err != nil {
			return nil, err
		}
		l.cache.Set(url, img)
		return img, nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return l.loadFallback(ctx, url, err)
	}

	Logger().Debug("image loaded", slog.String("url", url), slog.Bool("shared", shared))
	return v.(*LoadedImage), nil
}

// fetchAndDecode is one cache-filling flight: fetch bytes, sniff, decode.
func (l *Loader) fetchAndDecode(ctx context.Context, url string) (*LoadedImage, error) {
	data, mediaType, err := l.source.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return decodeImage(data, url, mediaType)
}

// loadFallback substitutes the placeholder for a failed URL. The failed URL
// was never cached, so the next Load for it retries from scratch.
func (l *Loader) loadFallback(ctx context.Context, url string, cause error) (*LoadedImage, error) {
	Logger().Warn("image load failed, substituting placeholder",
		slog.String("url", url), slog.String("error", cause.Error()))

	// No placeholder configured, or the placeholder itself is what failed:
	// resolve to "nothing to draw" rather than an error.
	if l.fallbackURL == "" || url == l.fallbackURL {
		return &LoadedImage{}, nil
	}
	return l.Load(ctx, l.fallbackURL)
}

// Preload warms the cache for a set of URLs concurrently. Individual decode
// failures are absorbed by the fallback policy as in Load; Preload only
// returns an error when the context is cancelled.
func (l *Loader) Preload(ctx context.Context, urls ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadConcurrency)
	for _, url := range urls {
		url := url
		g.Go(func() error {
			_, err := l.Load(ctx, url)
			return err
		})
	}
	return g.Wait()
}

// preloadConcurrency bounds parallel fetches during Preload.
const preloadConcurrency = 4

// Stats returns the loader cache counters.
func (l *Loader) Stats() cache.Stats {
	return l.cache.Stats()
}

// Evict drops the cached entry for url, if any. Returns true if an entry
// was removed.
func (l *Loader) Evict(url string) bool {
	return l.cache.Delete(url)
}
