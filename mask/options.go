package mask

// DefaultCacheSize is the soft limit on cached masks per Renderer.
const DefaultCacheSize = 64

// Option configures a Renderer.
//
// Example:
//
//	r := mask.NewRenderer(mask.WithCacheSize(16))
type Option func(*options)

type options struct {
	cacheSize int
}

func defaultOptions() options {
	return options{cacheSize: DefaultCacheSize}
}

// WithCacheSize sets the soft limit on cached masks.
// A size of 0 or less disables caching; every call rasterizes a new mask.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}
