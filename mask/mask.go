package mask

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/winclip"
)

// Renderer rasterizes window-rectangle clips into coverage masks.
//
// Renderer is safe for concurrent use.
type Renderer struct {
	cache *maskCache // nil when caching is disabled
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{}
	if o.cacheSize > 0 {
		r.cache = newMaskCache(o.cacheSize)
	}
	return r
}

// Mask returns the coverage mask of w over bounds. Pixels inside the clip
// are 0xff, clipped pixels are 0. A disabled clip yields a fully opaque mask.
//
// The returned mask may be shared with other callers and must not be
// modified.
func (r *Renderer) Mask(w *winclip.WindowRectangles, bounds image.Rectangle) (*image.Alpha, error) {
	if bounds.Empty() {
		return nil, fmt.Errorf("mask %v: %w", bounds, ErrEmptyBounds)
	}
	if r.cache == nil {
		return rasterize(w, bounds), nil
	}
	key := cacheKey{clip: w.Key(), bounds: bounds}
	return r.cache.getOrCreate(key, func() *image.Alpha {
		return rasterize(w, bounds)
	}), nil
}

// Reset drops all cached masks.
func (r *Renderer) Reset() {
	if r.cache != nil {
		r.cache.clear()
	}
}

// Stats returns cache statistics. It is zero when caching is disabled.
func (r *Renderer) Stats() Stats {
	if r.cache == nil {
		return Stats{}
	}
	return r.cache.stats()
}

// rasterize draws w into a new mask covering bounds.
func rasterize(w *winclip.WindowRectangles, bounds image.Rectangle) *image.Alpha {
	m := image.NewAlpha(bounds)

	// Inclusive clips start fully clipped and open each window; exclusive
	// clips start fully open and punch each window out.
	window := image.Image(image.Opaque)
	if w.Mode() == winclip.ModeExclusive {
		draw.Draw(m, bounds, image.Opaque, image.Point{}, draw.Src)
		window = image.Transparent
	}
	for _, rect := range w.Data() {
		dr := rect.Image().Intersect(bounds)
		if dr.Empty() {
			continue
		}
		draw.Draw(m, dr, window, image.Point{}, draw.Src)
	}
	return m
}

// Covers reports whether pixel (x, y) is drawable under w.
func Covers(w *winclip.WindowRectangles, x, y int) bool {
	inside := false
	for _, r := range w.Data() {
		if x >= int(r.Left) && x < int(r.Right) && y >= int(r.Top) && y < int(r.Bottom) {
			inside = true
			break
		}
	}
	if w.Mode() == winclip.ModeInclusive {
		return inside
	}
	return !inside
}
