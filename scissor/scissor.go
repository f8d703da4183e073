// Package scissor converts window-rectangle clips into GPU scissor
// rectangles.
//
// GPU render passes accept a single scissor rectangle at a time, so a clip
// made of several windows is drawn once per scissor. Decompose splits the
// clip into disjoint rectangles, which keeps blending correct where windows
// overlap, and Apply drives a render pass through them.
package scissor

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/winclip"
)

// Sentinel errors for the scissor package.
var (
	// ErrEmptyTarget is returned when the render target has no area.
	ErrEmptyTarget = errors.New("scissor: empty render target")

	// ErrTooManyRects is returned when a clip needs more scissor rectangles
	// than WithMaxRects allows.
	ErrTooManyRects = errors.New("scissor: too many scissor rectangles")
)

// Rect is a scissor rectangle in render-target pixels.
// Extent.DepthOrArrayLayers is always 1.
type Rect struct {
	Origin gputypes.Origin3D
	Extent gputypes.Extent3D
}

// Setter is implemented by render pass encoders. SetScissorRect fails when
// the pass can no longer record commands, for example after it has ended.
type Setter interface {
	SetScissorRect(x, y, width, height uint32) error
}

// Option configures Decompose.
type Option func(*options)

type options struct {
	maxRects int
}

// WithMaxRects limits the number of rectangles Decompose may return.
// Zero, the default, means no limit.
func WithMaxRects(n int) Option {
	return func(o *options) {
		o.maxRects = n
	}
}

// span is a half-open x interval.
type span struct {
	x0, x1 int64
}

// Decompose returns disjoint scissor rectangles whose union is the drawable
// part of target under w. Windows are clipped to the target. A disabled clip
// yields the whole target; an inclusive clip with no visible window yields
// no rectangles, meaning nothing is drawn.
//
// Rectangles are ordered top to bottom, then left to right. Vertically
// adjacent rectangles with the same horizontal extent are merged.
func Decompose(w *winclip.WindowRectangles, target gputypes.Extent3D, opts ...Option) ([]Rect, error) {
	if target.Width == 0 || target.Height == 0 {
		return nil, fmt.Errorf("scissor %dx%d: %w", target.Width, target.Height, ErrEmptyTarget)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	tw, th := int64(target.Width), int64(target.Height)
	inclusive := w.Mode() == winclip.ModeInclusive

	type box struct{ x0, y0, x1, y1 int64 }
	boxes := make([]box, 0, winclip.MaxWindows)
	ys := []int64{0, th}
	for _, r := range w.Data() {
		b := box{
			x0: max(int64(r.Left), 0), y0: max(int64(r.Top), 0),
			x1: min(int64(r.Right), tw), y1: min(int64(r.Bottom), th),
		}
		if b.x0 >= b.x1 || b.y0 >= b.y1 {
			continue
		}
		boxes = append(boxes, b)
		ys = append(ys, b.y0, b.y1)
	}
	slices.Sort(ys)
	ys = slices.Compact(ys)

	var (
		out      []Rect
		prev     []span // spans of the previous band
		prevRect int    // index in out of the previous band's first rect
		spans    []span
	)
	for i := 0; i+1 < len(ys); i++ {
		y0, y1 := ys[i], ys[i+1]

		spans = spans[:0]
		for _, b := range boxes {
			if b.y0 <= y0 && b.y1 >= y1 {
				spans = append(spans, span{b.x0, b.x1})
			}
		}
		spans = mergeSpans(spans)
		if !inclusive {
			spans = complementSpans(spans, tw)
		}

		// Extend the previous band when it continues straight down.
		if len(spans) > 0 && slices.Equal(spans, prev) {
			for j := range spans {
				out[prevRect+j].Extent.Height += uint32(y1 - y0)
			}
			continue
		}

		prevRect = len(out)
		prev = append(prev[:0], spans...)
		for _, s := range spans {
			out = append(out, Rect{
				Origin: gputypes.Origin3D{X: uint32(s.x0), Y: uint32(y0)},
				Extent: gputypes.NewExtent2D(uint32(s.x1-s.x0), uint32(y1-y0)),
			})
		}
	}

	if o.maxRects > 0 && len(out) > o.maxRects {
		return nil, fmt.Errorf("scissor: %d rectangles, limit %d: %w", len(out), o.maxRects, ErrTooManyRects)
	}
	if l := winclip.Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("scissor: decomposed clip", "mode", w.Mode().String(), "windows", w.Count(), "rects", len(out))
	}
	return out, nil
}

// mergeSpans sorts spans and joins overlapping or touching ones in place.
func mergeSpans(spans []span) []span {
	if len(spans) < 2 {
		return spans
	}
	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Compare(a.x0, b.x0)
	})
	n := 0
	for _, s := range spans[1:] {
		if s.x0 <= spans[n].x1 {
			spans[n].x1 = max(spans[n].x1, s.x1)
			continue
		}
		n++
		spans[n] = s
	}
	return spans[:n+1]
}

// complementSpans returns the gaps of sorted, merged spans within [0, width).
func complementSpans(spans []span, width int64) []span {
	gaps := make([]span, 0, len(spans)+1)
	x := int64(0)
	for _, s := range spans {
		if s.x0 > x {
			gaps = append(gaps, span{x, s.x0})
		}
		x = s.x1
	}
	if x < width {
		gaps = append(gaps, span{x, width})
	}
	return gaps
}

// Apply sets each scissor rectangle on s in turn and calls draw after each.
// It stops at the first rectangle s rejects; draw is not called for it.
func Apply(s Setter, rects []Rect, draw func(Rect)) error {
	for i, r := range rects {
		if err := s.SetScissorRect(r.Origin.X, r.Origin.Y, r.Extent.Width, r.Extent.Height); err != nil {
			return fmt.Errorf("scissor: rect %d of %d: %w", i, len(rects), err)
		}
		draw(r)
	}
	return nil
}
