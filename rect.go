package winclip

import (
	"fmt"
	"image"
	"math"
)

// IRect is an integer rectangle record in device pixels.
// Left and Top are inclusive, Right and Bottom are exclusive.
//
// The field order is part of the layout contract with rasterizers and
// GPU backends and must not change.
type IRect struct {
	Left, Top, Right, Bottom int32
}

// IRectLTRB creates an IRect from its four edges.
func IRectLTRB(left, top, right, bottom int32) IRect {
	return IRect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// IRectXYWH creates an IRect from position and size.
func IRectXYWH(x, y, w, h int32) IRect {
	return IRect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// IRectFromImage converts an image.Rectangle.
// Coordinates outside the int32 range are clamped to it.
func IRectFromImage(r image.Rectangle) IRect {
	return IRect{
		Left:   clampInt32(r.Min.X),
		Top:    clampInt32(r.Min.Y),
		Right:  clampInt32(r.Max.X),
		Bottom: clampInt32(r.Max.Y),
	}
}

func clampInt32(v int) int32 {
	return int32(min(max(v, math.MinInt32), math.MaxInt32))
}

// Image returns r as an image.Rectangle.
func (r IRect) Image() image.Rectangle {
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom))
}

// Width returns Right - Left.
func (r IRect) Width() int32 {
	return r.Right - r.Left
}

// Height returns Bottom - Top.
func (r IRect) Height() int32 {
	return r.Bottom - r.Top
}

// IsEmpty reports whether r has no area.
func (r IRect) IsEmpty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

func (r IRect) String() string {
	return fmt.Sprintf("{%d %d %d %d}", r.Left, r.Top, r.Right, r.Bottom)
}
