// Package mask rasterizes window-rectangle clips into 8-bit coverage masks
// for software rendering.
//
// A Renderer turns a winclip.WindowRectangles and a device-space bounds
// rectangle into an *image.Alpha where 0xff means "drawable" and 0 means
// "clipped". Masks are cached per clip and bounds, so a clip shared by many
// draw calls is rasterized once.
//
//	r := mask.NewRenderer()
//	m, err := r.Mask(&clip, image.Rect(0, 0, 800, 600))
//	if err != nil {
//	    return err
//	}
//	draw.DrawMask(dst, dst.Bounds(), src, image.Point{}, m, image.Point{}, draw.Over)
//
// For single pixels Covers answers the same question without a mask.
package mask
