// Package winclip stores window-rectangle clip regions for a rendering
// pipeline.
//
// # Overview
//
// A WindowRectangles is an ordered list of up to MaxWindows integer
// rectangles plus a Mode. In ModeInclusive only the union of the rectangles
// is drawn; in ModeExclusive the union is masked out. An empty Exclusive set
// is disabled and does not clip at all.
//
// # Storage
//
// Sets with zero or one rectangle live entirely inside the WindowRectangles
// value and never allocate. Larger sets move to a reference-counted record
// which Clone and Assign share; AddWindow copies a shared record before
// writing, so sharing sets never observe each other's appends.
//
//	var clip winclip.WindowRectangles
//	clip.Reset(winclip.ModeInclusive)
//	clip.AddWindow(winclip.IRectXYWH(0, 0, 64, 64))
//	clip.AddWindow(winclip.IRectXYWH(128, 0, 64, 64))
//
//	saved := clip.Clone()                              // shares the record
//	clip.AddWindow(winclip.IRectXYWH(0, 128, 64, 64)) // copies it first
//
// # Consumers
//
// The core performs no geometry. Package mask rasterizes a set into an
// 8-bit coverage mask for software rendering, and package scissor splits it
// into disjoint GPU scissor rectangles.
//
// # Logging
//
// winclip is silent by default. Call SetLogger to receive debug events.
package winclip
