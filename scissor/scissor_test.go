package scissor

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/winclip"
)

func clipOf(mode winclip.Mode, rs ...winclip.IRect) winclip.WindowRectangles {
	w := winclip.New(mode)
	for _, r := range rs {
		w.AddWindow(r)
	}
	return w
}

func rect(x, y, w, h uint32) Rect {
	return Rect{
		Origin: gputypes.Origin3D{X: x, Y: y},
		Extent: gputypes.NewExtent2D(w, h),
	}
}

func TestDecompose(t *testing.T) {
	target := gputypes.NewExtent2D(100, 50)

	tests := []struct {
		name string
		clip winclip.WindowRectangles
		want []Rect
	}{
		{
			name: "disabled",
			clip: clipOf(winclip.ModeExclusive),
			want: []Rect{rect(0, 0, 100, 50)},
		},
		{
			name: "inclusive empty",
			clip: clipOf(winclip.ModeInclusive),
			want: nil,
		},
		{
			name: "inclusive single",
			clip: clipOf(winclip.ModeInclusive, winclip.IRectXYWH(10, 10, 20, 5)),
			want: []Rect{rect(10, 10, 20, 5)},
		},
		{
			name: "inclusive clamped to target",
			clip: clipOf(winclip.ModeInclusive, winclip.IRectLTRB(-10, -10, 10, 10), winclip.IRectLTRB(90, 40, 200, 200)),
			want: []Rect{rect(0, 0, 10, 10), rect(90, 40, 10, 10)},
		},
		{
			name: "inclusive overlapping",
			clip: clipOf(winclip.ModeInclusive, winclip.IRectLTRB(0, 0, 20, 20), winclip.IRectLTRB(10, 10, 30, 30)),
			want: []Rect{
				rect(0, 0, 20, 10),
				rect(0, 10, 30, 10),
				rect(10, 20, 20, 10),
			},
		},
		{
			name: "inclusive side by side merges vertically",
			clip: clipOf(winclip.ModeInclusive, winclip.IRectLTRB(0, 0, 10, 10), winclip.IRectLTRB(0, 10, 10, 20)),
			want: []Rect{rect(0, 0, 10, 20)},
		},
		{
			name: "inclusive touching horizontally",
			clip: clipOf(winclip.ModeInclusive, winclip.IRectLTRB(0, 0, 10, 10), winclip.IRectLTRB(10, 0, 20, 10)),
			want: []Rect{rect(0, 0, 20, 10)},
		},
		{
			name: "exclusive single",
			clip: clipOf(winclip.ModeExclusive, winclip.IRectLTRB(10, 10, 20, 20)),
			want: []Rect{
				rect(0, 0, 100, 10),
				rect(0, 10, 10, 10),
				rect(20, 10, 80, 10),
				rect(0, 20, 100, 30),
			},
		},
		{
			name: "exclusive whole target",
			clip: clipOf(winclip.ModeExclusive, winclip.IRectLTRB(-5, -5, 200, 200)),
			want: nil,
		},
		{
			name: "exclusive outside target",
			clip: clipOf(winclip.ModeExclusive, winclip.IRectLTRB(200, 200, 300, 300)),
			want: []Rect{rect(0, 0, 100, 50)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompose(&tt.clip, target)
			if err != nil {
				t.Fatalf("Decompose() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Decompose() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDecompose_Coverage checks that rectangles are disjoint and cover
// exactly the drawable pixels.
func TestDecompose_Coverage(t *testing.T) {
	const w, h = 40, 30
	windows := []winclip.IRect{
		winclip.IRectLTRB(2, 3, 12, 9),
		winclip.IRectLTRB(8, 5, 20, 14),
		winclip.IRectLTRB(25, 0, 30, 30),
		winclip.IRectLTRB(0, 20, 40, 22),
		winclip.IRectLTRB(33, 24, 50, 40),
	}

	for _, mode := range []winclip.Mode{winclip.ModeInclusive, winclip.ModeExclusive} {
		t.Run(mode.String(), func(t *testing.T) {
			clip := clipOf(mode, windows...)
			rects, err := Decompose(&clip, gputypes.NewExtent2D(w, h))
			if err != nil {
				t.Fatalf("Decompose() error = %v", err)
			}

			var hits [h][w]int
			for _, r := range rects {
				for y := r.Origin.Y; y < r.Origin.Y+r.Extent.Height; y++ {
					for x := r.Origin.X; x < r.Origin.X+r.Extent.Width; x++ {
						hits[y][x]++
					}
				}
			}

			for y := range h {
				for x := range w {
					inside := false
					for _, r := range windows {
						if int32(x) >= r.Left && int32(x) < r.Right && int32(y) >= r.Top && int32(y) < r.Bottom {
							inside = true
						}
					}
					want := 0
					if inside == (mode == winclip.ModeInclusive) {
						want = 1
					}
					if hits[y][x] != want {
						t.Fatalf("pixel (%d,%d) covered %d times, want %d", x, y, hits[y][x], want)
					}
				}
			}
		})
	}
}

func TestDecompose_EmptyTarget(t *testing.T) {
	clip := clipOf(winclip.ModeExclusive)
	for _, target := range []gputypes.Extent3D{{}, gputypes.NewExtent2D(0, 10), gputypes.NewExtent2D(10, 0)} {
		if _, err := Decompose(&clip, target); !errors.Is(err, ErrEmptyTarget) {
			t.Errorf("Decompose(%+v) error = %v, want ErrEmptyTarget", target, err)
		}
	}
}

func TestDecompose_MaxRects(t *testing.T) {
	clip := clipOf(winclip.ModeExclusive, winclip.IRectLTRB(10, 10, 20, 20))
	target := gputypes.NewExtent2D(100, 50)

	if _, err := Decompose(&clip, target, WithMaxRects(3)); !errors.Is(err, ErrTooManyRects) {
		t.Errorf("error = %v, want ErrTooManyRects", err)
	}
	if got, err := Decompose(&clip, target, WithMaxRects(4)); err != nil || len(got) != 4 {
		t.Errorf("Decompose() = %d rects, %v; want 4, nil", len(got), err)
	}
}

var errPassEnded = errors.New("render pass already ended")

var _ Setter = (*recordingPass)(nil)

// recordingPass mimics a render pass encoder whose pass ends after
// failAfter scissor calls. failAfter < 0 never fails.
type recordingPass struct {
	calls     [][4]uint32
	failAfter int
}

func (p *recordingPass) SetScissorRect(x, y, width, height uint32) error {
	if p.failAfter >= 0 && len(p.calls) >= p.failAfter {
		return errPassEnded
	}
	p.calls = append(p.calls, [4]uint32{x, y, width, height})
	return nil
}

func TestApply(t *testing.T) {
	rects := []Rect{rect(0, 0, 10, 10), rect(20, 5, 4, 3)}
	pass := recordingPass{failAfter: -1}
	var drawn []Rect

	if err := Apply(&pass, rects, func(r Rect) { drawn = append(drawn, r) }); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := [][4]uint32{{0, 0, 10, 10}, {20, 5, 4, 3}}
	if !slices.Equal(pass.calls, want) {
		t.Errorf("SetScissorRect calls = %v, want %v", pass.calls, want)
	}
	if !slices.Equal(drawn, rects) {
		t.Errorf("draw calls = %v, want %v", drawn, rects)
	}
}

func TestApply_SetterError(t *testing.T) {
	rects := []Rect{rect(0, 0, 10, 10), rect(20, 5, 4, 3), rect(30, 0, 1, 1)}
	pass := recordingPass{failAfter: 1}
	var drawn []Rect

	err := Apply(&pass, rects, func(r Rect) { drawn = append(drawn, r) })
	if !errors.Is(err, errPassEnded) {
		t.Fatalf("Apply() error = %v, want wrapped errPassEnded", err)
	}
	if !strings.HasPrefix(err.Error(), "scissor: ") {
		t.Errorf("Apply() error = %q, want scissor: prefix", err)
	}
	if !slices.Equal(drawn, rects[:1]) {
		t.Errorf("draw calls = %v, want %v", drawn, rects[:1])
	}
	if len(pass.calls) != 1 {
		t.Errorf("SetScissorRect succeeded %d times, want 1", len(pass.calls))
	}
}
