package winclip

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
)

// MaxWindows is the maximum number of rectangles a WindowRectangles holds.
// Rasterizers and GPU backends size their clip state for this limit.
const MaxWindows = 8

// localWindows is the number of rectangles stored inline.
// Sets with more rectangles move to a shared heap record.
const localWindows = 1

// Mode selects how the rectangles of a WindowRectangles clip.
type Mode uint8

const (
	// ModeExclusive clips away the union of the rectangles.
	ModeExclusive Mode = iota
	// ModeInclusive keeps only the union of the rectangles.
	ModeInclusive
)

func (m Mode) String() string {
	switch m {
	case ModeExclusive:
		return "Exclusive"
	case ModeInclusive:
		return "Inclusive"
	default:
		return "Mode(?)"
	}
}

// windowRec is the shared heap storage used once a set outgrows its inline
// slots. refs counts the sets holding the record through Clone and Assign.
// filled is the number of slots handed out; a slot is written only by the
// set that claimed it, so slots below any holder's count never change.
type windowRec struct {
	refs   atomic.Int32
	filled atomic.Int32
	data   [MaxWindows]IRect
}

// newWindowRec returns a record holding windows with the following slot
// already claimed by the caller.
func newWindowRec(windows []IRect) *windowRec {
	rec := &windowRec{}
	rec.refs.Store(1)
	rec.filled.Store(int32(len(windows) + 1))
	copy(rec.data[:], windows)
	return rec
}

func (rec *windowRec) ref() *windowRec {
	rec.refs.Add(1)
	return rec
}

func (rec *windowRec) unref() {
	rec.refs.Add(-1)
}

func (rec *windowRec) unique() bool {
	return rec.refs.Load() == 1
}

// claim reserves slot n for writing. It fails if another set sharing the
// record has already appended past n.
func (rec *windowRec) claim(n uint8) bool {
	return rec.filled.CompareAndSwap(int32(n), int32(n)+1)
}

// WindowRectangles is a clip region made of up to MaxWindows rectangles and
// a Mode. The zero value is an empty Exclusive set, which does not clip.
//
// One rectangle is stored inline. Larger sets keep their rectangles in a
// reference-counted record that Clone and Assign share instead of copying;
// the first AddWindow on a shared record copies it. Plain assignment also
// yields an independent set once any pending AddWindowSlot pointer has been
// filled in, but the copy is not counted, so prefer Clone and Assign and
// call Release on sets that are dropped early.
//
// Reading a set from several goroutines is safe. Mutating one set
// concurrently is not.
type WindowRectangles struct {
	mode  Mode
	count uint8
	local [localWindows]IRect
	rec   *windowRec // valid iff count > localWindows
}

// New returns an empty set with the given mode.
func New(mode Mode) WindowRectangles {
	return WindowRectangles{mode: mode}
}

// Mode returns the clip mode.
func (w *WindowRectangles) Mode() Mode { return w.mode }

// Count returns the number of rectangles.
func (w *WindowRectangles) Count() int { return int(w.count) }

// Disabled reports whether the set has no clipping effect.
func (w *WindowRectangles) Disabled() bool {
	return w.mode == ModeExclusive && w.count == 0
}

// Data returns the rectangles in insertion order. The slice aliases the
// set's storage: it must not be modified and is invalidated by the next
// AddWindow, Reset or Assign.
func (w *WindowRectangles) Data() []IRect {
	n := int(w.count)
	if n <= localWindows {
		return w.local[:n:n]
	}
	return w.rec.data[:n:n]
}

// heapRec returns the held record, or nil when storage is inline.
func (w *WindowRectangles) heapRec() *windowRec {
	if w.count <= localWindows {
		return nil
	}
	return w.rec
}

// release drops the held record reference, if any.
func (w *WindowRectangles) release() {
	if rec := w.heapRec(); rec != nil {
		rec.unref()
	}
	w.rec = nil
}

// Reset empties the set and sets its mode.
func (w *WindowRectangles) Reset(mode Mode) {
	w.release()
	w.mode = mode
	w.count = 0
}

// Release drops the set's reference to shared storage and leaves it empty
// with its mode unchanged. Calling Release is optional: unreleased records
// are garbage collected, but remaining sharers then copy on their next
// AddWindow instead of appending in place.
func (w *WindowRectangles) Release() {
	w.Reset(w.mode)
}

// Assign makes w equal to other. Inline rectangles are copied; a heap
// record is shared, not duplicated.
func (w *WindowRectangles) Assign(other *WindowRectangles) {
	if w == other {
		return
	}
	w.release()
	w.mode = other.mode
	w.count = other.count
	if w.count <= localWindows {
		w.local = other.local
		return
	}
	w.rec = other.rec.ref()
}

// Clone returns a copy of w that shares w's heap record, if any.
func (w *WindowRectangles) Clone() WindowRectangles {
	c := WindowRectangles{mode: w.mode, count: w.count, local: w.local}
	if rec := w.heapRec(); rec != nil {
		c.rec = rec.ref()
	}
	return c
}

// AddWindow appends r and returns a pointer to the stored copy.
// See AddWindowSlot for the lifetime of the pointer.
func (w *WindowRectangles) AddWindow(r IRect) *IRect {
	slot := w.AddWindowSlot()
	*slot = r
	return slot
}

// AddWindowSlot appends a zero rectangle and returns a pointer to it for the
// caller to fill in. The pointer may be written only until the next
// AddWindow, Reset, Assign or Clone of w, or until w is copied by plain
// assignment; a copy made earlier shares the slot and sees the write.
//
// AddWindowSlot panics if the set already holds MaxWindows rectangles.
func (w *WindowRectangles) AddWindowSlot() *IRect {
	if w.count >= MaxWindows {
		panic("winclip: too many window rectangles")
	}
	if w.count < localWindows {
		slot := &w.local[w.count]
		*slot = IRect{}
		w.count++
		return slot
	}
	if w.count == localWindows {
		w.rec = newWindowRec(w.local[:])
		logRec("winclip: window record allocated", w)
	} else if !w.rec.unique() || !w.rec.claim(w.count) {
		old := w.rec
		w.rec = newWindowRec(old.data[:w.count])
		old.unref()
		logRec("winclip: window record copied on write", w)
	}
	slot := &w.rec.data[w.count]
	*slot = IRect{}
	w.count++
	return slot
}

// Equal reports whether w and other have the same mode and the same
// rectangles in the same order.
func (w *WindowRectangles) Equal(other *WindowRectangles) bool {
	if w.mode != other.mode || w.count != other.count {
		return false
	}
	// Slots below count are never rewritten, so a shared record at the
	// same count holds the same rectangles.
	if w.count > localWindows && w.rec == other.rec {
		return true
	}
	return slices.Equal(w.Data(), other.Data())
}

// Key is a comparable snapshot of a WindowRectangles, suitable as a map key.
// Unused rectangle slots are zero.
type Key struct {
	Mode    Mode
	Count   uint8
	Windows [MaxWindows]IRect
}

// Key returns the comparable snapshot of w.
func (w *WindowRectangles) Key() Key {
	k := Key{Mode: w.mode, Count: w.count}
	copy(k.Windows[:], w.Data())
	return k
}

func (w *WindowRectangles) String() string {
	var sb strings.Builder
	sb.WriteString(w.mode.String())
	sb.WriteByte('[')
	for i, r := range w.Data() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(r.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func logRec(msg string, w *WindowRectangles) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug(msg, "count", w.count, "mode", w.mode.String())
}
