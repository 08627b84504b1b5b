// Package tape implements the contiguous byte buffer holding every field
// value of one record, back to back, with no padding and no gaps between
// live fields.
//
// The tape knows nothing about fields; it operates purely in byte-offset
// space. Appends go at the end, removal of an interior range left-shifts
// everything after it. The field index owns the mapping from names to
// ranges and is responsible for relocating offsets after a compaction.
package tape

import (
	"errors"

	"github.com/hupe1980/fieldtape/internal/resource"
)

// ErrBudgetExceeded is returned when the configured memory budget denies
// a capacity reservation. It is the only way an append can fail.
var ErrBudgetExceeded = errors.New("tape: memory budget exceeded")

// minCapacity is the smallest capacity reserved by the first growth.
const minCapacity = 64

// Tape is an owned, growable contiguous byte sequence.
//
// Invariant: the logical length is always exactly the sum of the live
// field lengths; there are no unused interior or trailing bytes.
type Tape struct {
	buf      []byte
	reserved int64 // capacity bytes currently charged to the controller
	capHint  int
	ctrl     *resource.Controller
}

// New creates an empty tape. No memory is reserved until the first
// append; capHint sizes the first reservation. ctrl may be nil.
func New(capHint int, ctrl *resource.Controller) *Tape {
	if capHint < 0 {
		capHint = 0
	}
	return &Tape{capHint: capHint, ctrl: ctrl}
}

// ensure grows capacity so that extra more bytes fit. Growth is geometric
// and charged against the controller before the buffer is reallocated, so
// a denial leaves the tape untouched.
func (t *Tape) ensure(extra int) error {
	need := len(t.buf) + extra
	if need <= cap(t.buf) {
		return nil
	}

	newCap := cap(t.buf) * 2
	if newCap < need {
		newCap = need
	}
	if newCap < t.capHint {
		newCap = t.capHint
	}
	if newCap < minCapacity {
		newCap = minCapacity
	}

	delta := int64(newCap) - t.reserved
	if !t.ctrl.TryAcquireMemory(delta) {
		return ErrBudgetExceeded
	}

	nb := make([]byte, len(t.buf), newCap)
	copy(nb, t.buf)
	t.buf = nb
	t.reserved += delta
	return nil
}

// Grow reserves capacity for n more bytes without changing the logical
// length. Callers use it to surface a budget denial before mutating any
// other state.
func (t *Tape) Grow(n int) error {
	if n <= 0 {
		return nil
	}
	return t.ensure(n)
}

// Append copies b to the end of the tape and returns the starting offset
// of the copy. Growth may reallocate and move all bytes, so views handed
// out earlier must not be retained across an Append.
func (t *Tape) Append(b []byte) (uint64, error) {
	if err := t.ensure(len(b)); err != nil {
		return 0, err
	}
	off := uint64(len(t.buf))
	t.buf = append(t.buf, b...)
	return off, nil
}

// WriteAt overwrites length-of-b bytes in place at off. The range must be
// inside the live tape; this is the golden path of a same-length update.
func (t *Tape) WriteAt(off uint64, b []byte) {
	copy(t.buf[off:off+uint64(len(b))], b)
}

// Compact removes holeSize bytes beginning at holeStart by copying every
// byte at or after holeStart+holeSize backward by holeSize, then truncates
// the logical length. copy is overlap-safe for a forward shift: the source
// region lies entirely after the destination.
func (t *Tape) Compact(holeStart, holeSize uint64) {
	end := uint64(len(t.buf))
	copy(t.buf[holeStart:], t.buf[holeStart+holeSize:end])
	t.buf = t.buf[:end-holeSize]
}

// View returns the live bytes [off, off+length). The slice is capped so
// callers cannot append through it into neighboring fields; it is valid
// only until the next Append or Compact.
func (t *Tape) View(off, length uint64) []byte {
	return t.buf[off : off+length : off+length]
}

// Bytes returns the full live tape [0, Len()).
func (t *Tape) Bytes() []byte {
	return t.buf[:len(t.buf):len(t.buf)]
}

// Len returns the logical length in bytes.
func (t *Tape) Len() uint64 {
	return uint64(len(t.buf))
}

// Reserved returns the capacity bytes currently charged to the controller.
func (t *Tape) Reserved() int64 {
	return t.reserved
}

// Reset truncates the tape to zero length, keeping capacity.
func (t *Tape) Reset() {
	t.buf = t.buf[:0]
}

// Release drops the buffer and returns its reservation to the controller.
// The tape is reusable afterwards; the next append starts from scratch.
func (t *Tape) Release() {
	t.ctrl.ReleaseMemory(t.reserved)
	t.reserved = 0
	t.buf = nil
}
