// Package index implements the field index: a dense structure-of-arrays
// metadata table, one row per live field, kept index-aligned with the
// tape's contents.
//
// Row i always describes the field whose bytes live at
// tape[offset[i] .. offset[i]+length[i]]. Rows are removed by swap
// compaction (the last row moves into the vacated slot), which is why
// row indices handed out as handles are invalidated by any removal.
package index

import (
	"github.com/hupe1980/fieldtape/internal/simd"
)

// Index holds one column slice per field attribute. All columns have the
// same length and are mutated in lock-step through Insert and Remove.
type Index struct {
	offsets []uint64
	lengths []uint64
	typeFPs []uint64
	nameFPs []uint64
	names   []string
}

// New creates an empty index with room for capHint rows.
func New(capHint int) *Index {
	if capHint < 0 {
		capHint = 0
	}
	return &Index{
		offsets: make([]uint64, 0, capHint),
		lengths: make([]uint64, 0, capHint),
		typeFPs: make([]uint64, 0, capHint),
		nameFPs: make([]uint64, 0, capHint),
		names:   make([]string, 0, capHint),
	}
}

// Rows returns the live field count.
func (ix *Index) Rows() int {
	return len(ix.names)
}

// Find returns the row describing name, scanning the name-fingerprint
// column with wide lane compares. Fingerprints of distinct names may
// collide, so every fingerprint hit is confirmed byte-for-byte against
// the stored name before it is accepted; a collision continues the scan.
// This confirmation is a correctness requirement, not an optimization.
func (ix *Index) Find(name string, nameFP uint64) (int, bool) {
	for i := simd.MatchUint64(ix.nameFPs, nameFP, 0); i >= 0; i = simd.MatchUint64(ix.nameFPs, nameFP, i+1) {
		if ix.names[i] == name {
			return i, true
		}
	}
	return 0, false
}

// Insert appends a new row to every column in lock-step.
// The caller guarantees name is not already present.
func (ix *Index) Insert(name string, nameFP, offset, length, typeFP uint64) {
	ix.offsets = append(ix.offsets, offset)
	ix.lengths = append(ix.lengths, length)
	ix.typeFPs = append(ix.typeFPs, typeFP)
	ix.nameFPs = append(ix.nameFPs, nameFP)
	ix.names = append(ix.names, name)
}

// Remove swap-compacts row out of the index: the last row's columns
// overwrite the target row, then the last row is dropped from every
// column. All five columns are updated here and nowhere else, so a
// partial swap cannot exist.
func (ix *Index) Remove(row int) {
	last := len(ix.names) - 1

	ix.offsets[row] = ix.offsets[last]
	ix.lengths[row] = ix.lengths[last]
	ix.typeFPs[row] = ix.typeFPs[last]
	ix.nameFPs[row] = ix.nameFPs[last]
	ix.names[row] = ix.names[last]

	ix.offsets = ix.offsets[:last]
	ix.lengths = ix.lengths[:last]
	ix.typeFPs = ix.typeFPs[:last]
	ix.nameFPs = ix.nameFPs[:last]
	ix.names[last] = "" // release the string
	ix.names = ix.names[:last]
}

// Relocate subtracts holeSize from every offset strictly greater than
// holeStart. Called after a tape compaction, before the doomed row is
// removed; relocating the doomed row is harmless since it is dropped
// immediately after.
func (ix *Index) Relocate(holeStart, holeSize uint64) {
	simd.RelocateOffsets(ix.offsets, holeStart, holeSize)
}

// Offset returns row's byte offset into the tape.
func (ix *Index) Offset(row int) uint64 { return ix.offsets[row] }

// Length returns row's byte length.
func (ix *Index) Length(row int) uint64 { return ix.lengths[row] }

// TypeFP returns row's type fingerprint.
func (ix *Index) TypeFP(row int) uint64 { return ix.typeFPs[row] }

// NameFP returns row's name fingerprint.
func (ix *Index) NameFP(row int) uint64 { return ix.nameFPs[row] }

// Name returns row's field name.
func (ix *Index) Name(row int) string { return ix.names[row] }

// SetTypeFP updates row's type fingerprint in place (golden-path update).
func (ix *Index) SetTypeFP(row int, typeFP uint64) {
	ix.typeFPs[row] = typeFP
}

// Names returns a copy of the name column in row order.
func (ix *Index) Names() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	return out
}

// Reset drops all rows, keeping column capacity.
func (ix *Index) Reset() {
	for i := range ix.names {
		ix.names[i] = ""
	}
	ix.offsets = ix.offsets[:0]
	ix.lengths = ix.lengths[:0]
	ix.typeFPs = ix.typeFPs[:0]
	ix.nameFPs = ix.nameFPs[:0]
	ix.names = ix.names[:0]
}
