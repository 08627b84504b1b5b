// Package fieldtape provides an in-memory, schema-flexible record store
// that keeps every field of one dynamic record packed into a single
// contiguous byte region (the tape), eliminating per-field heap
// allocation and pointer chasing.
//
// A Registry owns exactly one tape and one field index. Fields are set,
// read, and removed by name; removal compacts the tape in place and
// relocates the remaining offsets with a branchless vectorized pass, so
// the tape is gap-free at every quiescent point.
//
// # Quick Start
//
//	reg := fieldtape.New()
//	defer reg.Close()
//
//	_ = reg.SetInt32("hp", 100)
//	_ = reg.SetFloat64("x", 12.5)
//
//	hp, _ := reg.GetInt32("hp")   // 100
//	reg.Remove("hp")              // tape compacts, "x" shifts left
//
// Raw byte values with explicit types:
//
//	pos := fieldtape.NewType("game.Vec3", 12)
//	_ = reg.Set("position", vec3Bytes, pos)
//	b, err := reg.Get("position", pos) // view into the tape
//
// # Handles
//
// Handle returns a row index for O(1) re-access. Removal uses swap
// compaction (the highest row moves into the vacated slot), so a handle
// is valid only until the next Remove on any field: the handle of the
// field that was last becomes stale, the removed field's handle is dead,
// all others stay valid. A size-changing Set is remove-then-append and
// carries the same rule. GetByHandle bounds-checks and rejects
// out-of-range handles; staleness within bounds is the caller's contract.
//
// # Views
//
// Get returns a read-only view into the tape. Views are valid only until
// the next Set or Remove on the same registry; growth may reallocate and
// move all bytes.
//
// # Blits
//
// The live tape [0, TapeLen()) is by construction a complete flat
// encoding of the record's current values. Blit copies exactly those
// bytes; WriteBlit/DecodeBlit add a self-describing frame (schema,
// optional LZ4/ZSTD compression, CRC32C) so another registry instance can
// reconstruct the record.
//
// # Concurrency
//
// A Registry is single-writer, single-reader-at-a-time and does no
// internal locking. Callers needing shared access must serialize
// externally.
package fieldtape
