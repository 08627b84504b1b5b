// Package simd provides the vector-friendly kernels behind the field
// index: wide equality scans over the name-fingerprint column and the
// branchless offset relocation applied after tape compaction.
//
// # Supported Platforms
//
//   - x86-64: AVX-512, AVX2
//   - ARM64: NEON
//
// The kernels are pure Go written in an unrolled, auto-vectorizable shape
// (compare-to-mask, multiply-by-mask); runtime CPU feature detection picks
// the block width. Set FIELDTAPE_SIMD=generic|neon|avx2|avx512 to override
// the selection.
//
// # Operations
//
//   - MatchUint64: next equal lane in a fingerprint column
//   - RelocateOffsets: offset -= holeSize * (offset > holeStart), uniform
//     across blocks and remainder
package simd
