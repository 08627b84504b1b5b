package simd

// Kernel function pointer for offset relocation. Default is the 4-lane
// variant; selectKernels overrides on wide ISAs.
var kernelRelocateU64 = relocateU64x4

// RelocateOffsets subtracts holeSize from every offset strictly greater
// than holeStart, leaving all other offsets untouched. The subtraction is
// branchless: the comparison becomes a 0/1 multiplier applied uniformly to
// every lane, blocks and remainder alike, so timing does not depend on
// len(offsets) mod the block width.
//
// Offsets must stay below 1<<63 for the sign-derived mask to be exact; the
// tape cannot reach that size on any supported platform.
func RelocateOffsets(offsets []uint64, holeStart, holeSize uint64) {
	kernelRelocateU64(offsets, holeStart, holeSize)
}

// gtMask returns 1 when off > holeStart, 0 otherwise, without branching.
// holeStart-off wraps negative exactly when off is larger, so the result
// is the top bit of the unsigned difference.
func gtMask(off, holeStart uint64) uint64 {
	return (holeStart - off) >> 63
}

func relocateU64x8(offsets []uint64, holeStart, holeSize uint64) {
	i, n := 0, len(offsets)
	for ; i+8 <= n; i += 8 {
		offsets[i] -= holeSize * gtMask(offsets[i], holeStart)
		offsets[i+1] -= holeSize * gtMask(offsets[i+1], holeStart)
		offsets[i+2] -= holeSize * gtMask(offsets[i+2], holeStart)
		offsets[i+3] -= holeSize * gtMask(offsets[i+3], holeStart)
		offsets[i+4] -= holeSize * gtMask(offsets[i+4], holeStart)
		offsets[i+5] -= holeSize * gtMask(offsets[i+5], holeStart)
		offsets[i+6] -= holeSize * gtMask(offsets[i+6], holeStart)
		offsets[i+7] -= holeSize * gtMask(offsets[i+7], holeStart)
	}
	// Remainder uses the identical formula, not a special-cased branch.
	for ; i < n; i++ {
		offsets[i] -= holeSize * gtMask(offsets[i], holeStart)
	}
}

func relocateU64x4(offsets []uint64, holeStart, holeSize uint64) {
	i, n := 0, len(offsets)
	for ; i+4 <= n; i += 4 {
		offsets[i] -= holeSize * gtMask(offsets[i], holeStart)
		offsets[i+1] -= holeSize * gtMask(offsets[i+1], holeStart)
		offsets[i+2] -= holeSize * gtMask(offsets[i+2], holeStart)
		offsets[i+3] -= holeSize * gtMask(offsets[i+3], holeStart)
	}
	for ; i < n; i++ {
		offsets[i] -= holeSize * gtMask(offsets[i], holeStart)
	}
}
