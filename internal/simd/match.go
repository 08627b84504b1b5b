package simd

import "math/bits"

// Kernel function pointer for fingerprint matching. The generic 4-lane
// implementation is the default; selectKernels overrides it with the
// 8-lane variant on wide ISAs.
var kernelMatchU64 = matchU64x4

// MatchUint64 returns the index of the first lane in hay at or after from
// that equals target, or -1 if no lane matches. The scan processes a block
// of lanes at a time, testing "any lane matched" before identifying which
// lane, then finishes the remainder with scalar compares.
//
// Lookup over a fingerprint column is inherently linear; the blocking only
// reduces the constant factor.
func MatchUint64(hay []uint64, target uint64, from int) int {
	if from < 0 {
		from = 0
	}
	if from >= len(hay) {
		return -1
	}
	return kernelMatchU64(hay, target, from)
}

// eqBit converts a lane equality to a 0/1 mask bit.
// The compiler lowers this to a flag materialization, not a branch.
func eqBit(a, b uint64) uint32 {
	if a == b {
		return 1
	}
	return 0
}

func matchU64x8(hay []uint64, target uint64, from int) int {
	i, n := from, len(hay)
	for ; i+8 <= n; i += 8 {
		m := eqBit(hay[i], target) |
			eqBit(hay[i+1], target)<<1 |
			eqBit(hay[i+2], target)<<2 |
			eqBit(hay[i+3], target)<<3 |
			eqBit(hay[i+4], target)<<4 |
			eqBit(hay[i+5], target)<<5 |
			eqBit(hay[i+6], target)<<6 |
			eqBit(hay[i+7], target)<<7
		if m != 0 {
			return i + bits.TrailingZeros32(m)
		}
	}
	for ; i < n; i++ {
		if hay[i] == target {
			return i
		}
	}
	return -1
}

func matchU64x4(hay []uint64, target uint64, from int) int {
	i, n := from, len(hay)
	for ; i+4 <= n; i += 4 {
		m := eqBit(hay[i], target) |
			eqBit(hay[i+1], target)<<1 |
			eqBit(hay[i+2], target)<<2 |
			eqBit(hay[i+3], target)<<3
		if m != 0 {
			return i + bits.TrailingZeros32(m)
		}
	}
	for ; i < n; i++ {
		if hay[i] == target {
			return i
		}
	}
	return -1
}
