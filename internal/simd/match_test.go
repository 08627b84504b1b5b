package simd

import "testing"

// matchRef is the trivially correct scalar reference.
func matchRef(hay []uint64, target uint64, from int) int {
	for i := from; i < len(hay); i++ {
		if hay[i] == target {
			return i
		}
	}
	return -1
}

func TestMatchUint64(t *testing.T) {
	tests := []struct {
		name   string
		hay    []uint64
		target uint64
		from   int
		want   int
	}{
		{name: "Empty", hay: nil, target: 7, from: 0, want: -1},
		{name: "Single hit", hay: []uint64{7}, target: 7, from: 0, want: 0},
		{name: "Single miss", hay: []uint64{9}, target: 7, from: 0, want: -1},
		{name: "Hit in first block", hay: []uint64{1, 2, 3, 7, 5, 6, 7, 8}, target: 7, from: 0, want: 3},
		{name: "Second hit after from", hay: []uint64{1, 2, 3, 7, 5, 6, 7, 8}, target: 7, from: 4, want: 6},
		{name: "Hit in remainder", hay: []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 7}, target: 7, from: 7, want: 9},
		{name: "From beyond length", hay: []uint64{1, 2, 3}, target: 2, from: 5, want: -1},
		{name: "Negative from clamps", hay: []uint64{4, 5}, target: 4, from: -2, want: 0},
		{name: "Duplicate lanes prefer lowest", hay: []uint64{7, 7, 7, 7, 7, 7, 7, 7, 7}, target: 7, from: 2, want: 2},
		{name: "Zero target", hay: []uint64{1, 0, 2}, target: 0, from: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchUint64(tt.hay, tt.target, tt.from); got != tt.want {
				t.Errorf("MatchUint64() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMatchKernelsAgreeWithReference(t *testing.T) {
	// Exercise every length mod 8 so both block paths and the scalar
	// remainder are covered for each kernel.
	kernels := map[string]func([]uint64, uint64, int) int{
		"x4": matchU64x4,
		"x8": matchU64x8,
	}
	for n := 0; n <= 33; n++ {
		hay := make([]uint64, n)
		for i := range hay {
			hay[i] = uint64(i % 5)
		}
		for from := 0; from <= n; from++ {
			for target := uint64(0); target < 6; target++ {
				want := matchRef(hay, target, from)
				for name, k := range kernels {
					if from >= n {
						continue // kernels are called through MatchUint64's clamp
					}
					if got := k(hay, target, from); got != want {
						t.Fatalf("kernel %s n=%d from=%d target=%d: got %d, want %d", name, n, from, target, got, want)
					}
				}
			}
		}
	}
}

func BenchmarkMatchUint64(b *testing.B) {
	hay := make([]uint64, 256)
	for i := range hay {
		hay[i] = uint64(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MatchUint64(hay, 255, 0)
	}
}
