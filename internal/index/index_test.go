package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fieldtape/internal/hash"
)

func insertNamed(ix *Index, name string, offset, length, typeFP uint64) {
	ix.Insert(name, hash.Fingerprint64(name), offset, length, typeFP)
}

func TestFindHitAndMiss(t *testing.T) {
	ix := New(4)
	insertNamed(ix, "hp", 0, 4, 1)
	insertNamed(ix, "x", 4, 4, 1)
	insertNamed(ix, "name", 8, 5, 2)

	row, ok := ix.Find("x", hash.Fingerprint64("x"))
	require.True(t, ok)
	assert.Equal(t, 1, row)
	assert.Equal(t, uint64(4), ix.Offset(row))
	assert.Equal(t, uint64(4), ix.Length(row))

	_, ok = ix.Find("mp", hash.Fingerprint64("mp"))
	assert.False(t, ok)
}

func TestFindConfirmsNameOnFingerprintCollision(t *testing.T) {
	// Force a collision by inserting two distinct names under the same
	// fingerprint. Find must skip the impostor and land on the exact
	// name, or report a miss when only the impostor exists.
	ix := New(4)
	const collidingFP = uint64(0xDEADBEEFCAFEF00D)
	ix.Insert("impostor", collidingFP, 0, 4, 1)

	_, ok := ix.Find("victim", collidingFP)
	assert.False(t, ok, "fingerprint match without name match must be a miss")

	ix.Insert("victim", collidingFP, 4, 8, 2)
	row, ok := ix.Find("victim", collidingFP)
	require.True(t, ok)
	assert.Equal(t, 1, row)
	assert.Equal(t, uint64(4), ix.Offset(row))
}

func TestFindScansPastManyCollisions(t *testing.T) {
	ix := New(32)
	const fp = uint64(42)
	for i := 0; i < 20; i++ {
		ix.Insert(fmt.Sprintf("decoy-%d", i), fp, uint64(i*4), 4, 1)
	}
	ix.Insert("target", fp, 80, 4, 1)

	row, ok := ix.Find("target", fp)
	require.True(t, ok)
	assert.Equal(t, 20, row)
}

func TestRemoveSwapCompacts(t *testing.T) {
	ix := New(4)
	insertNamed(ix, "a", 0, 1, 1)
	insertNamed(ix, "b", 1, 2, 2)
	insertNamed(ix, "c", 3, 3, 3)

	ix.Remove(0)

	require.Equal(t, 2, ix.Rows())
	// The last row ("c") moved into slot 0; all of its columns moved
	// together.
	assert.Equal(t, "c", ix.Name(0))
	assert.Equal(t, uint64(3), ix.Offset(0))
	assert.Equal(t, uint64(3), ix.Length(0))
	assert.Equal(t, uint64(3), ix.TypeFP(0))
	assert.Equal(t, hash.Fingerprint64("c"), ix.NameFP(0))

	assert.Equal(t, "b", ix.Name(1))

	row, ok := ix.Find("c", hash.Fingerprint64("c"))
	require.True(t, ok)
	assert.Equal(t, 0, row)
}

func TestRemoveLastRow(t *testing.T) {
	ix := New(2)
	insertNamed(ix, "only", 0, 4, 1)
	ix.Remove(0)
	assert.Equal(t, 0, ix.Rows())

	_, ok := ix.Find("only", hash.Fingerprint64("only"))
	assert.False(t, ok)
}

func TestRelocate(t *testing.T) {
	ix := New(4)
	insertNamed(ix, "a", 0, 4, 1)
	insertNamed(ix, "b", 4, 4, 1)
	insertNamed(ix, "c", 8, 4, 1)
	insertNamed(ix, "d", 12, 4, 1)

	// Remove b's range [4,8) from the tape's perspective.
	ix.Relocate(4, 4)

	assert.Equal(t, uint64(0), ix.Offset(0), "offset before hole unchanged")
	assert.Equal(t, uint64(4), ix.Offset(1), "doomed row relocation is harmless")
	assert.Equal(t, uint64(4), ix.Offset(2))
	assert.Equal(t, uint64(8), ix.Offset(3))
}

func TestNamesRowOrder(t *testing.T) {
	ix := New(4)
	insertNamed(ix, "a", 0, 1, 1)
	insertNamed(ix, "b", 1, 1, 1)
	insertNamed(ix, "c", 2, 1, 1)

	assert.Equal(t, []string{"a", "b", "c"}, ix.Names())

	ix.Remove(0)
	assert.Equal(t, []string{"c", "b"}, ix.Names())
}

func TestReset(t *testing.T) {
	ix := New(4)
	insertNamed(ix, "a", 0, 1, 1)
	ix.Reset()
	assert.Equal(t, 0, ix.Rows())
	_, ok := ix.Find("a", hash.Fingerprint64("a"))
	assert.False(t, ok)
}
