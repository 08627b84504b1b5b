package fieldtape

import "github.com/hupe1980/fieldtape/internal/hash"

// SizeDynamic marks a type whose encoded byte width varies per value
// (strings, blobs). Fixed-width types carry their exact width so the
// fingerprint doubles as a layout check.
const SizeDynamic = -1

// Type describes the logical type of a stored value. The fingerprint is a
// function of both the name and the byte width, so two types that share a
// name but differ in width never fingerprint equal.
//
// Callers define their own types for application data:
//
//	var TypeVec3 = fieldtape.NewType("game.Vec3", 12)
type Type struct {
	Name string
	Size int
}

// NewType creates a type descriptor. Use SizeDynamic for variable-width
// encodings.
func NewType(name string, size int) Type {
	return Type{Name: name, Size: size}
}

// Fingerprint returns the 64-bit fingerprint of the type.
func (t Type) Fingerprint() uint64 {
	return hash.Fingerprint64Type(t.Name, t.Size)
}

// Dynamic reports whether the type has a per-value byte width.
func (t Type) Dynamic() bool {
	return t.Size == SizeDynamic
}

// Predeclared types for the fixed-width accessors. Encodings are
// little-endian.
var (
	TypeBool    = NewType("bool", 1)
	TypeUint16  = NewType("uint16", 2)
	TypeInt32   = NewType("int32", 4)
	TypeFloat32 = NewType("float32", 4)
	TypeInt64   = NewType("int64", 8)
	TypeUint64  = NewType("uint64", 8)
	TypeFloat64 = NewType("float64", 8)
	TypeString  = NewType("string", SizeDynamic)
	TypeBytes   = NewType("bytes", SizeDynamic)
)

// Handle is a row index into the field index, enabling O(1) re-access
// without a name lookup.
//
// Invalidation contract: a handle is valid only until the next Remove on
// any field of the same registry (including the implicit remove inside a
// size-changing Set). Removal swap-compacts, so the handle of the field
// that occupied the highest row becomes stale and must be re-resolved by
// name; the removed field's handle is permanently invalid; all other
// handles remain valid.
type Handle int
