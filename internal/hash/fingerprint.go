package hash

// FNV-1a 64-bit parameters.
const (
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

// Fingerprint64 returns the FNV-1a 64-bit hash of s.
//
// Unlike hash/maphash, the result does not depend on a per-process seed,
// so fingerprints stored in a blit schema remain comparable after decode.
func Fingerprint64(s string) uint64 {
	h := fnvOffset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

// Fingerprint64Type fingerprints a type descriptor. The hash covers the
// type name, a separator, and the byte width (as a little-endian int64,
// so a dynamic-width marker of -1 stays distinct from every real width).
// Making the width part of the fingerprint turns the registry's type
// check into a size+layout check.
func Fingerprint64Type(name string, width int) uint64 {
	h := fnvOffset64
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= fnvPrime64
	}
	// FNV-1a step for the NUL separator; xor with 0 is the identity.
	h *= fnvPrime64
	w := uint64(int64(width))
	for i := 0; i < 8; i++ {
		h ^= (w >> (8 * i)) & 0xFF
		h *= fnvPrime64
	}
	return h
}

// Fingerprint64Bytes is Fingerprint64 for a byte slice.
func Fingerprint64Bytes(b []byte) uint64 {
	h := fnvOffset64
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}
