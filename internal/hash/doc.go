// Package hash provides the fingerprint and checksum primitives used by
// the field registry.
//
// # Fingerprints
//
// Field names and type descriptors are fingerprinted with FNV-1a (64-bit).
// The function is deterministic across processes, which matters because a
// blit's schema may be decoded by a different registry instance than the
// one that produced it. Fingerprints are an acceleration, not an identity:
// a fingerprint match must always be confirmed by an exact comparison of
// the underlying name.
//
// # CRC32-Castagnoli (CRC32C)
//
// Blit framing uses CRC32C, hardware accelerated on x86 (SSE4.2) and ARM
// (CRC extension) through the standard library.
package hash
