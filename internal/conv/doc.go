// Package conv provides checked integer conversions for the boundaries
// where byte counts cross between int-sized slice lengths and the uint64
// offsets used by the tape and blit framing.
package conv
