//go:build arm64

package simd

func init() {
	// ASIMD (NEON) is architecturally mandatory on arm64, and darwin does
	// not populate the hwcap-derived flags in x/sys/cpu.
	hasASIMD = true
	initCapabilities()
}
