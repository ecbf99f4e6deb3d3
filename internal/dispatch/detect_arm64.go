//go:build arm64

package dispatch

import "golang.org/x/sys/cpu"

// NEON (ASIMD) is part of the ARMv8-A base architecture; the flag is still
// checked so a restricted environment can report it missing.
func supported(l Level) bool {
	return l == NEON && cpu.ARM64.HasASIMD
}

func probe() Level {
	if cpu.ARM64.HasASIMD {
		return NEON
	}
	return Scalar
}
