//go:build amd64

package dispatch

import "golang.org/x/sys/cpu"

func supported(l Level) bool {
	switch l {
	case SSE2:
		return cpu.X86.HasSSE2
	case AVX2:
		return cpu.X86.HasAVX2
	default:
		return false
	}
}

func probe() Level {
	switch {
	case cpu.X86.HasAVX2:
		return AVX2
	case cpu.X86.HasSSE2:
		return SSE2
	default:
		return Scalar
	}
}
