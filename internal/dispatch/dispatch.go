// Package dispatch probes the CPU once at startup and picks the instruction
// level the vectorised operators are bound to.
//
// The level can be forced for testing and debugging:
//
//	COMPOSITE_NO_SIMD=1        scalar everywhere
//	COMPOSITE_DISPATCH=sse2    a specific level; unsupported levels fall back
//	                           along avx2 -> sse2 -> scalar and neon -> scalar
//
// The level is resolved during package initialisation and never changes
// afterwards, so reading it needs no synchronisation.
package dispatch

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Level is an instruction-set level a kernel variant is written for.
type Level int

const (
	// Scalar is plain Go, one sample at a time.
	Scalar Level = iota

	// SSE2 is 128-bit x86-64 (4 float32 lanes).
	SSE2

	// AVX2 is 256-bit x86-64 (8 float32 lanes).
	AVX2

	// NEON is 128-bit ARM64 (4 float32 lanes).
	NEON
)

// Environment variables read at startup.
const (
	EnvNoSIMD   = "COMPOSITE_NO_SIMD"
	EnvDispatch = "COMPOSITE_DISPATCH"
)

// ErrUnknownLevel is returned by ParseLevel for unrecognised names.
var ErrUnknownLevel = errors.New("dispatch: unknown level")

// String returns the lower-case name of the level.
func (l Level) String() string {
	switch l {
	case Scalar:
		return "scalar"
	case SSE2:
		return "sse2"
	case AVX2:
		return "avx2"
	case NEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Lanes returns the number of float32 lanes a kernel at this level
// processes per step.
func (l Level) Lanes() int {
	switch l {
	case SSE2, NEON:
		return 4
	case AVX2:
		return 8
	default:
		return 1
	}
}

// ParseLevel parses a level name as printed by String, ignoring case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar":
		return Scalar, nil
	case "sse2":
		return SSE2, nil
	case "avx2":
		return AVX2, nil
	case "neon":
		return NEON, nil
	}
	return Scalar, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// fallback returns the next level to try when l is not supported.
func fallback(l Level) Level {
	if l == AVX2 {
		return SSE2
	}
	return Scalar
}

// Supported reports whether this CPU can run kernels at level l.
func Supported(l Level) bool {
	return l == Scalar || supported(l)
}

// clamp walks the fallback chain from l to the first supported level.
func clamp(l Level) Level {
	for !Supported(l) {
		l = fallback(l)
	}
	return l
}

// Probe returns the best level this CPU supports, ignoring the environment.
func Probe() Level {
	return probe()
}

// Resolve applies the environment settings noSIMD and force to the probed
// level. An unparsable force value is reported as an error together with
// the level that is used instead.
func Resolve(probed Level, noSIMD, force string) (Level, error) {
	if noSIMD != "" {
		b, err := strconv.ParseBool(noSIMD)
		if err != nil || b {
			// Any non-boolean value counts as set.
			return Scalar, nil
		}
	}
	if force == "" {
		return probed, nil
	}
	l, err := ParseLevel(force)
	if err != nil {
		return probed, err
	}
	return clamp(l), nil
}

// Detect probes the CPU and applies the environment. Errors in the
// environment are returned alongside the level that is used instead.
func Detect() (Level, error) {
	return Resolve(probe(), os.Getenv(EnvNoSIMD), os.Getenv(EnvDispatch))
}

var (
	current    Level
	currentErr error
)

func init() {
	current, currentErr = Detect()
}

// Current returns the level selected at startup.
func Current() Level {
	return current
}

// EnvError returns the problem found in the environment at startup, if any.
func EnvError() error {
	return currentErr
}
