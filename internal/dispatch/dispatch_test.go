package dispatch

import (
	"errors"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
		lanes int
	}{
		{Scalar, "scalar", 1},
		{SSE2, "sse2", 4},
		{AVX2, "avx2", 8},
		{NEON, "neon", 4},
		{Level(99), "unknown", 1},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.level.Lanes(); got != tt.lanes {
				t.Errorf("Lanes() = %d, want %d", got, tt.lanes)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{Scalar, SSE2, AVX2, NEON} {
		got, err := ParseLevel(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLevel(%q) = %v, %v", l.String(), got, err)
		}
	}

	if got, err := ParseLevel(" AVX2 "); err != nil || got != AVX2 {
		t.Errorf("ParseLevel(\" AVX2 \") = %v, %v", got, err)
	}

	if _, err := ParseLevel("avx512"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("ParseLevel(avx512) error = %v, want ErrUnknownLevel", err)
	}
}

func TestResolve(t *testing.T) {
	probed := Probe()

	tests := []struct {
		name    string
		noSIMD  string
		force   string
		want    Level
		wantErr bool
	}{
		{"no env", "", "", probed, false},
		{"no simd true", "1", "", Scalar, false},
		{"no simd wins over force", "true", "avx2", Scalar, false},
		{"no simd garbage counts as set", "yes please", "", Scalar, false},
		{"no simd false", "0", "", probed, false},
		{"force scalar", "", "scalar", Scalar, false},
		{"force unknown", "", "mmx", probed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(probed, tt.noSIMD, tt.force)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_ForcedLevelIsSupported(t *testing.T) {
	for _, name := range []string{"scalar", "sse2", "avx2", "neon"} {
		got, err := Resolve(Probe(), "", name)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", name, err)
		}
		if !Supported(got) {
			t.Errorf("Resolve(%q) = %v, which this CPU does not support", name, got)
		}
	}
}

func TestProbeSupported(t *testing.T) {
	if !Supported(Probe()) {
		t.Errorf("Probe() = %v is not Supported", Probe())
	}
	if !Supported(Scalar) {
		t.Error("Scalar must always be supported")
	}
}

func TestCurrentIsStable(t *testing.T) {
	first := Current()
	for range 10 {
		if Current() != first {
			t.Fatal("Current() changed between calls")
		}
	}
	if !Supported(first) {
		t.Errorf("Current() = %v is not supported", first)
	}
}

func TestClampChain(t *testing.T) {
	for _, l := range []Level{Scalar, SSE2, AVX2, NEON} {
		got := clamp(l)
		if !Supported(got) {
			t.Errorf("clamp(%v) = %v, unsupported", l, got)
		}
		if Supported(l) && got != l {
			t.Errorf("clamp(%v) = %v, want unchanged", l, got)
		}
	}
}
