package random

import (
	"math"
	"testing"
)

func TestBuild_Deterministic(t *testing.T) {
	a := Build(MasterSeed)
	b := Build(MasterSeed)
	if *a != *b {
		t.Fatal("Build(MasterSeed) produced two different tables")
	}

	c := Build(MasterSeed + 1)
	if *a == *c {
		t.Error("different master seeds produced the same table")
	}
}

func TestDefault(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() should return the same table every time")
	}
	if *Default() != *Build(MasterSeed) {
		t.Error("Default() differs from Build(MasterSeed)")
	}
}

func TestBuild_NotDegenerate(t *testing.T) {
	tab := Build(MasterSeed)
	seen := make(map[uint32]bool, Size)
	for y := range Size {
		seen[tab.Seed(y)] = true
	}
	if len(seen) < Size-2 {
		t.Errorf("table has %d distinct seeds, want about %d", len(seen), Size)
	}
}

func TestSeed_Wraps(t *testing.T) {
	tab := Default()
	tests := []struct {
		y, same int
	}{
		{Size, 0},
		{Size + 17, 17},
		{3*Size + 5, 5},
		{-1, Size - 1},
		{-Size, 0},
		{-Size - 3, Size - 3},
	}

	for _, tt := range tests {
		if tab.Seed(tt.y) != tab.Seed(tt.same) {
			t.Errorf("Seed(%d) != Seed(%d)", tt.y, tt.same)
		}
	}
}

func TestRow_SameSeedSameStream(t *testing.T) {
	tab := Default()
	a := tab.Row(42)
	b := tab.Row(42 + Size)
	for i := range 100 {
		if x, y := a.Uint32(), b.Uint32(); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}

func TestRow_Skip(t *testing.T) {
	a := NewRow(7)
	b := NewRow(7)

	for range 13 {
		a.Uint32()
	}
	b.Skip(13)
	b.Skip(0)
	b.Skip(-4)

	for i := range 50 {
		if x, y := a.Uint32(), b.Uint32(); x != y {
			t.Fatalf("draw %d after skip: %d != %d", i, x, y)
		}
	}
}

func TestRow_RangeBounds(t *testing.T) {
	r := NewRow(MasterSeed)
	for _, n := range []uint32{1, 2, 255, 256, 1000, 1 << 31} {
		for range 1000 {
			if v := r.Range(n); v >= n {
				t.Fatalf("Range(%d) = %d", n, v)
			}
		}
	}
}

func TestRow_RangeUniform(t *testing.T) {
	const n, draws = 255, 255 * 2000
	var counts [n]int

	r := NewRow(123)
	for range draws {
		counts[r.Range(n)]++
	}

	// Chi-square with 254 degrees of freedom; well above the 99.9th percentile.
	expected := float64(draws) / n
	var chi2 float64
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	if chi2 > 360 || math.IsNaN(chi2) {
		t.Errorf("chi-square = %.1f, distribution looks biased", chi2)
	}
}

func TestRow_RangePanics(t *testing.T) {
	for _, n := range []uint32{0, 1<<31 + 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Range(%d) did not panic", n)
				}
			}()
			r := NewRow(1)
			r.Range(n)
		}()
	}
}

func BenchmarkRow_Range(b *testing.B) {
	r := NewRow(MasterSeed)
	var sink uint32
	for b.Loop() {
		sink += r.Range(255)
	}
	_ = sink
}

func TestLeftRowDiffersFromRow(t *testing.T) {
	tab := Default()
	a := tab.Row(9)
	b := tab.LeftRow(9)
	same := 0
	for range 32 {
		if a.Uint32() == b.Uint32() {
			same++
		}
	}
	if same > 1 {
		t.Errorf("LeftRow and Row share %d of 32 draws", same)
	}
}
