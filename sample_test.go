package composite

import "testing"

func TestSampleConstructors(t *testing.T) {
	if got := RGBA(0.1, 0.2, 0.3, 0.4); got != (Sample{0.1, 0.2, 0.3, 0.4}) {
		t.Errorf("RGBA() = %v", got)
	}
	if got := Opaque(0.5, 0.6, 0.7); got[A] != 1 || got[R] != 0.5 {
		t.Errorf("Opaque() = %v", got)
	}
	if Transparent[A] != 0 {
		t.Errorf("Transparent alpha = %v", Transparent[A])
	}
}

func TestRegionIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Region
		want Region
	}{
		{"overlap", Rect(0, 0, 10, 10), Rect(5, 5, 10, 10), Rect(5, 5, 5, 5)},
		{"contained", Rect(0, 0, 10, 10), Rect(2, 3, 4, 5), Rect(2, 3, 4, 5)},
		{"disjoint", Rect(0, 0, 10, 10), Rect(20, 20, 5, 5), Region{}},
		{"touching edge", Rect(0, 0, 10, 10), Rect(10, 0, 5, 5), Region{}},
		{"negative", Rect(-5, -5, 10, 10), Rect(-10, 0, 8, 8), Rect(-5, 0, 3, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
			if got := tt.a.Overlaps(tt.b); got != !tt.want.Empty() {
				t.Errorf("Overlaps() = %v", got)
			}
		})
	}
}

func TestRegionUnion(t *testing.T) {
	a := Rect(0, 0, 4, 4)
	b := Rect(10, -2, 2, 2)
	if got, want := a.Union(b), Rect(0, -2, 12, 6); got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
	if got := a.Union(Region{}); got != a {
		t.Errorf("Union(empty) = %v, want %v", got, a)
	}
	if got := (Region{}).Union(b); got != b {
		t.Errorf("empty.Union() = %v, want %v", got, b)
	}
}

func TestRegionQueries(t *testing.T) {
	r := Rect(2, 3, 4, 5)

	if r.Area() != 20 || r.MaxX() != 6 || r.MaxY() != 8 {
		t.Errorf("Area/MaxX/MaxY = %d/%d/%d", r.Area(), r.MaxX(), r.MaxY())
	}
	if !r.Contains(2, 3) || r.Contains(6, 3) || r.Contains(2, 8) {
		t.Error("Contains() edges wrong")
	}
	if !r.ContainsRegion(Rect(3, 4, 1, 1)) || r.ContainsRegion(Rect(0, 0, 3, 3)) {
		t.Error("ContainsRegion() wrong")
	}
	if !r.ContainsRegion(Region{}) {
		t.Error("empty region should be contained")
	}
	if (Rect(0, 0, -1, 5)).Area() != 0 {
		t.Error("negative width should have zero area")
	}
	if got := r.Translate(-2, 1); got != Rect(0, 4, 4, 5) {
		t.Errorf("Translate() = %v", got)
	}
	if got := r.String(); got != "4x5+2+3" {
		t.Errorf("String() = %q", got)
	}
	if got := Rect(-1, -2, 3, 3).String(); got != "3x3-1-2" {
		t.Errorf("String() = %q", got)
	}
}
