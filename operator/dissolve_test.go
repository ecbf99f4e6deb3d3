package operator

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/internal/dispatch"
)

// renderTiled runs f over roi split into tiles of tw x th and assembles the
// result in roi layout.
func renderTiled(f Func, in, aux []float32, opacity float32, roi composite.Region, tw, th int) []float32 {
	out := make([]float32, len(in))
	for ty := roi.Y; ty < roi.MaxY(); ty += th {
		for tx := roi.X; tx < roi.MaxX(); tx += tw {
			tile := composite.Rect(tx, ty, tw, th).Intersect(roi)
			tin := extract(in, roi, tile)
			taux := extract(aux, roi, tile)
			tout := make([]float32, len(tin))
			f(tin, taux, nil, tout, opacity, tile)
			insert(out, roi, tout, tile)
		}
	}
	return out
}

func extract(src []float32, from, sub composite.Region) []float32 {
	dst := make([]float32, 0, sub.Area()*4)
	for y := sub.Y; y < sub.MaxY(); y++ {
		off := ((y-from.Y)*from.Width + (sub.X - from.X)) * 4
		dst = append(dst, src[off:off+sub.Width*4]...)
	}
	return dst
}

func insert(dst []float32, into composite.Region, src []float32, sub composite.Region) {
	for y := sub.Y; y < sub.MaxY(); y++ {
		off := ((y-into.Y)*into.Width + (sub.X - into.X)) * 4
		row := (y - sub.Y) * sub.Width * 4
		copy(dst[off:off+sub.Width*4], src[row:row+sub.Width*4])
	}
}

func TestDissolveTilingInvariance(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	roi := composite.Rect(13, 4090, 97, 23) // crosses the table wrap at 4096
	in := randomSamples(rng, roi.Area())
	aux := randomSamples(rng, roi.Area())

	whole := make([]float32, len(in))
	Dissolve(in, aux, nil, whole, 0.7, roi)

	for _, size := range [][2]int{{1, 1}, {7, 3}, {16, 16}, {64, 1}, {1, 64}, {50, 11}} {
		tiled := renderTiled(Dissolve, in, aux, 0.7, roi, size[0], size[1])
		for i := range whole {
			if math.Float32bits(whole[i]) != math.Float32bits(tiled[i]) {
				t.Fatalf("tiles %dx%d: float %d differs: %v != %v", size[0], size[1], i, tiled[i], whole[i])
			}
		}
	}
}

func TestDissolveTilingInvarianceNegativeOrigin(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 18))
	roi := composite.Rect(-45, -3, 90, 9)
	in := randomSamples(rng, roi.Area())
	aux := randomSamples(rng, roi.Area())

	whole := make([]float32, len(in))
	Dissolve(in, aux, nil, whole, 0.4, roi)

	for _, size := range [][2]int{{1, 1}, {10, 2}, {33, 9}} {
		tiled := renderTiled(Dissolve, in, aux, 0.4, roi, size[0], size[1])
		for i := range whole {
			if whole[i] != tiled[i] {
				t.Fatalf("tiles %dx%d: float %d differs", size[0], size[1], i)
			}
		}
	}
}

func TestDissolveRepeatable(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	roi := composite.Rect(-20, -5, 40, 10)
	in := randomSamples(rng, roi.Area())
	aux := randomSamples(rng, roi.Area())

	a := make([]float32, len(in))
	b := make([]float32, len(in))
	Dissolve(in, aux, nil, a, 0.5, roi)
	Dissolve(in, aux, nil, b, 0.5, roi)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("float %d differs between runs", i)
		}
	}
}

func TestDissolveRowsRepeatEvery4096(t *testing.T) {
	in := composite.Sample{0, 0, 0, 1}
	aux := composite.Sample{1, 1, 1, 0.5}

	for x := range 64 {
		a := ApplyAt(composite.ModeDissolve, in, aux, nil, 1, x, 17)
		b := ApplyAt(composite.ModeDissolve, in, aux, nil, 1, x, 17+4096)
		if a != b {
			t.Fatalf("pixel (%d, 17) and (%d, %d) differ", x, x, 17+4096)
		}
	}
}

func TestDissolveConvergence(t *testing.T) {
	const w, h = 512, 256
	roi := composite.Rect(0, 0, w, h)

	for _, alpha := range []float32{0.1, 0.5, 0.9} {
		in := make([]float32, w*h*4)
		aux := make([]float32, w*h*4)
		for i := range w * h {
			in[i*4+3] = 1
			aux[i*4] = 1
			aux[i*4+3] = alpha
		}

		out := make([]float32, len(in))
		Dissolve(in, aux, nil, out, 1, roi)

		replaced := 0
		for i := range w * h {
			if out[i*4] == 1 {
				replaced++
			}
		}

		// v = alpha*255; draws are integers in [0, 255) and replace when
		// draw < v, i.e. ceil(v) of 255 values.
		want := math.Ceil(float64(alpha)*255) / 255
		got := float64(replaced) / (w * h)
		if math.Abs(got-want) > 0.01 {
			t.Errorf("alpha %v: replaced fraction %.4f, want %.4f", alpha, got, want)
		}
	}
}

func TestDissolveExtremes(t *testing.T) {
	in := composite.Sample{0.1, 0.2, 0.3, 0.4}
	aux := composite.Sample{0.9, 0.8, 0.7, 1}

	for x := range 100 {
		if got := ApplyAt(composite.ModeDissolve, in, aux, nil, 0, x, x); got != in {
			t.Fatalf("opacity 0 at %d: %v, want input", x, got)
		}
		want := composite.Sample{0.9, 0.8, 0.7, 1}
		if got := ApplyAt(composite.ModeDissolve, in, aux, nil, 1, x, x); got != want {
			t.Fatalf("full layer at %d: %v, want %v", x, got, want)
		}
		zero := float32(0)
		if got := ApplyAt(composite.ModeDissolve, in, aux, &zero, 1, x, x); got != in {
			t.Fatalf("mask 0 at %d: %v, want input", x, got)
		}
	}
}

func TestNormalVariantsAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(15, 16))

	// Widths that exercise full vector steps and scalar tails.
	for _, width := range []int{1, 3, 4, 7, 8, 9, 16, 31, 64} {
		roi := composite.Rect(5, 9, width, 3)
		n := roi.Area()
		in := randomSamples(rng, n)
		aux := randomSamples(rng, n)
		mask := make([]float32, n)
		for i := range mask {
			mask[i] = rng.Float32()
		}
		// Transparent pairs hit the zero-alpha branch.
		in[3], aux[3] = 0, 0

		for _, m := range [][]float32{nil, mask} {
			ref := make([]float32, n*4)
			normalScalar(in, aux, m, ref, 0.65, roi)

			for _, v := range []Func{normal4, normal8} {
				got := make([]float32, n*4)
				v(in, aux, m, got, 0.65, roi)
				for i := range ref {
					if !approxEqual(got[i], ref[i], tolerance) {
						t.Fatalf("width %d: float %d = %v, scalar %v", width, i, got[i], ref[i])
					}
				}
			}
		}
	}
}

func TestNormalVariantSelection(t *testing.T) {
	if NormalVariant(NormalLevel()) == nil {
		t.Fatal("no Normal variant for the current level")
	}

	in := composite.Sample{0.2, 0.2, 0.2, 1}
	aux := composite.Sample{0.8, 0.8, 0.8, 1}
	want := composite.Sample{0.5, 0.5, 0.5, 1}
	for level := range 4 {
		var out composite.Sample
		NormalVariant(dispatch.Level(level))(in[:], aux[:], nil, out[:], 0.5, composite.Rect(0, 0, 1, 1))
		if !sampleEqual(out, want, 1e-6) {
			t.Errorf("level %d: %v, want %v", level, out, want)
		}
	}
}

func BenchmarkNormalVariants(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	roi := composite.Rect(0, 0, 64, 64)
	in := randomSamples(rng, roi.Area())
	aux := randomSamples(rng, roi.Area())
	out := make([]float32, len(in))

	for _, v := range []struct {
		name string
		f    Func
	}{{"scalar", normalScalar}, {"x4", normal4}, {"x8", normal8}} {
		b.Run(v.name, func(b *testing.B) {
			for b.Loop() {
				v.f(in, aux, nil, out, 0.8, roi)
			}
		})
	}
}

func BenchmarkDissolve(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	roi := composite.Rect(100, 100, 64, 64)
	in := randomSamples(rng, roi.Area())
	aux := randomSamples(rng, roi.Area())
	out := make([]float32, len(in))

	for b.Loop() {
		Dissolve(in, aux, nil, out, 0.5, roi)
	}
}
