package operator

import (
	"math/rand/v2"
	"testing"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/gpu"
)

// TestFixedFunctionEquivalence renders random samples with each mode that has
// a GPU blend state and with that state evaluated on premultiplied data.
func TestFixedFunctionEquivalence(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 22))
	roi := composite.Rect(0, 0, 16, 16)
	n := roi.Area()
	in := randomSamples(rng, n)
	aux := randomSamples(rng, n)
	mask := make([]float32, n)
	for i := range mask {
		mask[i] = rng.Float32()
	}

	for _, mode := range []composite.Mode{composite.ModeNormal, composite.ModeBehind, composite.ModeErase} {
		t.Run(mode.String(), func(t *testing.T) {
			state, ok := gpu.BlendState(mode)
			if !ok {
				t.Fatalf("%v has no blend state", mode)
			}
			const opacity = 0.7
			out := make([]float32, n*4)
			Lookup(mode)(in, aux, mask, out, opacity, roi)

			for i := range n {
				var src, dst composite.Sample
				copy(src[:], aux[i*4:i*4+4])
				copy(dst[:], in[i*4:i*4+4])
				src[composite.A] *= opacity * mask[i]
				gpu.Premultiply(src[:])
				gpu.Premultiply(dst[:])
				got := gpu.Eval(state, src, dst)
				gpu.Unpremultiply(got[:])

				var want composite.Sample
				copy(want[:], out[i*4:i*4+4])
				if want[composite.A] < 0.05 {
					// Colour of nearly transparent results is not recoverable from
					// premultiplied data at float32 precision.
					continue
				}
				if !sampleEqual(got, want, 1e-4) {
					t.Fatalf("sample %d: blend state gives %v, operator %v", i, got, want)
				}
			}
		})
	}
}
