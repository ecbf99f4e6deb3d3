package operator

import (
	"github.com/gogpu/composite"
	"github.com/gogpu/composite/internal/wide"
)

// normal8 runs the Normal kernel on 8 samples per step (AVX2 width) and
// finishes the tail with the scalar kernel.
func normal8(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
	n := checkArgs(in, aux, mask, out, roi)

	op := wide.SplatF32(opacity)
	one := wide.SplatF32(1)
	zero := wide.SplatF32(0)

	i := 0
	for ; i+8 <= n; i += 8 {
		p := i * 4
		src := aux[p : p+32]
		dst := in[p : p+32]

		var m []float32
		if mask != nil {
			m = mask[i : i+8]
		}

		auxA := wide.LoadChannel8(src, 3).Mul(op).Mul(wide.LoadMask8(m))
		inW := wide.LoadChannel8(dst, 3).Mul(one.Sub(auxA))
		outA := auxA.Add(inW)
		t := auxA.DivOr(outA, zero)
		u := one.Sub(t)

		// Load every channel before storing: out may alias in.
		r := wide.LoadChannel8(src, 0).Mul(t).Add(wide.LoadChannel8(dst, 0).Mul(u))
		g := wide.LoadChannel8(src, 1).Mul(t).Add(wide.LoadChannel8(dst, 1).Mul(u))
		b := wide.LoadChannel8(src, 2).Mul(t).Add(wide.LoadChannel8(dst, 2).Mul(u))

		o := out[p : p+32]
		r.StoreChannel(o, 0)
		g.StoreChannel(o, 1)
		b.StoreChannel(o, 2)
		outA.StoreChannel(o, 3)
	}
	normalRun(in, aux, mask, out, opacity, i, n)
}

// normal4 is normal8 at 4 samples per step (SSE2 and NEON width).
func normal4(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
	n := checkArgs(in, aux, mask, out, roi)

	op := wide.SplatF32x4(opacity)
	one := wide.SplatF32x4(1)
	zero := wide.SplatF32x4(0)

	i := 0
	for ; i+4 <= n; i += 4 {
		p := i * 4
		src := aux[p : p+16]
		dst := in[p : p+16]

		var m []float32
		if mask != nil {
			m = mask[i : i+4]
		}

		auxA := wide.LoadChannel4(src, 3).Mul(op).Mul(wide.LoadMask4(m))
		inW := wide.LoadChannel4(dst, 3).Mul(one.Sub(auxA))
		outA := auxA.Add(inW)
		t := auxA.DivOr(outA, zero)
		u := one.Sub(t)

		r := wide.LoadChannel4(src, 0).Mul(t).Add(wide.LoadChannel4(dst, 0).Mul(u))
		g := wide.LoadChannel4(src, 1).Mul(t).Add(wide.LoadChannel4(dst, 1).Mul(u))
		b := wide.LoadChannel4(src, 2).Mul(t).Add(wide.LoadChannel4(dst, 2).Mul(u))

		o := out[p : p+16]
		r.StoreChannel(o, 0)
		g.StoreChannel(o, 1)
		b.StoreChannel(o, 2)
		outA.StoreChannel(o, 3)
	}
	normalRun(in, aux, mask, out, opacity, i, n)
}
