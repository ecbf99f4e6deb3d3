package operator

import (
	"github.com/gogpu/composite"
	"github.com/gogpu/composite/internal/dispatch"
)

// normalImpl is the Normal variant chosen for this CPU. It is bound during
// package initialisation and never reassigned.
var normalImpl = NormalVariant(dispatch.Current())

// Normal composites the layer over the input:
//
//	α     = aux.a * opacity * mask
//	out.a = α + in.a*(1-α)
//	out.c = aux.c*t + in.c*(1-t), t = α/out.a   (t = 0 when out.a == 0)
//
// which is the weighted mean (aux.c*α + in.c*in.a*(1-α)) / out.a written so
// that α = 0 returns in and α = 1 returns aux exactly.
//
// Normal runs the variant selected for this CPU at startup.
func Normal(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
	normalImpl(in, aux, mask, out, opacity, roi)
}

// NormalVariant returns the Normal kernel written for level. Levels without
// a dedicated kernel get the scalar one. All variants agree within float32
// rounding.
func NormalVariant(level dispatch.Level) Func {
	switch level {
	case dispatch.AVX2:
		return normal8
	case dispatch.SSE2, dispatch.NEON:
		return normal4
	default:
		return normalScalar
	}
}

// NormalLevel returns the level of the Normal variant bound at startup.
func NormalLevel() dispatch.Level {
	return dispatch.Current()
}

func normalScalar(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
	n := checkArgs(in, aux, mask, out, roi)
	normalRun(in, aux, mask, out, opacity, 0, n)
}

// normalRun applies the scalar kernel to samples [from, to).
func normalRun(in, aux, mask, out []float32, opacity float32, from, to int) {
	for i := from; i < to; i++ {
		p := i * 4
		auxA := aux[p+3] * opacity * maskAt(mask, i)
		inW := float32(in[p+3] * (1 - auxA))
		outA := auxA + inW

		var t float32
		if outA != 0 {
			t = auxA / outA
		}
		u := 1 - t

		// Products are rounded explicitly so no fused multiply-add is
		// emitted: the wide kernels must match this loop bit for bit.
		out[p] = float32(aux[p]*t) + float32(in[p]*u)
		out[p+1] = float32(aux[p+1]*t) + float32(in[p+1]*u)
		out[p+2] = float32(aux[p+2]*t) + float32(in[p+2]*u)
		out[p+3] = outA
	}
}

// mix is the Normal mixing step for one sample with an arbitrary source
// colour: the layer colour of a blend mode after its channel algebra.
func mix(in, src []float32, out []float32, auxA float32) {
	inW := float32(in[3] * (1 - auxA))
	outA := auxA + inW

	var t float32
	if outA != 0 {
		t = auxA / outA
	}
	u := 1 - t

	out[0] = src[0]*t + in[0]*u
	out[1] = src[1]*t + in[1]*u
	out[2] = src[2]*t + in[2]*u
	out[3] = outA
}

// Behind composites the input over the layer: the layer only shows where
// the input is transparent. Alpha follows the same over law as Normal.
func Behind(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
	n := checkArgs(in, aux, mask, out, roi)
	for i := range n {
		p := i * 4
		auxA := aux[p+3] * opacity * maskAt(mask, i)
		inA := in[p+3]
		outA := inA + auxA*(1-inA)

		s := float32(1)
		if outA != 0 {
			s = inA / outA
		}
		u := 1 - s

		out[p] = in[p]*s + aux[p]*u
		out[p+1] = in[p+1]*s + aux[p+1]*u
		out[p+2] = in[p+2]*s + aux[p+2]*u
		out[p+3] = outA
	}
}
