package operator

import "github.com/gogpu/composite"

// Erase lowers input alpha in proportion to the layer alpha:
// out.a = in.a - in.a*aux.a*opacity*mask. Colour passes through.
func Erase(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
	n := checkArgs(in, aux, mask, out, roi)
	for i := range n {
		p := i * 4
		value := opacity * maskAt(mask, i)
		inA := in[p+3]

		out[p] = in[p]
		out[p+1] = in[p+1]
		out[p+2] = in[p+2]
		out[p+3] = inA - inA*aux[p+3]*value
	}
}

// AntiErase raises input alpha by the over law, restoring what Erase
// removed. Colour passes through.
func AntiErase(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
	n := checkArgs(in, aux, mask, out, roi)
	for i := range n {
		p := i * 4
		auxA := aux[p+3] * opacity * maskAt(mask, i)
		inA := in[p+3]

		out[p] = in[p]
		out[p+1] = in[p+1]
		out[p+2] = in[p+2]
		out[p+3] = auxA + inA*(1-auxA)
	}
}

// ColorErase removes the layer colour from the input, turning it into
// transparency the way colour-to-alpha does, and mixes the result with the
// input by the attenuated layer alpha.
func ColorErase(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
	n := checkArgs(in, aux, mask, out, roi)
	for i := range n {
		p := i * 4
		auxA := aux[p+3] * opacity * maskAt(mask, i)
		inA := in[p+3]

		var erased [3]float32
		alpha := float32(0)
		for b := range 3 {
			alpha = max(alpha, eraseAlpha(in[p+b], aux[p+b]))
		}
		for b := range 3 {
			if alpha > 0 {
				erased[b] = (in[p+b]-aux[p+b])/alpha + aux[p+b]
			} else {
				erased[b] = in[p+b]
			}
		}

		// Premultiplied mix of the input and its erased version.
		keepA := inA * (1 - auxA)
		eraseA := inA * alpha * auxA
		outA := keepA + eraseA

		for b := range 3 {
			if outA > 0 {
				out[p+b] = (in[p+b]*keepA + erased[b]*eraseA) / outA
			} else {
				out[p+b] = in[p+b]
			}
		}
		out[p+3] = outA
	}
}

// eraseAlpha is the alpha one channel needs so that compositing the erase
// colour c under a pixel of value v reproduces v.
func eraseAlpha(v, c float32) float32 {
	switch {
	case v > c:
		if c >= 1 {
			return 1
		}
		return (v - c) / (1 - c)
	case v < c:
		if c <= 0 {
			return 1
		}
		return (c - v) / c
	default:
		return 0
	}
}
