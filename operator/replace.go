package operator

import "github.com/gogpu/composite"

// Replace moves the input towards the layer by the attenuated layer weight,
// alpha included:
//
//	new_a = (aux.a - in.a)*mask*opacity + in.a
//	ratio = mask*opacity*aux.a / new_a
//	out.c = in.c moved towards aux.c by |aux.c - in.c|*ratio
//
// The move never overshoots aux.c. When new_a is 0 colour passes through.
func Replace(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
	n := checkArgs(in, aux, mask, out, roi)
	for i := range n {
		p := i * 4
		w := maskAt(mask, i) * opacity
		inA, auxA := in[p+3], aux[p+3]

		// Same as (auxA-inA)*w + inA, but exact at w == 0 and w == 1.
		newA := auxA*w + inA*(1-w)
		if newA == 0 {
			out[p] = in[p]
			out[p+1] = in[p+1]
			out[p+2] = in[p+2]
			out[p+3] = 0
			continue
		}

		ratio := w * auxA / newA
		for b := range 3 {
			out[p+b] = moveToward(in[p+b], aux[p+b], ratio)
		}
		out[p+3] = newA
	}
}

// moveToward returns from moved towards to by |to-from|*ratio, clamped at to.
func moveToward(from, to, ratio float32) float32 {
	if ratio >= 1 {
		return to
	}
	if to > from {
		return min(from+(to-from)*ratio, to)
	}
	return max(from-(from-to)*ratio, to)
}
