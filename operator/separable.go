package operator

import "github.com/gogpu/composite"

// Term is the channel algebra of a separable mode: the blended value of one
// colour channel given the input value i and the layer value a.
type Term func(i, a float32) float32

// separableTerms lists the separable modes.
var separableTerms = map[composite.Mode]Term{
	composite.ModeMultiply:     multiply,
	composite.ModeScreen:       screen,
	composite.ModeOverlay:      overlay,
	composite.ModeDifference:   difference,
	composite.ModeAddition:     addition,
	composite.ModeSubtract:     subtract,
	composite.ModeDarkenOnly:   darkenOnly,
	composite.ModeLightenOnly:  lightenOnly,
	composite.ModeDivide:       divide,
	composite.ModeDodge:        dodge,
	composite.ModeBurn:         burn,
	composite.ModeHardLight:    hardLight,
	composite.ModeSoftLight:    softLight,
	composite.ModeGrainExtract: grainExtract,
	composite.ModeGrainMerge:   grainMerge,
}

// Separable builds the operator of a separable mode. The blended channel
// only applies where the input is opaque; over transparent input the layer
// colour shows unchanged:
//
//	src.c = (1-in.a)*aux.c + in.a*term(in.c, aux.c)
//
// src is then mixed over the input exactly like Normal.
func Separable(term Term) Func {
	return func(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
		n := checkArgs(in, aux, mask, out, roi)
		var src [3]float32
		for i := range n {
			p := i * 4
			inA := in[p+3]
			for b := range 3 {
				src[b] = (1-inA)*aux[p+b] + inA*term(in[p+b], aux[p+b])
			}
			mix(in[p:p+4], src[:], out[p:p+4], aux[p+3]*opacity*maskAt(mask, i))
		}
	}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func multiply(i, a float32) float32 { return i * a }

func screen(i, a float32) float32 { return 1 - (1-i)*(1-a) }

func overlay(i, a float32) float32 {
	if i <= 0.5 {
		return 2 * i * a
	}
	return 1 - 2*(1-i)*(1-a)
}

func difference(i, a float32) float32 {
	if i > a {
		return i - a
	}
	return a - i
}

func addition(i, a float32) float32 { return min(i+a, 1) }

func subtract(i, a float32) float32 { return max(i-a, 0) }

func darkenOnly(i, a float32) float32 { return min(i, a) }

func lightenOnly(i, a float32) float32 { return max(i, a) }

func divide(i, a float32) float32 {
	if a == 0 {
		if i > 0 {
			return 1
		}
		return 0
	}
	return clamp01(i / a)
}

func dodge(i, a float32) float32 {
	if a >= 1 {
		if i > 0 {
			return 1
		}
		return 0
	}
	return clamp01(i / (1 - a))
}

func burn(i, a float32) float32 {
	if a <= 0 {
		if i >= 1 {
			return 1
		}
		return 0
	}
	return clamp01(1 - (1-i)/a)
}

func hardLight(i, a float32) float32 {
	if a > 0.5 {
		return 1 - (1-i)*(1-2*(a-0.5))
	}
	return 2 * i * a
}

// softLight is the Pegtop soft light: screen and multiply mixed by i.
func softLight(i, a float32) float32 {
	return (1-i)*i*a + i*screen(i, a)
}

func grainExtract(i, a float32) float32 { return clamp01(i - a + 0.5) }

func grainMerge(i, a float32) float32 { return clamp01(i + a - 0.5) }
