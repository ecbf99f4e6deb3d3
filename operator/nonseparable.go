package operator

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/composite"
)

// ColorTerm is the channel algebra of a non-separable mode: the blended
// colour given the input colour i and the layer colour a.
type ColorTerm func(i, a colorful.Color) colorful.Color

// colorTerms lists the non-separable modes.
var colorTerms = map[composite.Mode]ColorTerm{
	composite.ModeHue:        hue,
	composite.ModeSaturation: saturation,
	composite.ModeColor:      colorTerm,
	composite.ModeValue:      value,
}

// NonSeparable builds the operator of a mode whose channel algebra needs the
// whole colour. Alpha handling is the same as for separable modes.
func NonSeparable(term ColorTerm) Func {
	return func(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
		n := checkArgs(in, aux, mask, out, roi)
		var src [3]float32
		for i := range n {
			p := i * 4
			inA := in[p+3]

			blended := term(toColorful(in[p:p+3]), toColorful(aux[p:p+3]))
			src[0] = (1-inA)*aux[p] + inA*float32(blended.R)
			src[1] = (1-inA)*aux[p+1] + inA*float32(blended.G)
			src[2] = (1-inA)*aux[p+2] + inA*float32(blended.B)

			mix(in[p:p+4], src[:], out[p:p+4], aux[p+3]*opacity*maskAt(mask, i))
		}
	}
}

func toColorful(c []float32) colorful.Color {
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
}

// hue takes the layer hue and keeps input saturation and value. A grey
// layer has no hue, so the input is kept.
func hue(i, a colorful.Color) colorful.Color {
	ah, as, _ := a.Hsv()
	if as == 0 {
		return i
	}
	_, is, iv := i.Hsv()
	return colorful.Hsv(ah, is, iv)
}

// saturation takes the layer saturation and keeps input hue and value.
func saturation(i, a colorful.Color) colorful.Color {
	_, as, _ := a.Hsv()
	ih, _, iv := i.Hsv()
	return colorful.Hsv(ih, as, iv)
}

// value takes the layer value and keeps input hue and saturation.
func value(i, a colorful.Color) colorful.Color {
	_, _, av := a.Hsv()
	ih, is, _ := i.Hsv()
	return colorful.Hsv(ih, is, av)
}

// colorTerm takes layer hue and saturation in HSL and keeps input lightness.
func colorTerm(i, a colorful.Color) colorful.Color {
	ah, as, _ := a.Hsl()
	_, _, il := i.Hsl()
	return colorful.Hsl(ah, as, il)
}
