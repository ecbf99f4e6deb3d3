// Package operator implements the per-pixel compositing operator of every
// layer mode.
//
// An operator combines a region of input (background) samples with the
// auxiliary (layer) samples of the same region, an optional mask and an
// opacity, and writes the result to out:
//
//	f := operator.Lookup(composite.ModeMultiply)
//	f(in, aux, nil, out, 0.8, roi)
//
// Opacity and mask always act as one multiplicative attenuation of the layer
// alpha before any mode-specific math. Output alpha follows the "over" law
// (layer over input) unless the mode says otherwise: Dissolve, Erase,
// Replace and Color-erase override it.
//
// Operators are pure functions of their arguments and the absolute position
// of roi, keep no state between calls and may run concurrently.
package operator

import (
	"fmt"

	"github.com/gogpu/composite"
)

// Func is the operator of one layer mode.
//
// in, aux and out hold roi.Area() interleaved RGBA samples, row-major over
// roi. mask holds one value per sample or is nil, meaning 1 everywhere.
// out may alias in. A Func panics if the slice lengths do not match roi.
type Func func(in, aux, mask, out []float32, opacity float32, roi composite.Region)

// table maps every mode to its operator. It is filled once in init and
// never written again.
var table []Func

func init() {
	table = make([]Func, len(composite.Modes()))

	table[composite.ModeNormal] = Normal
	table[composite.ModeDissolve] = Dissolve
	table[composite.ModeBehind] = Behind
	table[composite.ModeErase] = Erase
	table[composite.ModeReplace] = Replace
	table[composite.ModeAntiErase] = AntiErase
	table[composite.ModeColorErase] = ColorErase

	for mode, term := range separableTerms {
		table[mode] = Separable(term)
	}
	for mode, term := range colorTerms {
		table[mode] = NonSeparable(term)
	}

	for i, f := range table {
		if f == nil {
			panic(fmt.Sprintf("operator: no operator for %v", composite.Mode(i)))
		}
	}
}

// Lookup returns the operator for mode. Modes outside the enumeration
// resolve to Normal.
func Lookup(mode composite.Mode) Func {
	return table[mode.Resolve()]
}

// Apply runs the operator of mode on a single sample at the origin. A nil
// mask means 1.
func Apply(mode composite.Mode, in, aux composite.Sample, mask *float32, opacity float32) composite.Sample {
	return ApplyAt(mode, in, aux, mask, opacity, 0, 0)
}

// ApplyAt is Apply for the pixel at (x, y). Position only matters for
// Dissolve.
func ApplyAt(mode composite.Mode, in, aux composite.Sample, mask *float32, opacity float32, x, y int) composite.Sample {
	var m []float32
	if mask != nil {
		m = []float32{*mask}
	}
	var out composite.Sample
	Lookup(mode)(in[:], aux[:], m, out[:], opacity, composite.Rect(x, y, 1, 1))
	return out
}

// checkArgs panics when the slices do not describe roi.
func checkArgs(in, aux, mask, out []float32, roi composite.Region) int {
	n := roi.Area()
	if len(in) != n*composite.Channels || len(aux) != n*composite.Channels || len(out) != n*composite.Channels {
		panic(fmt.Sprintf("operator: region %v needs %d floats, got in=%d aux=%d out=%d",
			roi, n*composite.Channels, len(in), len(aux), len(out)))
	}
	if mask != nil && len(mask) != n {
		panic(fmt.Sprintf("operator: region %v needs %d mask values, got %d", roi, n, len(mask)))
	}
	return n
}

// maskAt returns the mask value of sample i.
func maskAt(mask []float32, i int) float32 {
	if mask == nil {
		return 1
	}
	return mask[i]
}
