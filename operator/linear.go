package operator

import (
	"github.com/gogpu/composite"
	"github.com/gogpu/composite/internal/color"
	"github.com/gogpu/composite/internal/parallel"
)

// Linear wraps f so that it blends in linear light. The colour channels of
// in and aux are converted from sRGB to linear before f runs and the output
// is converted back; alpha and mask are untouched. The caller's in and aux
// are not modified.
func Linear(f Func) Func {
	return func(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
		checkArgs(in, aux, mask, out, roi)

		lin := parallel.GetFloats(len(in))
		laux := parallel.GetFloats(len(aux))
		defer parallel.PutFloats(lin)
		defer parallel.PutFloats(laux)

		copy(lin, in)
		copy(laux, aux)
		color.ToLinear(lin)
		color.ToLinear(laux)

		f(lin, laux, mask, out, opacity, roi)
		color.ToSRGB(out)
	}
}

// LookupLinear returns Lookup(mode), wrapped with Linear when linear is set.
func LookupLinear(mode composite.Mode, linear bool) Func {
	f := Lookup(mode)
	if linear {
		return Linear(f)
	}
	return f
}
