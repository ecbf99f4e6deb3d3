package gpu

import (
	"github.com/gogpu/composite"
	"github.com/gogpu/gputypes"
)

// BlendState returns the fixed-function blend state equivalent to mode on a
// premultiplied render target, with the layer as source and the input as
// destination. Layer opacity and mask must be folded into the source alpha
// (and, being premultiplied, its colour) before blending.
//
// Replace is exact only at full weight: with partial opacity or a mask the
// mix needs the Normal kernel path instead.
//
// ok is false for modes that need a shader.
func BlendState(mode composite.Mode) (state gputypes.BlendState, ok bool) {
	switch mode.Resolve() {
	case composite.ModeNormal:
		return gputypes.BlendStatePremultiplied(), true
	case composite.ModeBehind:
		return uniform(gputypes.BlendFactorOneMinusDstAlpha, gputypes.BlendFactorOne), true
	case composite.ModeErase:
		return uniform(gputypes.BlendFactorZero, gputypes.BlendFactorOneMinusSrcAlpha), true
	case composite.ModeReplace:
		return gputypes.BlendStateReplace(), true
	default:
		return gputypes.BlendState{}, false
	}
}

// FixedFunction reports whether mode can be drawn without a shader.
func FixedFunction(mode composite.Mode) bool {
	_, ok := BlendState(mode)
	return ok
}

// uniform returns a state using the same additive equation for colour and
// alpha.
func uniform(src, dst gputypes.BlendFactor) gputypes.BlendState {
	c := gputypes.BlendComponent{
		SrcFactor: src,
		DstFactor: dst,
		Operation: gputypes.BlendOperationAdd,
	}
	return gputypes.BlendState{Color: c, Alpha: c}
}

// Eval applies state to one premultiplied source and destination sample the
// way the blending unit does, without clamping. The constant blend colour is
// taken as zero.
func Eval(state gputypes.BlendState, src, dst composite.Sample) composite.Sample {
	var out composite.Sample
	for c := range 3 {
		out[c] = component(state.Color, src, dst, c)
	}
	out[composite.A] = component(state.Alpha, src, dst, composite.A)
	return out
}

func component(bc gputypes.BlendComponent, src, dst composite.Sample, c int) float32 {
	s := src[c] * factor(bc.SrcFactor, src, dst, c)
	d := dst[c] * factor(bc.DstFactor, src, dst, c)
	switch bc.Operation {
	case gputypes.BlendOperationSubtract:
		return s - d
	case gputypes.BlendOperationReverseSubtract:
		return d - s
	case gputypes.BlendOperationMin:
		return min(src[c], dst[c])
	case gputypes.BlendOperationMax:
		return max(src[c], dst[c])
	default:
		return s + d
	}
}

func factor(f gputypes.BlendFactor, src, dst composite.Sample, c int) float32 {
	sa, da := src[composite.A], dst[composite.A]
	switch f {
	case gputypes.BlendFactorOne:
		return 1
	case gputypes.BlendFactorSrc:
		return src[c]
	case gputypes.BlendFactorOneMinusSrc:
		return 1 - src[c]
	case gputypes.BlendFactorSrcAlpha:
		return sa
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 1 - sa
	case gputypes.BlendFactorDst:
		return dst[c]
	case gputypes.BlendFactorOneMinusDst:
		return 1 - dst[c]
	case gputypes.BlendFactorDstAlpha:
		return da
	case gputypes.BlendFactorOneMinusDstAlpha:
		return 1 - da
	case gputypes.BlendFactorSrcAlphaSaturated:
		if c == composite.A {
			return 1
		}
		return min(sa, 1-da)
	case gputypes.BlendFactorOneMinusConstant:
		return 1
	default:
		return 0
	}
}

// Premultiply converts flat straight-alpha samples to premultiplied in place.
func Premultiply(samples []float32) {
	for p := 0; p+3 < len(samples); p += 4 {
		a := samples[p+3]
		samples[p] *= a
		samples[p+1] *= a
		samples[p+2] *= a
	}
}

// Unpremultiply converts flat premultiplied samples to straight alpha in
// place. Samples with zero alpha become fully transparent black.
func Unpremultiply(samples []float32) {
	for p := 0; p+3 < len(samples); p += 4 {
		a := samples[p+3]
		if a == 0 {
			samples[p], samples[p+1], samples[p+2] = 0, 0, 0
			continue
		}
		samples[p] /= a
		samples[p+1] /= a
		samples[p+2] /= a
	}
}
