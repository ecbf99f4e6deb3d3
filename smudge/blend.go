package smudge

import (
	"errors"
	"fmt"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
)

// Common errors for smudge blending.
var (
	// ErrNilBuffer is returned when a nil buffer is passed to Blend.
	ErrNilBuffer = errors.New("smudge: nil buffer")

	// ErrRegionMismatch is returned when Blend rectangles differ in size.
	ErrRegionMismatch = errors.New("smudge: region sizes differ")
)

// Blend writes rate*accum + (1-rate)*canvas into dstRect of dst, weighting
// each colour by its alpha:
//
//	a1 = rate * accum.a,  a2 = (1-rate) * canvas.a,  dst.a = a1 + a2
//	dst.c = (accum.c*a1 + canvas.c*a2) / dst.a   (0 when dst.a == 0)
//
// At rate 1 dst is an exact copy of accum, at rate 0 of canvas. dst may be
// accum. All three rectangles must have the same size.
func Blend(accum *buffer.Buffer, accumRect composite.Region,
	canvas *buffer.Buffer, canvasRect composite.Region,
	dst *buffer.Buffer, dstRect composite.Region, rate float64,
) error {
	if accum == nil || canvas == nil || dst == nil {
		return ErrNilBuffer
	}
	if accumRect.Width != canvasRect.Width || accumRect.Height != canvasRect.Height ||
		accumRect.Width != dstRect.Width || accumRect.Height != dstRect.Height {
		return fmt.Errorf("%w: %v, %v, %v", ErrRegionMismatch, accumRect, canvasRect, dstRect)
	}
	if accumRect.Empty() {
		return nil
	}

	switch {
	case rate >= 1:
		return dst.Write(dstRect, accum.Read(accumRect, buffer.RGBA))
	case rate <= 0:
		return dst.Write(dstRect, canvas.Read(canvasRect, buffer.RGBA))
	}

	src1 := accum.Read(accumRect, buffer.RGBA)
	src2 := canvas.Read(canvasRect, buffer.RGBA)
	blendRun(src1, src2, src1, float32(rate))
	return dst.Write(dstRect, src1)
}

// blendRun mixes src1 and src2 into out, which may alias src1.
func blendRun(src1, src2, out []float32, rate float32) {
	for p := 0; p < len(out); p += 4 {
		a1 := rate * src1[p+3]
		a2 := (1 - rate) * src2[p+3]
		a := a1 + a2
		if a == 0 {
			clear(out[p : p+4])
			continue
		}
		t := a1 / a
		u := 1 - t
		out[p] = float32(src1[p]*t) + float32(src2[p]*u)
		out[p+1] = float32(src1[p+1]*t) + float32(src2[p+1]*u)
		out[p+2] = float32(src1[p+2]*t) + float32(src2[p+2]*u)
		out[p+3] = a
	}
}
