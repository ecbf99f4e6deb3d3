// Package wide provides fixed-width float32 lanes for the vectorised
// compositing operators.
//
// F32x4 and F32x8 are plain arrays processed with simple loops, which the Go
// compiler turns into SSE, AVX or NEON code where it can. There is no
// assembly and no unsafe.
//
// Samples in the operator arrays are interleaved RGBA. LoadChannel and
// StoreChannel move one channel of 4 or 8 consecutive samples into and out of
// a lane, giving the operators a structure-of-arrays view of a run of pixels:
//
//	a := wide.LoadChannel8(aux, 3) // alpha of 8 samples
//	c := wide.LoadChannel8(aux, 0) // red of the same samples
//	c.Mul(a).StoreChannel(out, 0)
package wide
