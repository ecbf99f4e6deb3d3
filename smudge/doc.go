// Package smudge implements the accumulator of the smudge paint tool.
//
// A smudge stroke carries paint along the pointer path. It keeps an
// accumulator: a square RGBA buffer that holds what has been picked up so
// far. On every motion event the accumulator is mixed with the pixels under
// the brush,
//
//	accum = rate*accum + (1-rate)*canvas
//
// and the result is stamped back onto the drawable in Replace mode.
//
// A Stroke is a two-state machine. It is Idle until the first motion event
// whose dab touches the drawable, Active until Finish or Cancel. Strokes are
// not safe for concurrent use; motion events must be delivered one at a
// time, in order.
//
//	err := smudge.Paint(ctx, core, smudge.Constant(1), opts, canvas, slices.Values(path))
package smudge
