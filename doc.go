// Package composite is the pixel-compositing core of a layer-based image
// editor.
//
// # Overview
//
// A compositing step combines a background sample (the input), a layer
// sample (the auxiliary input), an optional mask and an opacity into an
// output sample. The combination rule is selected by a [Mode]: Normal,
// Dissolve, Multiply, Erase, Replace and the other layer modes.
//
//	in  := composite.Sample{0.2, 0.2, 0.2, 1}
//	aux := composite.Sample{0.8, 0.8, 0.8, 1}
//	out := operator.Apply(composite.ModeNormal, in, aux, nil, 0.5)
//	// out == {0.5, 0.5, 0.5, 1}
//
// # Architecture
//
// The module is organized into:
//   - Root: Sample, Region, Mode and the shared logger
//   - operator: one pure per-region function per blend mode
//   - buffer: float RGBA and single-channel buffers with extent and abyss
//   - graph: a lazily evaluated, tile-parallel node graph
//   - nodes: builders that assemble compositing subgraphs and reconfigure them
//   - smudge: the stroke accumulator of the smudge paint tool
//   - gpu: fixed-function blend states and the Normal mode compute kernel
//
// # Samples
//
// Samples are straight (non-premultiplied) RGBA float32 tuples. Operators work
// on flat slices holding four floats per sample, laid out row by row over a
// [Region] given in absolute image coordinates. Absolute coordinates matter:
// Dissolve derives its pseudo-random pattern from them, so the output does not
// depend on how a region is split into tiles.
//
// # Concurrency
//
// Operators are reentrant and may run on many goroutines at once. The only
// shared state they read is the dissolve seed table and the Normal variant
// chosen at startup, both immutable after initialization.
package composite
