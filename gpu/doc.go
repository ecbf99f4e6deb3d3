// Package gpu maps layer modes onto GPU pipeline state.
//
// Four modes reduce to fixed-function blending on a premultiplied render
// target: Normal, Behind, Erase and Replace. [BlendState] returns the
// gputypes description for them. The remaining modes need a shader; the
// package ships the Normal compute kernel as WGSL and compiles it to SPIR-V
// with naga:
//
//	spirv, err := gpu.CompileNormal()
//	if err != nil {
//	    return err
//	}
//	params := gpu.NormalParams{Count: uint32(n), Opacity: 0.8}
//	uniform := params.Bytes()
//	groups := gpu.Workgroups(n)
//
// The kernel reads and writes straight-alpha samples and agrees with
// operator.Normal within float32 rounding. Device setup, buffer upload and
// dispatch belong to the caller.
package gpu
