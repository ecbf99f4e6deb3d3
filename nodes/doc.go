// Package nodes builds and reconfigures the compositing subgraphs of a
// layer stack.
//
// Importing nodes registers one graph operation per layer mode, named by
// [composite.Mode.OperationName] ("layer-mode:multiply" and so on), plus a
// "transform" operation. A compositing node reads the background on
// "input", the layer on "aux" and an optional mask on "aux2", and carries
// the properties "opacity" (float64), "linear" (bool) and "transform"
// (string, see FormatMatrix).
//
// Constructors return an error for invalid arguments. Mutators never fail:
// invalid arguments are logged as warnings and leave the node unchanged.
package nodes
