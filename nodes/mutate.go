package nodes

import (
	"golang.org/x/image/math/f64"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/graph"
)

// SetMode switches node to the operation of mode and sets whether it blends
// in linear light. Opacity and transform are preserved. Modes outside the
// enumeration select Normal.
func SetMode(node *graph.Node, mode composite.Mode, linear bool) {
	log := composite.Logger()
	if node == nil || node.IsMeta() {
		log.Warn("nodes: SetMode on invalid node", "mode", mode.String())
		return
	}
	if !mode.Valid() {
		log.Warn("nodes: unknown mode, using normal", "mode", int(mode))
	}

	opacity := 1.0
	if v, ok := node.Get(propOpacity); ok {
		if f, ok := v.(float64); ok {
			opacity = f
		}
	}
	matrix := node.Text(propTransform)

	if err := node.SetOperation(mode.OperationName()); err != nil {
		log.Warn("nodes: SetMode failed", "mode", mode.String(), "err", err)
		return
	}
	// Types match the layer-mode defaults, so these cannot fail.
	_ = node.Set(propOpacity, opacity)
	_ = node.Set(propLinear, linear)
	_ = node.Set(propTransform, matrix)
}

// SetOpacity sets the opacity of a compositing node.
func SetOpacity(node *graph.Node, opacity float64) {
	log := composite.Logger()
	if !hasProperty(node, propOpacity) {
		log.Warn("nodes: SetOpacity on node without opacity")
		return
	}
	if !validOpacity(opacity) {
		log.Warn("nodes: opacity out of range", "opacity", opacity)
		return
	}
	if err := node.Set(propOpacity, opacity); err != nil {
		log.Warn("nodes: SetOpacity failed", "err", err)
	}
}

// SetTransform stores matrix in the node's "transform" property.
func SetTransform(node *graph.Node, matrix *f64.Mat3) {
	log := composite.Logger()
	if !hasProperty(node, propTransform) {
		log.Warn("nodes: SetTransform on node without transform")
		return
	}
	if matrix == nil || !finite(*matrix) {
		log.Warn("nodes: invalid transform matrix")
		return
	}
	if err := node.Set(propTransform, FormatMatrix(*matrix)); err != nil {
		log.Warn("nodes: SetTransform failed", "err", err)
	}
}

func hasProperty(node *graph.Node, key string) bool {
	if node == nil {
		return false
	}
	_, ok := node.Get(key)
	return ok
}
