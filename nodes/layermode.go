package nodes

import (
	"context"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
	"github.com/gogpu/composite/graph"
	"github.com/gogpu/composite/internal/parallel"
	"github.com/gogpu/composite/operator"
)

// Properties of compositing nodes.
const (
	propOpacity   = "opacity"
	propLinear    = "linear"
	propTransform = "transform"
)

func init() {
	for _, m := range composite.Modes() {
		graph.Register(m.OperationName(), layerMode{mode: m})
	}
	graph.Register("transform", transform{})
}

// layerMode composites "aux" onto "input" with the operator of one mode.
// "aux2" is an optional single-channel mask. A non-identity "transform"
// moves the layer before it is blended.
type layerMode struct {
	mode composite.Mode
}

func (layerMode) Defaults() map[string]any {
	return map[string]any{
		propOpacity:   1.0,
		propLinear:    false,
		propTransform: "",
	}
}

func (l layerMode) Bounds(n *graph.Node, in graph.Extents) composite.Region {
	aux := in[graph.PadAux]
	if t, ok := transformOf(n); ok {
		aux = t.bounds(aux)
	}
	return in[graph.PadInput].Union(aux)
}

// Forward lets Normal hand one input through untouched when the other one
// cannot contribute to roi: full opacity, no mask, no transform, and the
// other input absent or outside roi.
func (l layerMode) Forward(n *graph.Node, in graph.Extents, roi composite.Region) (string, bool) {
	if l.mode != composite.ModeNormal || n.Float(propOpacity) != 1 {
		return "", false
	}
	if _, masked := in[graph.PadAux2]; masked {
		return "", false
	}
	if _, ok := transformOf(n); ok {
		return "", false
	}

	inExt, hasIn := in[graph.PadInput]
	auxExt, hasAux := in[graph.PadAux]
	switch {
	case !hasIn || !inExt.Overlaps(roi):
		composite.Logger().Debug("nodes: pass-through", "pad", graph.PadAux, "roi", roi.String())
		return graph.PadAux, true
	case !hasAux || !auxExt.Overlaps(roi):
		composite.Logger().Debug("nodes: pass-through", "pad", graph.PadInput, "roi", roi.String())
		return graph.PadInput, true
	}
	return "", false
}

func (l layerMode) Process(_ context.Context, n *graph.Node, in *graph.Inputs, out *buffer.Buffer) error {
	roi := out.Extent()
	size := roi.Area() * composite.Channels

	px := parallel.GetFloats(size)
	defer parallel.PutFloats(px)
	layer := parallel.GetFloats(size)
	defer parallel.PutFloats(layer)

	if err := in.ReadInto(graph.PadInput, roi, buffer.RGBA, px); err != nil {
		return err
	}
	if t, ok := transformOf(n); ok {
		if err := t.sample(in, graph.PadAux, roi, layer); err != nil {
			return err
		}
	} else if err := in.ReadInto(graph.PadAux, roi, buffer.RGBA, layer); err != nil {
		return err
	}

	var mask []float32
	if in.Connected(graph.PadAux2) {
		mask = parallel.GetFloats(roi.Area())
		defer parallel.PutFloats(mask)
		if err := in.ReadInto(graph.PadAux2, roi, buffer.Y, mask); err != nil {
			return err
		}
	}

	f := operator.LookupLinear(l.mode, n.Bool(propLinear))
	f(px, layer, mask, px, float32(n.Float(propOpacity)), roi)
	return out.Write(roi, px)
}

// transform moves its input by the matrix in "transform", sampling the
// nearest source pixel.
type transform struct{}

func (transform) Defaults() map[string]any {
	return map[string]any{propTransform: ""}
}

func (transform) Bounds(n *graph.Node, in graph.Extents) composite.Region {
	if t, ok := transformOf(n); ok {
		return t.bounds(in[graph.PadInput])
	}
	return in[graph.PadInput]
}

func (transform) Forward(n *graph.Node, _ graph.Extents, _ composite.Region) (string, bool) {
	_, ok := transformOf(n)
	return graph.PadInput, !ok
}

func (transform) Process(_ context.Context, n *graph.Node, in *graph.Inputs, out *buffer.Buffer) error {
	roi := out.Extent()
	px := parallel.GetFloats(roi.Area() * composite.Channels)
	defer parallel.PutFloats(px)

	var err error
	if t, ok := transformOf(n); ok {
		err = t.sample(in, graph.PadInput, roi, px)
	} else {
		err = in.ReadInto(graph.PadInput, roi, buffer.RGBA, px)
	}
	if err != nil {
		return err
	}
	return out.Write(roi, px)
}
