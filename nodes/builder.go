package nodes

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
	"github.com/gogpu/composite/graph"
)

// Common errors for node construction.
var (
	// ErrNilGraph is returned when a nil graph is passed.
	ErrNilGraph = errors.New("nodes: nil graph")

	// ErrNilParent is returned when a nil parent node is passed.
	ErrNilParent = errors.New("nodes: nil parent node")

	// ErrNilBackground is returned by CreateFlattenNode without a colour.
	ErrNilBackground = errors.New("nodes: nil background colour")

	// ErrInvalidBuffer is returned for nil buffers.
	ErrInvalidBuffer = errors.New("nodes: invalid buffer")

	// ErrInvalidOpacity is returned for opacities outside [0, 1].
	ErrInvalidOpacity = errors.New("nodes: opacity out of range")
)

// CreateFlattenNode returns a meta node that composites its input over an
// opaque plane of background, using the standard over operator. The alpha
// of background is ignored.
func CreateFlattenNode(g *graph.Graph, background *composite.Sample) (*graph.Node, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if background == nil {
		return nil, ErrNilBackground
	}

	bg := *background
	bg[composite.A] = 1

	node := g.NewMeta()
	color, err := node.NewChild("color", map[string]any{"value": bg})
	if err != nil {
		return nil, err
	}
	over, err := node.NewChild("over", nil)
	if err != nil {
		return nil, err
	}

	if err := connectAll(g,
		link{color, over, graph.PadInput},
		link{node.InputProxy(graph.PadInput), over, graph.PadAux},
		link{over, node.OutputProxy(), graph.PadInput},
	); err != nil {
		return nil, err
	}
	return node, nil
}

// CreateApplyOpacityNode returns a node that multiplies the alpha of its
// input by opacity and by mask, a single-channel buffer placed at
// (offX, offY). Pixels outside the mask become transparent.
func CreateApplyOpacityNode(g *graph.Graph, mask *buffer.Buffer, offX, offY int, opacity float64) (*graph.Node, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if mask == nil {
		return nil, ErrInvalidBuffer
	}
	if !validOpacity(opacity) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOpacity, opacity)
	}

	node, err := g.NewNode("opacity", map[string]any{"value": opacity})
	if err != nil {
		return nil, err
	}
	source, err := AddBufferSource(node, mask, offX, offY)
	if err != nil {
		return nil, err
	}
	if err := g.Connect(source, node, graph.PadAux); err != nil {
		return nil, err
	}
	return node, nil
}

// AddBufferSource adds a child to parent that outputs buf. A non-zero offset
// chains a translate child, which is returned instead, so consumers see the
// buffer already in place.
func AddBufferSource(parent *graph.Node, buf *buffer.Buffer, offX, offY int) (*graph.Node, error) {
	if parent == nil {
		return nil, ErrNilParent
	}
	if buf == nil {
		return nil, ErrInvalidBuffer
	}

	source, err := parent.NewChild("buffer-source", map[string]any{"buffer": buf})
	if err != nil {
		return nil, err
	}
	if offX == 0 && offY == 0 {
		return source, nil
	}

	offset, err := parent.NewChild("translate", map[string]any{
		"x": float64(offX),
		"y": float64(offY),
	})
	if err != nil {
		return nil, err
	}
	if err := parent.Graph().Connect(source, offset, graph.PadInput); err != nil {
		return nil, err
	}
	return offset, nil
}

// NewLayerNode creates a compositing node for mode.
func NewLayerNode(g *graph.Graph, mode composite.Mode, opacity float64, linear bool) (*graph.Node, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if !validOpacity(opacity) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOpacity, opacity)
	}
	return g.NewNode(mode.OperationName(), map[string]any{
		propOpacity: opacity,
		propLinear:  linear,
	})
}

type link struct {
	src, dst *graph.Node
	pad      string
}

func connectAll(g *graph.Graph, links ...link) error {
	for _, l := range links {
		if err := g.Connect(l.src, l.dst, l.pad); err != nil {
			return err
		}
	}
	return nil
}

func validOpacity(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
