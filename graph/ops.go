package graph

import (
	"context"
	"math"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
	"github.com/gogpu/composite/internal/parallel"
	"github.com/gogpu/composite/operator"
)

func init() {
	Register("nop", nop{})
	Register("color", colorOp{})
	Register("buffer-source", bufferSource{})
	Register("translate", translate{})
	Register("opacity", opacity{})
	Register("over", over{})
}

// nop hands its input through.
type nop struct{}

func (nop) Bounds(_ *Node, in Extents) composite.Region { return in[PadInput] }

func (nop) Forward(*Node, Extents, composite.Region) (string, bool) { return PadInput, true }

func (nop) Process(_ context.Context, _ *Node, in *Inputs, out *buffer.Buffer) error {
	b, err := in.Buffer(PadInput, out.Extent())
	if err != nil || b == nil {
		return err
	}
	return buffer.Copy(b, out.Extent(), out, out.Extent().X, out.Extent().Y)
}

// colorOp fills the plane with the "value" sample.
type colorOp struct{}

func (colorOp) Defaults() map[string]any {
	return map[string]any{"value": composite.Opaque(0, 0, 0)}
}

func (colorOp) Bounds(*Node, Extents) composite.Region { return Infinite }

func (colorOp) Process(_ context.Context, n *Node, _ *Inputs, out *buffer.Buffer) error {
	v, _ := n.Get("value")
	s, _ := v.(composite.Sample)
	out.SetColor(out.Extent(), s)
	return nil
}

// bufferSource outputs the "buffer" property.
type bufferSource struct{}

func (bufferSource) Defaults() map[string]any {
	return map[string]any{"buffer": (*buffer.Buffer)(nil)}
}

func source(n *Node) *buffer.Buffer {
	v, _ := n.Get("buffer")
	b, _ := v.(*buffer.Buffer)
	return b
}

func (bufferSource) Bounds(n *Node, _ Extents) composite.Region {
	if b := source(n); b != nil {
		return b.Extent()
	}
	return composite.Region{}
}

func (bufferSource) View(_ context.Context, n *Node, _ *Inputs, _ composite.Region) (*buffer.Buffer, error) {
	return source(n), nil
}

func (bufferSource) Process(_ context.Context, n *Node, _ *Inputs, out *buffer.Buffer) error {
	b := source(n)
	if b == nil {
		return nil
	}
	return buffer.Copy(b, out.Extent(), out, out.Extent().X, out.Extent().Y)
}

// translate moves its input by ("x", "y"), rounded to whole pixels.
type translate struct{}

func (translate) Defaults() map[string]any {
	return map[string]any{"x": 0.0, "y": 0.0}
}

func offset(n *Node) (dx, dy int) {
	return int(math.Round(n.Float("x"))), int(math.Round(n.Float("y")))
}

func (translate) Bounds(n *Node, in Extents) composite.Region {
	dx, dy := offset(n)
	return in[PadInput].Translate(dx, dy)
}

func (translate) View(_ context.Context, n *Node, in *Inputs, roi composite.Region) (*buffer.Buffer, error) {
	dx, dy := offset(n)
	b, err := in.Buffer(PadInput, roi.Translate(-dx, -dy))
	if err != nil || b == nil {
		return nil, err
	}
	return b.Translated(dx, dy), nil
}

func (t translate) Process(ctx context.Context, n *Node, in *Inputs, out *buffer.Buffer) error {
	b, err := t.View(ctx, n, in, out.Extent())
	if err != nil || b == nil {
		return err
	}
	return buffer.Copy(b, out.Extent(), out, out.Extent().X, out.Extent().Y)
}

// opacity scales the alpha of its input by "value" and by the single-channel
// mask on "aux".
type opacity struct{}

func (opacity) Defaults() map[string]any {
	return map[string]any{"value": 1.0}
}

func (opacity) Bounds(_ *Node, in Extents) composite.Region { return in[PadInput] }

func (opacity) Forward(n *Node, in Extents, _ composite.Region) (string, bool) {
	_, masked := in[PadAux]
	return PadInput, n.Float("value") == 1 && !masked
}

func (opacity) Process(_ context.Context, n *Node, in *Inputs, out *buffer.Buffer) error {
	roi := out.Extent()
	px := parallel.GetFloats(roi.Area() * composite.Channels)
	defer parallel.PutFloats(px)
	if err := in.ReadInto(PadInput, roi, buffer.RGBA, px); err != nil {
		return err
	}

	var mask []float32
	if in.Connected(PadAux) {
		mask = parallel.GetFloats(roi.Area())
		defer parallel.PutFloats(mask)
		if err := in.ReadInto(PadAux, roi, buffer.Y, mask); err != nil {
			return err
		}
	}

	v := float32(n.Float("value"))
	for i := range roi.Area() {
		m := v
		if mask != nil {
			m *= mask[i]
		}
		px[i*4+composite.A] *= m
	}
	return out.Write(roi, px)
}

// over composites "aux" over "input".
type over struct{}

func (over) Bounds(_ *Node, in Extents) composite.Region { return in.Union() }

func (over) Forward(_ *Node, in Extents, _ composite.Region) (string, bool) {
	_, layered := in[PadAux]
	return PadInput, !layered
}

func (over) Process(_ context.Context, _ *Node, in *Inputs, out *buffer.Buffer) error {
	roi := out.Extent()
	n := roi.Area() * composite.Channels
	bg := parallel.GetFloats(n)
	defer parallel.PutFloats(bg)
	fg := parallel.GetFloats(n)
	defer parallel.PutFloats(fg)

	if err := in.ReadInto(PadInput, roi, buffer.RGBA, bg); err != nil {
		return err
	}
	if err := in.ReadInto(PadAux, roi, buffer.RGBA, fg); err != nil {
		return err
	}
	operator.Normal(bg, fg, nil, bg, 1, roi)
	return out.Write(roi, bg)
}
