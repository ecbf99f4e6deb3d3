package smudge

import (
	"errors"
	"math"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
	"github.com/gogpu/composite/operator"
)

// ErrNoPaintBuffer is returned by ReplaceCanvas before any PaintBuffer call
// succeeded.
var ErrNoPaintBuffer = errors.New("smudge: no paint buffer")

// Drawable is the layer being painted on. Its buffer's extent is the
// paintable area.
type Drawable interface {
	Buffer() *buffer.Buffer
}

// PaintCore stamps dabs onto a drawable. The paint buffer must not be larger
// than the stroke accumulator: pixels outside the accumulator are stamped
// from transparent abyss and erase the canvas.
type PaintCore interface {
	// PaintBuffer prepares the stamp buffer for a dab at c and returns it
	// together with the drawable position of its top-left pixel. The buffer
	// extent starts at (0, 0). ok is false when the dab misses d.
	PaintBuffer(d Drawable, c Coords) (buf *buffer.Buffer, x, y int, ok bool)

	// ReplaceCanvas composites the last paint buffer onto d in Replace mode.
	// brushOpacity and imageOpacity multiply; hardness shapes the brush edge.
	ReplaceCanvas(d Drawable, c Coords, brushOpacity, imageOpacity, hardness float64) error
}

// Canvas is a Drawable backed by a single RGBA buffer.
type Canvas struct {
	buf *buffer.Buffer
}

// NewCanvas returns a transparent canvas covering (0, 0, width, height).
func NewCanvas(width, height int) (*Canvas, error) {
	b, err := buffer.New(composite.Rect(0, 0, width, height), buffer.RGBA)
	if err != nil {
		return nil, err
	}
	return &Canvas{buf: b}, nil
}

// CanvasOf wraps an existing buffer.
func CanvasOf(b *buffer.Buffer) *Canvas {
	return &Canvas{buf: b}
}

// Buffer implements Drawable.
func (c *Canvas) Buffer() *buffer.Buffer { return c.buf }

// BrushCore is a PaintCore with a round brush. Its paint buffer is the
// accumulator-sized square centred on the dab, clipped to the drawable, so
// unclipped dabs line up with the stroke accumulator.
type BrushCore struct {
	size float64

	paint  *buffer.Buffer
	px, py int
}

// NewBrushCore returns a round brush of the given diameter in pixels.
func NewBrushCore(size float64) *BrushCore {
	return &BrushCore{size: size}
}

// Size returns the brush diameter. NewStroke requires it to equal
// Options.BrushSize.
func (b *BrushCore) Size() float64 { return b.size }

// PaintBuffer implements PaintCore.
func (b *BrushCore) PaintBuffer(d Drawable, c Coords) (*buffer.Buffer, int, int, bool) {
	size := AccumulatorSize(b.size)
	x, y := accumulatorCoords(c, size)
	area := composite.Rect(x, y, size, size).Intersect(d.Buffer().Extent())
	if area.Empty() {
		return nil, 0, 0, false
	}

	if b.paint == nil || b.paint.Width() != area.Width || b.paint.Height() != area.Height {
		buf, err := buffer.New(composite.Rect(0, 0, area.Width, area.Height), buffer.RGBA)
		if err != nil {
			return nil, 0, 0, false
		}
		b.paint = buf
	} else {
		b.paint.Clear()
	}
	b.px, b.py = area.X, area.Y
	return b.paint, area.X, area.Y, true
}

// ReplaceCanvas implements PaintCore.
func (b *BrushCore) ReplaceCanvas(d Drawable, c Coords, brushOpacity, imageOpacity, hardness float64) error {
	if b.paint == nil {
		return ErrNoPaintBuffer
	}
	dst := d.Buffer()
	area := composite.Rect(b.px, b.py, b.paint.Width(), b.paint.Height())

	in := dst.Read(area, buffer.RGBA)
	aux := b.paint.Read(b.paint.Extent(), buffer.RGBA)
	mask := b.mask(area, c, hardness)

	operator.Replace(in, aux, mask, in, float32(brushOpacity*imageOpacity), area)
	return dst.Write(area, in)
}

// mask returns the brush coverage of every pixel of area for a dab at c.
// Coverage is 1 within hardness*radius of the centre and falls linearly to
// 0 at the radius.
func (b *BrushCore) mask(area composite.Region, c Coords, hardness float64) []float32 {
	radius := b.size / 2
	inner := radius * clamp01(hardness)

	m := make([]float32, area.Area())
	i := 0
	for y := area.Y; y < area.MaxY(); y++ {
		for x := area.X; x < area.MaxX(); x++ {
			d := math.Hypot(float64(x)+0.5-c.X, float64(y)+0.5-c.Y)
			switch {
			case d <= inner:
				m[i] = 1
			case d < radius:
				m[i] = float32((radius - d) / (radius - inner))
			}
			i++
		}
	}
	return m
}
