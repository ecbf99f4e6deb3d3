package smudge

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/buffer"
)

// Common errors for strokes.
var (
	// ErrNilCore is returned by NewStroke without a paint core.
	ErrNilCore = errors.New("smudge: nil paint core")

	// ErrNilDrawable is returned by Motion without a drawable.
	ErrNilDrawable = errors.New("smudge: nil drawable")

	// ErrInvalidOptions is returned for out-of-range options.
	ErrInvalidOptions = errors.New("smudge: invalid options")
)

// State is the state of a Stroke.
type State int

const (
	// Idle strokes hold no accumulator.
	Idle State = iota
	// Active strokes carry paint.
	Active
)

// String returns "idle" or "active".
func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Options configures a smudge stroke.
type Options struct {
	// BrushSize is the brush diameter in pixels. It sets the accumulator
	// size.
	BrushSize float64

	// Rate is how much paint the brush keeps per dab, in percent.
	Rate float64

	// Opacity is the image-wide paint opacity in [0, 1].
	Opacity float64

	// FadeLength is the stroke length in pixels over which the fade
	// position runs from 0 to 1. Zero disables fading.
	FadeLength float64
}

// DefaultOptions returns the options of a fresh smudge tool.
func DefaultOptions() Options {
	return Options{
		BrushSize: 51,
		Rate:      50,
		Opacity:   1,
	}
}

func (o Options) validate() error {
	switch {
	case !(o.BrushSize > 0) || math.IsInf(o.BrushSize, 0):
		return fmt.Errorf("%w: brush size %v", ErrInvalidOptions, o.BrushSize)
	case !(o.Rate >= 0 && o.Rate <= 100):
		return fmt.Errorf("%w: rate %v", ErrInvalidOptions, o.Rate)
	case !(o.Opacity >= 0 && o.Opacity <= 1):
		return fmt.Errorf("%w: opacity %v", ErrInvalidOptions, o.Opacity)
	case !(o.FadeLength >= 0):
		return fmt.Errorf("%w: fade length %v", ErrInvalidOptions, o.FadeLength)
	}
	return nil
}

// AccumulatorSize returns the side of the square accumulator for a brush
// of the given diameter: the largest rotated brush mask plus a one pixel
// border and some headroom.
func AccumulatorSize(brushSize float64) int {
	s := brushSize + 1
	return int(math.Ceil(math.Sqrt(2*s*s) + 2))
}

// accumulatorCoords returns the drawable position of the top-left pixel of
// an accumulator of the given size centred on c.
func accumulatorCoords(c Coords, size int) (x, y int) {
	return int(c.X) - size/2, int(c.Y) - size/2
}

// Stroke is one smudge stroke.
type Stroke struct {
	core PaintCore
	dyn  Dynamics
	opts Options

	state State
	accum *buffer.Buffer

	distance float64
	last     Coords
	moved    bool
}

// sizedCore is a PaintCore that knows its brush diameter.
type sizedCore interface {
	Size() float64
}

// NewStroke returns an Idle stroke. A nil dyn means Constant(1). When core
// reports its brush size, it must give the same accumulator size as
// opts.BrushSize.
func NewStroke(core PaintCore, dyn Dynamics, opts Options) (*Stroke, error) {
	if core == nil {
		return nil, ErrNilCore
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if sc, ok := core.(sizedCore); ok && AccumulatorSize(sc.Size()) != AccumulatorSize(opts.BrushSize) {
		return nil, fmt.Errorf("%w: brush size %v differs from paint core size %v",
			ErrInvalidOptions, opts.BrushSize, sc.Size())
	}
	if dyn == nil {
		dyn = Constant(1)
	}
	return &Stroke{core: core, dyn: dyn, opts: opts}, nil
}

// State returns the current state.
func (s *Stroke) State() State { return s.state }

// Accumulator returns the accumulator of an Active stroke, nil when Idle.
func (s *Stroke) Accumulator() *buffer.Buffer { return s.accum }

// Distance returns the path length covered by the motion events so far.
func (s *Stroke) Distance() float64 { return s.distance }

// Motion handles one pointer sample. An Idle stroke starts when the dab
// touches d and otherwise stays Idle, trying again on the next sample.
func (s *Stroke) Motion(d Drawable, c Coords) error {
	if d == nil || d.Buffer() == nil {
		return ErrNilDrawable
	}
	if s.moved {
		s.distance += math.Hypot(c.X-s.last.X, c.Y-s.last.Y)
	}
	s.last, s.moved = c, true

	if s.state == Idle {
		ok, err := s.start(d, c)
		if err != nil || !ok {
			return err
		}
	}
	return s.motion(d, c)
}

// start allocates the accumulator and loads the pixels under the first dab.
func (s *Stroke) start(d Drawable, c Coords) (bool, error) {
	paint, px, py, ok := s.core.PaintBuffer(d, c)
	if !ok {
		composite.Logger().Debug("smudge: dab misses drawable, stroke not started", "x", c.X, "y", c.Y)
		return false, nil
	}

	size := AccumulatorSize(s.opts.BrushSize)
	accum, err := buffer.New(composite.Rect(0, 0, size, size), buffer.RGBA)
	if err != nil {
		return false, err
	}
	x, y := accumulatorCoords(c, size)

	src := d.Buffer()
	if x != px || y != py || size != paint.Width() || size != paint.Height() {
		ext := src.Extent()
		cx := min(max(int(c.X), ext.X), ext.MaxX()-1)
		cy := min(max(int(c.Y), ext.Y), ext.MaxY()-1)
		accum.SetColor(accum.Extent(), src.At(cx, cy))
	}
	under := composite.Rect(px, py, paint.Width(), paint.Height())
	if err := buffer.Copy(src, under, accum, px-x, py-y); err != nil {
		return false, err
	}

	s.accum = accum
	s.state = Active
	composite.Logger().Debug("smudge: stroke started", "size", size, "x", x, "y", y)
	return true, nil
}

// motion blends the accumulator with the canvas under the dab and stamps it.
func (s *Stroke) motion(d Drawable, c Coords) error {
	fade := s.fade()
	opacity := s.dyn.Value(OutputOpacity, c, fade)
	if opacity == 0 {
		return nil
	}

	paint, px, py, ok := s.core.PaintBuffer(d, c)
	if !ok {
		return nil
	}
	x, y := accumulatorCoords(c, s.accum.Width())

	rate := s.opts.Rate / 100 * s.dyn.Value(OutputRate, c, fade)
	w, h := paint.Width(), paint.Height()
	inAccum := composite.Rect(px-x, py-y, w, h)
	onCanvas := composite.Rect(px, py, w, h)

	if err := Blend(s.accum, inAccum, d.Buffer(), onCanvas, s.accum, inAccum, rate); err != nil {
		return err
	}
	if err := buffer.Copy(s.accum, inAccum, paint, 0, 0); err != nil {
		return err
	}

	hardness := s.dyn.Value(OutputHardness, c, fade)
	return s.core.ReplaceCanvas(d, c, min(opacity, 1), s.opts.Opacity, hardness)
}

// fade returns the position along the fade length, 1 when fading is off.
func (s *Stroke) fade() float64 {
	if s.opts.FadeLength <= 0 {
		return 1
	}
	return min(s.distance/s.opts.FadeLength, 1)
}

// Finish ends the stroke and releases the accumulator.
func (s *Stroke) Finish() {
	s.release()
}

// Cancel abandons the stroke. Dabs already stamped stay on the drawable.
func (s *Stroke) Cancel() {
	s.release()
}

// Close releases the stroke. It implements io.Closer and never fails.
func (s *Stroke) Close() error {
	s.release()
	return nil
}

func (s *Stroke) release() {
	if s.state == Active {
		composite.Logger().Debug("smudge: stroke ended", "distance", s.distance)
	}
	s.accum = nil
	s.state = Idle
	s.distance = 0
	s.moved = false
}

// Paint runs a complete stroke over coords. The accumulator is released
// when Paint returns, whether the stroke completed, ctx was cancelled or a
// motion failed.
func Paint(ctx context.Context, core PaintCore, dyn Dynamics, opts Options, d Drawable, coords iter.Seq[Coords]) error {
	s, err := NewStroke(core, dyn, opts)
	if err != nil {
		return err
	}
	defer s.release()

	for c := range coords {
		if err := ctx.Err(); err != nil {
			s.Cancel()
			return err
		}
		if err := s.Motion(d, c); err != nil {
			composite.Logger().Warn("smudge: motion failed", "err", err)
			return err
		}
	}
	s.Finish()
	return nil
}
