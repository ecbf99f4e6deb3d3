package smudge

// Coords is one pointer sample.
type Coords struct {
	X, Y     float64
	Pressure float64
}

// Output selects which paint parameter a dynamics value drives.
type Output int

const (
	OutputOpacity Output = iota
	OutputRate
	OutputHardness
)

// String returns the output name.
func (o Output) String() string {
	switch o {
	case OutputOpacity:
		return "opacity"
	case OutputRate:
		return "rate"
	case OutputHardness:
		return "hardness"
	default:
		return "unknown"
	}
}

// Dynamics maps a pointer sample to paint parameters. Value returns a
// factor in [0, 1] for out at c; fade is the position along the stroke's
// fade length, 1 when fading is off.
type Dynamics interface {
	Value(out Output, c Coords, fade float64) float64
}

// Constant is Dynamics that returns the same factor for every output.
type Constant float64

// Value implements Dynamics.
func (k Constant) Value(Output, Coords, float64) float64 {
	return clamp01(float64(k))
}

// Pressure is Dynamics that drives the listed outputs with pen pressure and
// leaves the others at 1.
type Pressure []Output

// Value implements Dynamics.
func (p Pressure) Value(out Output, c Coords, _ float64) float64 {
	for _, o := range p {
		if o == out {
			return clamp01(c.Pressure)
		}
	}
	return 1
}

// Fade is Dynamics that drives the listed outputs with 1-fade, so they
// die out over the fade length.
type Fade []Output

// Value implements Dynamics.
func (f Fade) Value(out Output, _ Coords, fade float64) float64 {
	for _, o := range f {
		if o == out {
			return clamp01(1 - fade)
		}
	}
	return 1
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
