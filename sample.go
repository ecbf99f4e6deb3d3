package composite

import "fmt"

// Channel indices into a Sample and into flat sample arrays.
const (
	R = iota
	G
	B
	A

	// Channels is the number of floats per sample in flat RGBA arrays.
	Channels = 4
)

// Sample is one pixel as seen by a compositing operator: red, green, blue and
// alpha, straight (non-premultiplied). Components are conventionally in [0, 1]
// but intermediate results may leave that range.
type Sample [4]float32

// RGBA returns a Sample from its four components.
func RGBA(r, g, b, a float32) Sample {
	return Sample{r, g, b, a}
}

// Opaque returns a fully opaque Sample.
func Opaque(r, g, b float32) Sample {
	return Sample{r, g, b, 1}
}

// Transparent is the sample read outside a buffer's abyss.
var Transparent = Sample{}

// Region is an axis-aligned rectangle in absolute image coordinates.
//
// Absolute position matters, not only size: deterministic effects such as
// Dissolve are keyed on the absolute row and column.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Rect returns a Region from its origin and size.
func Rect(x, y, width, height int) Region {
	return Region{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of pixels in the region, 0 for empty regions.
func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// MaxX returns the exclusive right edge.
func (r Region) MaxX() int { return r.X + r.Width }

// MaxY returns the exclusive bottom edge.
func (r Region) MaxY() int { return r.Y + r.Height }

// Contains reports whether the pixel (x, y) lies inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// ContainsRegion reports whether o lies entirely inside r.
// An empty o is contained in every region.
func (r Region) ContainsRegion(o Region) bool {
	if o.Empty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// Intersect returns the largest region contained in both r and o.
// The result is the zero Region when they do not overlap.
func (r Region) Intersect(o Region) Region {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.MaxX(), o.MaxX())
	y1 := min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Region{}
	}
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Overlaps reports whether r and o share at least one pixel.
func (r Region) Overlaps(o Region) bool {
	return !r.Intersect(o).Empty()
}

// Union returns the smallest region containing both r and o.
// Empty operands are ignored.
func (r Region) Union(o Region) Region {
	switch {
	case r.Empty():
		return o
	case o.Empty():
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.MaxX(), o.MaxX())
	y1 := max(r.MaxY(), o.MaxY())
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Translate returns r moved by (dx, dy).
func (r Region) Translate(dx, dy int) Region {
	r.X += dx
	r.Y += dy
	return r
}

// String returns "WxH+X+Y".
func (r Region) String() string {
	return fmt.Sprintf("%dx%d%+d%+d", r.Width, r.Height, r.X, r.Y)
}
