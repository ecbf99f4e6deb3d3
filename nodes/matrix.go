package nodes

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/graph"
)

// ErrInvalidMatrix is returned by ParseMatrix for malformed strings.
var ErrInvalidMatrix = errors.New("nodes: invalid matrix")

// Identity returns the 3x3 identity matrix.
func Identity() f64.Mat3 {
	return f64.Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// FormatMatrix serialises m, row-major, as
// "matrix(a, b, c, d, e, f, g, h, i)". Numbers use the shortest
// representation that parses back to the same float64.
func FormatMatrix(m f64.Mat3) string {
	var sb strings.Builder
	sb.WriteString("matrix(")
	for i, v := range m {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	sb.WriteByte(')')
	return sb.String()
}

// ParseMatrix is the inverse of FormatMatrix. The empty string is the
// identity. Whitespace around numbers is ignored.
func ParseMatrix(s string) (f64.Mat3, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identity(), nil
	}
	body, ok := strings.CutPrefix(s, "matrix(")
	if !ok {
		return f64.Mat3{}, fmt.Errorf("%w: %q", ErrInvalidMatrix, s)
	}
	body, ok = strings.CutSuffix(body, ")")
	if !ok {
		return f64.Mat3{}, fmt.Errorf("%w: %q", ErrInvalidMatrix, s)
	}

	fields := strings.Split(body, ",")
	if len(fields) != 9 {
		return f64.Mat3{}, fmt.Errorf("%w: %d values, want 9", ErrInvalidMatrix, len(fields))
	}
	var m f64.Mat3
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return f64.Mat3{}, fmt.Errorf("%w: %w", ErrInvalidMatrix, err)
		}
		m[i] = v
	}
	return m, nil
}

// finite reports whether every entry of m is a finite number.
func finite(m f64.Mat3) bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// affine is the 2D part of a transform matrix with its inverse. The
// projective row is ignored apart from its scale m[8].
type affine struct {
	fwd, inv f64.Aff3

	// degenerate transforms map everything onto a line or point; they
	// produce no pixels.
	degenerate bool
}

// newAffine returns the affine part of m and whether m differs from the
// identity.
func newAffine(m f64.Mat3) (affine, bool) {
	if m == Identity() {
		return affine{}, false
	}
	w := m[8]
	if w == 0 || !finite(m) {
		return affine{degenerate: true}, true
	}
	a, b, c := m[0]/w, m[1]/w, m[2]/w
	d, e, f := m[3]/w, m[4]/w, m[5]/w

	det := a*e - b*d
	if det == 0 {
		return affine{degenerate: true}, true
	}
	return affine{
		fwd: f64.Aff3{a, b, c, d, e, f},
		inv: f64.Aff3{
			e / det, -b / det, (b*f - c*e) / det,
			-d / det, a / det, (c*d - a*f) / det,
		},
	}, true
}

// transformOf returns the transform stored in n's "transform" property.
// ok is false when there is none or it is the identity. Malformed strings
// count as the identity.
func transformOf(n *graph.Node) (affine, bool) {
	m, err := ParseMatrix(n.Text(propTransform))
	if err != nil {
		return affine{}, false
	}
	return newAffine(m)
}

func apply(t f64.Aff3, x, y float64) (float64, float64) {
	return t[0]*x + t[1]*y + t[2], t[3]*x + t[4]*y + t[5]
}

// limit keeps mapped coordinates inside the graph's infinite plane.
const limit = float64(1 << 29)

// mapBounds returns the pixel-aligned bounding box of r mapped through t.
func mapBounds(t f64.Aff3, r composite.Region) composite.Region {
	if r.Empty() {
		return composite.Region{}
	}
	x0, y0 := float64(r.X), float64(r.Y)
	x1, y1 := float64(r.MaxX()), float64(r.MaxY())

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		x, y := apply(t, p[0], p[1])
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}

	ix0 := int(math.Floor(max(minX, -limit)))
	iy0 := int(math.Floor(max(minY, -limit)))
	ix1 := int(math.Ceil(min(maxX, limit)))
	iy1 := int(math.Ceil(min(maxY, limit)))
	return composite.Rect(ix0, iy0, ix1-ix0, iy1-iy0).Intersect(graph.Infinite)
}

// bounds returns where the transformed src can be non-transparent.
func (t affine) bounds(src composite.Region) composite.Region {
	if t.degenerate {
		return composite.Region{}
	}
	return mapBounds(t.fwd, src)
}

// sample renders pad of in, transformed by t, over roi into dst using
// nearest-neighbour sampling at pixel centres.
func (t affine) sample(in *graph.Inputs, pad string, roi composite.Region, dst []float32) error {
	clear(dst)
	if t.degenerate {
		return nil
	}

	// One pixel of margin covers centres that land on the box edge.
	need := mapBounds(t.inv, roi)
	need = composite.Rect(need.X-1, need.Y-1, need.Width+2, need.Height+2)
	need = need.Intersect(in.Extent(pad))
	if need.Empty() {
		return nil
	}
	src, err := in.Buffer(pad, need)
	if err != nil || src == nil {
		return err
	}

	i := 0
	for y := roi.Y; y < roi.MaxY(); y++ {
		for x := roi.X; x < roi.MaxX(); x++ {
			sx, sy := apply(t.inv, float64(x)+0.5, float64(y)+0.5)
			px, py := int(math.Floor(sx)), int(math.Floor(sy))
			if need.Contains(px, py) {
				s := src.At(px, py)
				copy(dst[i:i+4], s[:])
			}
			i += 4
		}
	}
	return nil
}
