// Package buffer stores float pixel data for the compositing graph.
//
// A Buffer covers an extent in absolute coordinates. Reads outside the abyss
// (by default the extent itself) return zeros: transparent black for RGBA,
// 0 for Y. Buffers are plain memory: concurrent reads are safe, and
// concurrent writes are safe as long as they touch disjoint pixels, which is
// how the graph renderer uses them.
package buffer

import (
	"errors"
	"fmt"

	"github.com/gogpu/composite"
)

// Common errors for buffer operations.
var (
	// ErrInvalidExtent is returned for empty extents.
	ErrInvalidExtent = errors.New("buffer: invalid extent")

	// ErrInvalidFormat is returned for unknown formats.
	ErrInvalidFormat = errors.New("buffer: invalid format")

	// ErrDataSize is returned when a slice does not match the region it
	// describes.
	ErrDataSize = errors.New("buffer: data size does not match region")

	// ErrNilBuffer is returned when a nil buffer is passed.
	ErrNilBuffer = errors.New("buffer: nil buffer")
)

// Buffer is a rectangle of float pixels.
type Buffer struct {
	data   []float32
	format Format

	// store is the extent of data in storage coordinates; a translated view
	// shares data and adds (dx, dy).
	store  composite.Region
	dx, dy int
}

// New allocates a zeroed buffer covering extent.
func New(extent composite.Region, format Format) (*Buffer, error) {
	if extent.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtent, extent)
	}
	if !format.Valid() {
		return nil, ErrInvalidFormat
	}
	return &Buffer{
		data:   make([]float32, extent.Area()*format.Channels()),
		format: format,
		store:  extent,
	}, nil
}

// FromSlice wraps data, laid out row-major over extent, without copying.
func FromSlice(extent composite.Region, format Format, data []float32) (*Buffer, error) {
	if extent.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtent, extent)
	}
	if !format.Valid() {
		return nil, ErrInvalidFormat
	}
	if len(data) != extent.Area()*format.Channels() {
		return nil, fmt.Errorf("%w: %d floats for %v", ErrDataSize, len(data), extent)
	}
	return &Buffer{data: data, format: format, store: extent}, nil
}

// Extent returns the region covered by the buffer.
func (b *Buffer) Extent() composite.Region {
	return b.store.Translate(b.dx, b.dy)
}

// Abyss returns the region outside which reads return zeros. It equals the
// extent.
func (b *Buffer) Abyss() composite.Region {
	return b.Extent()
}

// Width returns the extent width.
func (b *Buffer) Width() int { return b.store.Width }

// Height returns the extent height.
func (b *Buffer) Height() int { return b.store.Height }

// Format returns the storage format.
func (b *Buffer) Format() Format { return b.format }

// Translated returns a view of b moved by (dx, dy). The view shares pixel
// memory with b.
func (b *Buffer) Translated(dx, dy int) *Buffer {
	v := *b
	v.dx += dx
	v.dy += dy
	return &v
}

// offset returns the index of the first float of pixel (x, y) given in
// absolute coordinates, which must lie inside the extent.
func (b *Buffer) offset(x, y int) int {
	sx := x - b.dx - b.store.X
	sy := y - b.dy - b.store.Y
	return (sy*b.store.Width + sx) * b.format.Channels()
}

// At returns the pixel at (x, y) as an RGBA sample. Y pixels read as opaque
// grey; pixels outside the abyss read as transparent.
func (b *Buffer) At(x, y int) composite.Sample {
	if !b.Extent().Contains(x, y) {
		return composite.Transparent
	}
	var s composite.Sample
	convert(s[:], RGBA, b.data[b.offset(x, y):], b.format, 1)
	return s
}

// Read returns the pixels of roi in the given format. Pixels outside the
// abyss are zero.
func (b *Buffer) Read(roi composite.Region, format Format) []float32 {
	if roi.Empty() {
		return nil
	}
	dst := make([]float32, roi.Area()*format.Channels())
	b.ReadInto(roi, format, dst)
	return dst
}

// ReadInto is Read into a caller-provided slice of exactly
// roi.Area()*format.Channels() floats.
func (b *Buffer) ReadInto(roi composite.Region, format Format, dst []float32) {
	ch := format.Channels()
	if len(dst) != roi.Area()*ch {
		panic(fmt.Sprintf("buffer: ReadInto %v needs %d floats, got %d", roi, roi.Area()*ch, len(dst)))
	}
	clear(dst)

	in := roi.Intersect(b.Extent())
	if in.Empty() {
		return
	}
	for y := in.Y; y < in.MaxY(); y++ {
		d := ((y-roi.Y)*roi.Width + (in.X - roi.X)) * ch
		convert(dst[d:], format, b.data[b.offset(in.X, y):], b.format, in.Width)
	}
}

// Write stores data, laid out row-major over roi in the buffer format.
// Pixels outside the extent are dropped.
func (b *Buffer) Write(roi composite.Region, data []float32) error {
	ch := b.format.Channels()
	if len(data) != roi.Area()*ch {
		return fmt.Errorf("%w: %d floats for %v", ErrDataSize, len(data), roi)
	}

	in := roi.Intersect(b.Extent())
	for y := in.Y; y < in.MaxY(); y++ {
		s := ((y-roi.Y)*roi.Width + (in.X - roi.X)) * ch
		copy(b.data[b.offset(in.X, y):], data[s:s+in.Width*ch])
	}
	return nil
}

// SetColor fills roi, clipped to the extent, with s. Y buffers store the
// luma of s.
func (b *Buffer) SetColor(roi composite.Region, s composite.Sample) {
	in := roi.Intersect(b.Extent())
	ch := b.format.Channels()

	px := s[:]
	if b.format == Y {
		px = []float32{luma(s[:])}
	}
	for y := in.Y; y < in.MaxY(); y++ {
		row := b.data[b.offset(in.X, y):]
		for x := range in.Width {
			copy(row[x*ch:x*ch+ch], px)
		}
	}
}

// Clear sets every pixel to zero.
func (b *Buffer) Clear() {
	clear(b.data)
}

// Clone returns a deep copy of b with the same extent.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.data = append([]float32(nil), b.data...)
	return &c
}

// Copy copies srcRect of src into dst with its top-left corner at dstPoint
// (x, y). Parts outside either buffer are skipped. src and dst may be the
// same buffer only if the rectangles do not overlap.
func Copy(src *Buffer, srcRect composite.Region, dst *Buffer, dstX, dstY int) error {
	if src == nil || dst == nil {
		return ErrNilBuffer
	}

	dx, dy := dstX-srcRect.X, dstY-srcRect.Y
	r := srcRect.Intersect(src.Extent())
	r = r.Translate(dx, dy).Intersect(dst.Extent()).Translate(-dx, -dy)
	if r.Empty() {
		return nil
	}

	for y := r.Y; y < r.MaxY(); y++ {
		convert(dst.data[dst.offset(r.X+dx, y+dy):], dst.format, src.data[src.offset(r.X, y):], src.format, r.Width)
	}
	return nil
}
