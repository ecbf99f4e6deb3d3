// Package parallel provides the tile-parallel scheduling used by the graph
// renderer.
//
// A render region is split into tiles on a grid anchored at the absolute
// origin, so a pixel always falls in the same tile no matter which region
// is requested. Tiles are rendered independently on a WorkerPool and write
// disjoint parts of the output.
//
//   - 64x64 tiles by default (64 KiB of float32 RGBA per tile)
//   - float32 scratch slices recycled through sync.Pool
//   - context cancellation checked between tiles
//
// Thread safety: WorkerPool and the scratch pool are safe for concurrent use.
// Tile values are plain data.
package parallel

import (
	"errors"

	"github.com/gogpu/composite"
)

// ErrPoolClosed is returned by Execute on a closed pool.
var ErrPoolClosed = errors.New("parallel: worker pool closed")

// Default tile size in pixels.
const (
	TileWidth  = 64
	TileHeight = 64
)

// Tile is one unit of parallel work: a sub-region of a render request.
type Tile struct {
	// Column and Row index the tile on the absolute grid. They may be
	// negative for regions left of or above the origin.
	Column int
	Row    int

	// Region is the part of the request covered by this tile, in absolute
	// coordinates. Edge tiles are clipped to the request.
	Region composite.Region
}

// Split divides roi into tiles of tileW x tileH on the grid anchored at
// (0, 0). Non-positive tile sizes fall back to the defaults. Tiles are
// returned in row-major order; an empty roi yields no tiles.
func Split(roi composite.Region, tileW, tileH int) []Tile {
	if roi.Empty() {
		return nil
	}
	if tileW <= 0 {
		tileW = TileWidth
	}
	if tileH <= 0 {
		tileH = TileHeight
	}

	c0, c1 := floorDiv(roi.X, tileW), floorDiv(roi.MaxX()-1, tileW)
	r0, r1 := floorDiv(roi.Y, tileH), floorDiv(roi.MaxY()-1, tileH)

	tiles := make([]Tile, 0, (c1-c0+1)*(r1-r0+1))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cell := composite.Rect(col*tileW, row*tileH, tileW, tileH)
			tiles = append(tiles, Tile{
				Column: col,
				Row:    row,
				Region: cell.Intersect(roi),
			})
		}
	}
	return tiles
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
