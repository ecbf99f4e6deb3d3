package operator

import (
	"github.com/gogpu/composite"
	"github.com/gogpu/composite/internal/random"
)

// Dissolve replaces input pixels by the fully opaque layer colour with
// probability aux.a * opacity * mask, and keeps them unchanged otherwise.
//
// Each row at absolute y draws from its own generator seeded from the
// process-wide seed table, skipped forward by roi.X draws. A pixel's draw
// therefore depends only on its absolute coordinates: rendering a region in
// one call or in any set of tiles gives identical output. Columns left of the
// origin draw from a second stream that is walked right to left.
func Dissolve(in, aux, mask, out []float32, opacity float32, roi composite.Region) {
	checkArgs(in, aux, mask, out, roi)
	table := random.Default()

	// Columns before split are negative.
	split := roi.X
	if split < 0 {
		split = min(0, roi.MaxX())
	}

	for y := roi.Y; y < roi.MaxY(); y++ {
		row := (y - roi.Y) * roi.Width

		if roi.X < split {
			gen := table.LeftRow(y)
			gen.Skip(-split)
			for x := split - 1; x >= roi.X; x-- {
				dissolvePixel(&gen, in, aux, mask, out, opacity, row+x-roi.X)
			}
		}

		if split < roi.MaxX() {
			gen := table.Row(y)
			gen.Skip(split)
			for x := split; x < roi.MaxX(); x++ {
				dissolvePixel(&gen, in, aux, mask, out, opacity, row+x-roi.X)
			}
		}
	}
}

func dissolvePixel(gen *random.Row, in, aux, mask, out []float32, opacity float32, i int) {
	p := i * 4
	value := aux[p+3] * opacity * 255 * maskAt(mask, i)

	if float32(gen.Range(255)) >= value {
		copy(out[p:p+4], in[p:p+4])
		return
	}
	out[p] = aux[p]
	out[p+1] = aux[p+1]
	out[p+2] = aux[p+2]
	out[p+3] = 1
}
