// Package random provides the deterministic seed table behind Dissolve.
//
// The table holds Size seeds drawn once from a fixed master seed. A
// compositing row at absolute y seeds its own generator from entry
// y mod Size, so the dissolve pattern depends only on pixel coordinates and
// never on how an image is tiled or in which order tiles run.
package random

import (
	"math/rand/v2"
	"sync"
)

const (
	// Size is the number of seeds in a table.
	Size = 4096

	// MasterSeed is the seed of the process-wide table.
	MasterSeed = 314159265
)

// Table is an immutable table of row seeds.
type Table struct {
	seeds [Size]uint32
}

// Build returns the table generated from masterSeed by Size sequential draws.
// The same masterSeed always yields the same table.
func Build(masterSeed uint32) *Table {
	src := rand.NewPCG(uint64(masterSeed), uint64(masterSeed))

	t := &Table{}
	for i := range t.seeds {
		t.seeds[i] = uint32(src.Uint64() >> 32)
	}
	return t
}

var defaultTable = sync.OnceValue(func() *Table {
	return Build(MasterSeed)
})

// Default returns the process-wide table for MasterSeed. It is built on first
// use and read-only afterwards.
func Default() *Table {
	return defaultTable()
}

// Seed returns the seed of row y. Negative rows wrap like positive ones:
// row -1 uses entry Size-1.
func (t *Table) Seed(y int) uint32 {
	i := y % Size
	if i < 0 {
		i += Size
	}
	return t.seeds[i]
}

// Row returns a fresh generator for row y. Draw k of the stream belongs to
// column k; columns left of the origin use LeftRow.
func (t *Table) Row(y int) Row {
	return NewRow(t.Seed(y))
}

// LeftRow returns the generator for the negative columns of row y. Draw k
// belongs to column -1-k, so the stream walks away from the origin.
func (t *Table) LeftRow(y int) Row {
	var r Row
	s := uint64(t.Seed(y))
	r.pcg.Seed(s, ^s)
	return r
}
