package random

import "math/rand/v2"

// Row is a small value-type generator scoped to one row of one operator
// call. It lives on the caller's stack; nothing is allocated per row.
type Row struct {
	pcg rand.PCG
}

// NewRow returns a generator seeded with seed.
func NewRow(seed uint32) Row {
	var r Row
	r.pcg.Seed(uint64(seed), uint64(seed))
	return r
}

// Uint32 returns the next 32-bit value of the stream.
func (r *Row) Uint32() uint32 {
	return uint32(r.pcg.Uint64() >> 32)
}

// Skip discards n values. Non-positive n does nothing.
func (r *Row) Skip(n int) {
	for range n {
		r.pcg.Uint64()
	}
}

// Range returns a uniformly distributed value in [0, n). It rejects the top
// of the 32-bit range that would bias the modulo, so every call consumes at
// least one value of the stream. Range panics unless 0 < n <= 1<<31.
func (r *Row) Range(n uint32) uint32 {
	if n == 0 || n > 1<<31 {
		panic("random: Range bound out of range")
	}
	leftover := (0x80000000 % n) * 2
	if leftover >= n {
		leftover -= n
	}
	limit := 0xffffffff - leftover

	v := r.Uint32()
	for v > limit {
		v = r.Uint32()
	}
	return v % n
}
