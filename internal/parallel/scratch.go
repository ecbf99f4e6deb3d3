package parallel

import "sync"

// scratchPool recycles float32 slices between tiles. A full default tile of
// RGBA samples is the common size, so new slices are allocated with at least
// that capacity.
var scratchPool = sync.Pool{
	New: func() any {
		s := make([]float32, 0, TileWidth*TileHeight*4)
		return &s
	},
}

// GetFloats returns a zeroed slice of length n from the scratch pool.
// Return it with PutFloats when done.
func GetFloats(n int) []float32 {
	if n <= 0 {
		return nil
	}
	sp := scratchPool.Get().(*[]float32)
	s := *sp
	if cap(s) < n {
		s = make([]float32, n)
	} else {
		s = s[:n]
		clear(s)
	}
	return s
}

// PutFloats hands s back to the scratch pool. Nil slices are ignored.
// The caller must not use s afterwards.
func PutFloats(s []float32) {
	if s == nil {
		return
	}
	s = s[:0]
	scratchPool.Put(&s)
}
