package buffer

import "github.com/gogpu/composite"

// Format is the channel layout of a buffer.
type Format uint8

const (
	// RGBA is four float32 channels, straight alpha.
	RGBA Format = iota

	// Y is one float32 channel: masks and other single-channel data.
	Y

	formatCount
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f < formatCount
}

// Channels returns the number of floats per pixel.
func (f Format) Channels() int {
	if f == Y {
		return 1
	}
	return composite.Channels
}

// String returns "RGBA float" or "Y float".
func (f Format) String() string {
	switch f {
	case RGBA:
		return "RGBA float"
	case Y:
		return "Y float"
	default:
		return "invalid"
	}
}

// Rec. 709 luma weights, used when RGBA data is read as Y.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// luma returns the Y value of a straight-alpha sample.
func luma(s []float32) float32 {
	return lumaR*s[0] + lumaG*s[1] + lumaB*s[2]
}

// convert writes n pixels of src (format from) into dst (format to).
// Y read as RGBA is grey and opaque.
func convert(dst []float32, to Format, src []float32, from Format, n int) {
	switch {
	case from == to:
		copy(dst[:n*to.Channels()], src[:n*from.Channels()])
	case from == RGBA && to == Y:
		for i := range n {
			dst[i] = luma(src[i*4 : i*4+4])
		}
	case from == Y && to == RGBA:
		for i := range n {
			v := src[i]
			dst[i*4] = v
			dst[i*4+1] = v
			dst[i*4+2] = v
			dst[i*4+3] = 1
		}
	}
}
