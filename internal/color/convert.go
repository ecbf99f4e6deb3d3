// Package color provides the sRGB transfer curve used by linear-light
// compositing.
//
// Only colour channels are ever converted: alpha is linear in both spaces.
// Values outside [0, 1] are mirrored around zero and extended past one with
// the same curve, so out-of-range intermediates survive a round trip.
package color

import "math"

// SRGBToLinear converts an sRGB component to linear (EOTF).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
func SRGBToLinear(s float32) float32 {
	if s < 0 {
		return -SRGBToLinear(-s)
	}
	if s <= 0.04045 {
		return s / 12.92
	}
	return float32(math.Pow(float64((s+0.055)/1.055), 2.4))
}

// LinearToSRGB converts a linear component to sRGB (OETF).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
func LinearToSRGB(l float32) float32 {
	if l < 0 {
		return -LinearToSRGB(-l)
	}
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*float32(math.Pow(float64(l), 1.0/2.4)) - 0.055
}

// ToLinear converts the colour channels of interleaved RGBA samples from sRGB
// to linear in place. Alpha is left alone.
func ToLinear(rgba []float32) {
	for i := 0; i+3 < len(rgba); i += 4 {
		rgba[i] = SRGBToLinear(rgba[i])
		rgba[i+1] = SRGBToLinear(rgba[i+1])
		rgba[i+2] = SRGBToLinear(rgba[i+2])
	}
}

// ToSRGB converts the colour channels of interleaved RGBA samples from linear
// to sRGB in place. Alpha is left alone.
func ToSRGB(rgba []float32) {
	for i := 0; i+3 < len(rgba); i += 4 {
		rgba[i] = LinearToSRGB(rgba[i])
		rgba[i+1] = LinearToSRGB(rgba[i+1])
		rgba[i+2] = LinearToSRGB(rgba[i+2])
	}
}
