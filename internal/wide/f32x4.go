package wide

// F32x4 represents 4 float32 values for SIMD-style operations.
// It matches one SSE2 or NEON register.
type F32x4 [4]float32

// SplatF32x4 creates F32x4 with all elements set to n.
func SplatF32x4(n float32) F32x4 {
	var result F32x4
	for i := range result {
		result[i] = n
	}
	return result
}

// LoadChannel4 gathers channel ch of the first 4 interleaved RGBA samples in
// src. src must hold at least 16 floats.
func LoadChannel4(src []float32, ch int) F32x4 {
	_ = src[15]
	var result F32x4
	for i := range result {
		result[i] = src[i*4+ch]
	}
	return result
}

// StoreChannel scatters v into channel ch of the first 4 interleaved RGBA
// samples in dst. dst must hold at least 16 floats.
func (v F32x4) StoreChannel(dst []float32, ch int) {
	_ = dst[15]
	for i := range v {
		dst[i*4+ch] = v[i]
	}
}

// LoadMask4 returns the first 4 mask values, or all ones for a nil mask.
func LoadMask4(mask []float32) F32x4 {
	if mask == nil {
		return SplatF32x4(1)
	}
	return F32x4(mask[:4])
}

// Add performs element-wise addition.
func (v F32x4) Add(other F32x4) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

// Sub performs element-wise subtraction.
func (v F32x4) Sub(other F32x4) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = v[i] - other[i]
	}
	return result
}

// Mul performs element-wise multiplication. Each product is rounded to
// float32 before any later addition.
func (v F32x4) Mul(other F32x4) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = float32(v[i] * other[i])
	}
	return result
}

// DivOr divides element-wise. Lanes whose divisor is exactly zero take the
// corresponding lane of fallback instead.
func (v F32x4) DivOr(den, fallback F32x4) F32x4 {
	var result F32x4
	for i := range v {
		if den[i] != 0 {
			result[i] = v[i] / den[i]
		} else {
			result[i] = fallback[i]
		}
	}
	return result
}

// Clamp clamps each element to [minVal, maxVal].
func (v F32x4) Clamp(minVal, maxVal float32) F32x4 {
	var result F32x4
	for i := range v {
		result[i] = min(max(v[i], minVal), maxVal)
	}
	return result
}
