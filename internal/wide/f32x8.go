package wide

// F32x8 represents 8 float32 values for SIMD-style operations.
// It matches one AVX2 register.
type F32x8 [8]float32

// SplatF32 creates F32x8 with all elements set to n.
func SplatF32(n float32) F32x8 {
	var result F32x8
	for i := range result {
		result[i] = n
	}
	return result
}

// LoadChannel8 gathers channel ch of the first 8 interleaved RGBA samples in
// src. src must hold at least 32 floats.
func LoadChannel8(src []float32, ch int) F32x8 {
	_ = src[31]
	var result F32x8
	for i := range result {
		result[i] = src[i*4+ch]
	}
	return result
}

// StoreChannel scatters v into channel ch of the first 8 interleaved RGBA
// samples in dst. dst must hold at least 32 floats.
func (v F32x8) StoreChannel(dst []float32, ch int) {
	_ = dst[31]
	for i := range v {
		dst[i*4+ch] = v[i]
	}
}

// LoadMask8 returns the first 8 mask values, or all ones for a nil mask.
func LoadMask8(mask []float32) F32x8 {
	if mask == nil {
		return SplatF32(1)
	}
	return F32x8(mask[:8])
}

// Add performs element-wise addition.
func (v F32x8) Add(other F32x8) F32x8 {
	var result F32x8
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

// Sub performs element-wise subtraction.
func (v F32x8) Sub(other F32x8) F32x8 {
	var result F32x8
	for i := range v {
		result[i] = v[i] - other[i]
	}
	return result
}

// Mul performs element-wise multiplication. Each product is rounded to
// float32 before any later addition.
func (v F32x8) Mul(other F32x8) F32x8 {
	var result F32x8
	for i := range v {
		result[i] = float32(v[i] * other[i])
	}
	return result
}

// DivOr divides element-wise. Lanes whose divisor is exactly zero take the
// corresponding lane of fallback instead.
func (v F32x8) DivOr(den, fallback F32x8) F32x8 {
	var result F32x8
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
func (v F32x8) Clamp(minVal, maxVal float32) F32x8 {
	var result F32x8
	for i := range v {
		result[i] = min(max(v[i], minVal), maxVal)
	}
	return result
}
