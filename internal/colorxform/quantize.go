package colorxform

// QuantTable holds one dead-zone quantization step per IW44 band,
// indexed by (level-1)*3+orientation for the detail bands, with index
// len(Steps)-1 reserved for the DC band. The rounding/sign-preserving
// shape is adapted from github.com/deepteams/webp/internal/dsp's
// Quantize/Dequantize pair, generalised from a fixed 4x4 DCT block to
// IW44's variable-size dyadic bands, with magnitudes below step/2
// mapped to zero. The page encoder (page.go) does not call this
// quantizer: it applies quality through the bit-plane stop depth and
// the byte budget, and the wavelet transform itself stays lossless.
type QuantTable struct {
	Steps []int32
}

// NewQuantTable builds a table of n band steps, all equal to one base
// step set by a quality percentage in [0, 100]; the step does not vary
// from band to band. 100 keeps the step at its floor of 1 (effectively
// lossless aside from the IW44 bit-plane stop point), 0 gives the
// coarsest step.
func NewQuantTable(n int, quality int) QuantTable {
	if quality < 0 {
		quality = 0
	}
	if quality > 100 {
		quality = 100
	}
	base := 1 + (100-quality)*3/2 // step 1 at quality 100, up to ~151 at quality 0
	steps := make([]int32, n)
	for i := range steps {
		steps[i] = int32(base)
	}
	return QuantTable{Steps: steps}
}

// Quantize maps a coefficient through the dead-zone quantizer with the
// given step: values whose magnitude is below step/2 collapse to zero,
// others round to the nearest multiple of step past the dead zone.
func Quantize(v int32, step int32) int32 {
	if step <= 1 {
		return v
	}
	sign := int32(1)
	av := v
	if av < 0 {
		sign = -1
		av = -av
	}
	dead := step / 2
	if av < dead {
		return 0
	}
	return sign * ((av + step/2) / step)
}

// Dequantize is Quantize's inverse scaling (not a true inverse — the
// dead zone is lossy), reconstructing a representative coefficient
// value for a quantized level.
func Dequantize(q int32, step int32) int32 {
	if step <= 1 {
		return q
	}
	return q * step
}
