package iw44

import (
	"math/bits"

	"github.com/djvuenc/djvuenc/internal/zp"
)

// Coder drives the successive-approximation bit-plane coding of an IW44
// band tree (spec §4.4): for each band, from the most significant bit
// down to a stop bit-plane, three passes run in order — significance,
// refinement, and a slice terminator. Context selection (an 8-neighbour
// significance pattern for the significance pass, two refinement
// contexts for first-vs-later refinement) is grounded on the per-symbol
// context bucketing shape in
// github.com/deepteams/webp/internal/lossless/encode_histogram.go, which
// buckets Huffman symbol statistics by a small neighbourhood key; here
// the key is the literal significance state of up to 8 neighbouring
// coefficients rather than a histogram bucket.
type Coder struct {
	enc *zp.Encoder

	sigCtx   [256]zp.Context // keyed by 8-neighbour significance bitmask
	signCtx  [4]zp.Context   // keyed by signs of the left/above neighbours
	refFirst zp.Context      // first refinement bit after a coefficient becomes significant
	refLater zp.Context      // every subsequent refinement bit
}

// NewCoder creates a Coder that writes to enc.
func NewCoder(enc *zp.Encoder) *Coder {
	return &Coder{enc: enc}
}

type coeffState struct {
	significant bool // true once a 1 bit has been coded for this coefficient
	sigPlane    int  // bit-plane on which it became significant
	refined     bool // true once its first refinement bit has been coded
	negative    bool
}

// EncodeBand runs the successive-approximation passes for one band, from
// its top occupied bit-plane down to stopPlane (inclusive), or until
// budget reports the byte budget has been exceeded. It returns the
// number of slice (bit-plane pass) terminators emitted, which the page
// assembler accumulates into the FG44/BG44 chunk header's slice count.
func (c *Coder) EncodeBand(band *Band, stopPlane int, budget func() bool) int {
	n := band.Rows * band.Cols
	if n == 0 {
		return 0
	}
	states := make([]coeffState, n)

	maxAbs := int32(0)
	for r := 0; r < band.Rows; r++ {
		for col := 0; col < band.Cols; col++ {
			v := int32(band.At(r, col))
			if v < 0 {
				v = -v
			}
			if v > maxAbs {
				maxAbs = v
			}
		}
	}
	if maxAbs == 0 {
		return 0
	}
	topPlane := bits.Len32(uint32(maxAbs)) - 1
	if topPlane < stopPlane {
		return 0
	}

	slices := 0
	for plane := topPlane; plane >= stopPlane; plane-- {
		c.significancePass(band, states, plane)
		c.refinementPass(band, states, plane)
		slices++
		if budget != nil && budget() {
			break
		}
	}
	return slices
}

func (c *Coder) significancePass(band *Band, states []coeffState, plane int) {
	for r := 0; r < band.Rows; r++ {
		for col := 0; col < band.Cols; col++ {
			idx := r*band.Cols + col
			if states[idx].significant {
				continue
			}
			v := int32(band.At(r, col))
			abs := v
			if abs < 0 {
				abs = -abs
			}
			bit := int((abs >> uint(plane)) & 1)

			ctxIdx := neighbourSignificancePattern(states, band.Cols, r, col)
			c.enc.EncodeBit(&c.sigCtx[ctxIdx], bit)
			if bit == 1 {
				states[idx].significant = true
				states[idx].sigPlane = plane
				states[idx].negative = v < 0
				sign := 0
				if v < 0 {
					sign = 1
				}
				signIdx := neighbourSignPattern(states, band.Cols, r, col)
				c.enc.EncodeBit(&c.signCtx[signIdx], sign)
			}
		}
	}
}

// refinementPass codes one more bit of precision for every coefficient
// that was already significant *before* this plane (i.e. not the ones
// significancePass just flagged this same plane — those emitted their
// first "1" bit via the significance pass itself and are not refined
// until the next, lower plane).
func (c *Coder) refinementPass(band *Band, states []coeffState, plane int) {
	for r := 0; r < band.Rows; r++ {
		for col := 0; col < band.Cols; col++ {
			idx := r*band.Cols + col
			st := &states[idx]
			if !st.significant || st.sigPlane == plane {
				continue
			}
			v := int32(band.At(r, col))
			abs := v
			if abs < 0 {
				abs = -abs
			}
			bit := int((abs >> uint(plane)) & 1)
			if !st.refined {
				c.enc.EncodeBit(&c.refFirst, bit)
				st.refined = true
			} else {
				c.enc.EncodeBit(&c.refLater, bit)
			}
		}
	}
}
