package colorxform

import (
	"math"
	"sync"
)

// gammaTabBits sizes the lookup table used by Corrector; 10 bits
// matches sharpyuv's gammaToLinearTabBits.
const gammaTabBits = 10
const gammaTabSize = 1 << gammaTabBits

// Corrector applies a fixed gamma curve to 8-bit sample values via a
// precomputed lookup table, the table technique of sharpyuv's
// toLinearSrgb/fromLinearSrgb, generalised from the fixed sRGB curve to
// an arbitrary exponent so it can serve whatever gamma the page's
// encode options specify. Lookups read the nearest table entry; there
// is no interpolation between entries.
type Corrector struct {
	toLinear   [gammaTabSize + 1]uint16
	fromLinear [gammaTabSize + 1]uint16
	once       sync.Once
	gamma      float64
}

// NewCorrector builds a Corrector for the given gamma exponent (spec
// range: 1.0-5.0). The tables are built lazily on first use.
func NewCorrector(gamma float64) *Corrector {
	return &Corrector{gamma: gamma}
}

func (c *Corrector) init() {
	c.once.Do(func() {
		norm := 1.0 / float64(gammaTabSize)
		for v := 0; v <= gammaTabSize; v++ {
			x := norm * float64(v)
			c.toLinear[v] = uint16(math.Pow(x, c.gamma)*float64(gammaTabSize) + 0.5)
			c.fromLinear[v] = uint16(math.Pow(x, 1.0/c.gamma)*float64(gammaTabSize) + 0.5)
		}
	})
}

// ToLinear maps an 8-bit gamma-encoded sample to a gammaTabBits-wide
// linear-light value.
func (c *Corrector) ToLinear(v byte) uint16 {
	c.init()
	idx := int(v) << (gammaTabBits - 8)
	return c.toLinear[idx]
}

// FromLinear is ToLinear's inverse, mapping a gammaTabBits-wide
// linear-light value back down to an 8-bit gamma-encoded sample.
func (c *Corrector) FromLinear(v uint16) byte {
	c.init()
	idx := int(v)
	if idx > gammaTabSize {
		idx = gammaTabSize
	}
	out := c.fromLinear[idx] >> (gammaTabBits - 8)
	if out > 255 {
		out = 255
	}
	return byte(out)
}
