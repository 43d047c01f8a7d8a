package jb2

import "github.com/djvuenc/djvuenc/internal/zp"

// contextBits is the width of the generic-region context template: four
// pixels from two rows above the current one, five from the row above,
// and one already-coded pixel on the current row, giving a 10-bit
// (1024-entry) context space.
const contextBits = 10
const numContexts = 1 << contextBits

// GenericCoder codes a bilevel bitmap directly, pixel by pixel, with no
// symbol recognition: every pixel is predicted from a fixed template of
// already-coded neighbours and arithmetic-coded against the context
// that template selects. This is the mandatory "direct" Sjbz path
// (spec §4.6); it is always correct, just less compact than symbol
// coding for text-heavy pages with many repeated glyphs.
type GenericCoder struct {
	ctx [numContexts]zp.Context
}

// NewGenericCoder returns a GenericCoder with freshly initialised,
// independent contexts.
func NewGenericCoder() *GenericCoder {
	return &GenericCoder{}
}

// Encode arithmetic-codes bmp's pixels in raster order into enc.
func (g *GenericCoder) Encode(enc *zp.Encoder, bmp *Bitmap) {
	for y := 0; y < bmp.H; y++ {
		for x := 0; x < bmp.W; x++ {
			ctx := genericContext(bmp, x, y)
			enc.EncodeBit(&g.ctx[ctx], bmp.Get(x, y))
		}
	}
}

// Decode reconstructs a w x h bitmap by running the same template and
// context set Encode used, in the same raster order, against dec.
func (g *GenericCoder) Decode(dec *zp.Decoder, w, h int) *Bitmap {
	bmp := NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ctx := genericContext(bmp, x, y)
			bit := dec.DecodeBit(&g.ctx[ctx])
			bmp.Set(x, y, bit)
		}
	}
	return bmp
}

// genericContext builds the 10-bit neighbour pattern for the pixel at
// (x, y): columns x-2..x+1 two rows up, columns x-2..x+2 one row up, and
// the already-coded pixel immediately to the left on the current row.
// Pixels outside the bitmap read as background (0), matching
// Bitmap.Get's out-of-range behaviour.
func genericContext(bmp *Bitmap, x, y int) int {
	ctx := 0
	ctx = ctx<<1 | bmp.Get(x-2, y-2)
	ctx = ctx<<1 | bmp.Get(x-1, y-2)
	ctx = ctx<<1 | bmp.Get(x, y-2)
	ctx = ctx<<1 | bmp.Get(x+1, y-2)
	ctx = ctx<<1 | bmp.Get(x-2, y-1)
	ctx = ctx<<1 | bmp.Get(x-1, y-1)
	ctx = ctx<<1 | bmp.Get(x, y-1)
	ctx = ctx<<1 | bmp.Get(x+1, y-1)
	ctx = ctx<<1 | bmp.Get(x+2, y-1)
	ctx = ctx<<1 | bmp.Get(x-1, y)
	return ctx
}
