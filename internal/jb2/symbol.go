package jb2

import "github.com/djvuenc/djvuenc/internal/zp"

// cacheHashBits sizes the fingerprint table; collisions are resolved by
// falling back to direct coding, never by misidentifying a shape, so
// this only trades a little compression for table size.
const cacheHashBits = 12
const cacheHashSize = 1 << cacheHashBits

// hashMul is an arbitrary odd multiplier for the fingerprint hash,
// playing the same role as the VP8L color cache's kHashMul constant.
const hashMul = 0x9e3779b1

// SymbolCache is a hash-addressed table of recently coded symbol
// bitmaps, letting the library-based JB2 path recognise a repeated
// glyph shape and code a short back-reference instead of the full
// bitmap again. It is grounded on
// github.com/deepteams/webp/internal/lossless.ColorCache's
// hash-insert-lookup shape, generalised from a single ARGB word per
// slot to a variable-size bitmap per slot.
type SymbolCache struct {
	slots []*Bitmap // index -> stored bitmap, nil until first use
	order []int     // slots in insertion order, oldest first; eviction is by slot overwrite in Insert
}

// NewSymbolCache allocates an empty cache.
func NewSymbolCache() *SymbolCache {
	return &SymbolCache{slots: make([]*Bitmap, cacheHashSize)}
}

func fingerprint(b *Bitmap) uint32 {
	h := uint32(b.W)*131 + uint32(b.H)
	for _, by := range b.Bits {
		h = h*hashMul + uint32(by)
	}
	return (h * hashMul) >> (32 - cacheHashBits)
}

// Lookup returns the slot index of an identical previously seen
// bitmap, or (-1, false) if none is cached at bmp's fingerprint slot.
func (c *SymbolCache) Lookup(bmp *Bitmap) (int, bool) {
	slot := int(fingerprint(bmp))
	if c.slots[slot] != nil && c.slots[slot].Equal(bmp) {
		return slot, true
	}
	return -1, false
}

// Insert stores bmp at its fingerprint slot, evicting whatever
// (unrelated) bitmap previously occupied it.
func (c *SymbolCache) Insert(bmp *Bitmap) int {
	slot := int(fingerprint(bmp))
	c.slots[slot] = bmp
	c.order = append(c.order, slot)
	return slot
}

// SymbolCoder codes a sequence of symbol bitmaps (spec's optional
// Djbz/shared-library path): each call either matches an already-seen
// shape, coding a one-bit flag plus its cache slot, or codes the shape
// directly through a GenericCoder and remembers it for future matches.
type SymbolCoder struct {
	cache    *SymbolCache
	generic  *GenericCoder
	matchCtx zp.Context
	slotCtx  [cacheHashBits]zp.Context
}

// NewSymbolCoder returns a SymbolCoder with a fresh cache and generic
// fallback coder.
func NewSymbolCoder() *SymbolCoder {
	return &SymbolCoder{cache: NewSymbolCache(), generic: NewGenericCoder()}
}

// EncodeSymbol codes bmp into enc, returning true if it matched an
// already-cached shape (and so was coded as a short reference) or
// false if it was coded directly and newly cached.
func (s *SymbolCoder) EncodeSymbol(enc *zp.Encoder, bmp *Bitmap) bool {
	if slot, ok := s.cache.Lookup(bmp); ok {
		enc.EncodeBit(&s.matchCtx, 1)
		for i := 0; i < cacheHashBits; i++ {
			bit := (slot >> uint(cacheHashBits-1-i)) & 1
			enc.EncodeBit(&s.slotCtx[i], bit)
		}
		return true
	}
	enc.EncodeBit(&s.matchCtx, 0)
	s.generic.Encode(enc, bmp)
	s.cache.Insert(bmp)
	return false
}

// DecodeSymbol reconstructs one symbol bitmap of the given dimensions,
// mirroring EncodeSymbol's flag/slot/direct-coding order exactly. w
// and h must come from the same sideband (symbol dictionary entry
// dimensions) the encoder used for this call.
func (s *SymbolCoder) DecodeSymbol(dec *zp.Decoder, w, h int) *Bitmap {
	if dec.DecodeBit(&s.matchCtx) == 1 {
		slot := 0
		for i := 0; i < cacheHashBits; i++ {
			bit := dec.DecodeBit(&s.slotCtx[i])
			slot = slot<<1 | bit
		}
		return s.cache.slots[slot]
	}
	bmp := s.generic.Decode(dec, w, h)
	s.cache.Insert(bmp)
	return bmp
}
