package djvuenc

import "fmt"

// Pixmap is a rectangular array of 8-bit samples: either 3-channel RGB
// or single-channel grayscale, addressed with an explicit row stride
// so sub-image views can share a backing array without copying.
type Pixmap struct {
	Width, Height int
	Channels      int // 1 (grayscale) or 3 (RGB)
	Stride        int // bytes per row; must be >= Width*Channels
	Pix           []byte
}

func (p *Pixmap) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("pixmap dimensions must be positive, got %dx%d", p.Width, p.Height)
	}
	if p.Channels != 1 && p.Channels != 3 {
		return fmt.Errorf("pixmap channel count must be 1 or 3, got %d", p.Channels)
	}
	if p.Stride < p.Width*p.Channels {
		return fmt.Errorf("pixmap stride %d shorter than width*channels %d", p.Stride, p.Width*p.Channels)
	}
	if len(p.Pix) < p.Stride*p.Height {
		return fmt.Errorf("pixmap buffer has %d bytes, need at least %d", len(p.Pix), p.Stride*p.Height)
	}
	return nil
}

// At returns the channel value at (x, y, c).
func (p *Pixmap) At(x, y, c int) byte {
	return p.Pix[y*p.Stride+x*p.Channels+c]
}

// Bitmap is a rectangular array of 1-bit values, packed MSB-first per
// row; width W, height H, row bytes = ceil(W/8). A set bit denotes
// "ink" (foreground).
type Bitmap struct {
	Width, Height int
	Stride        int // bytes per row; must be >= ceil(Width/8)
	Bits          []byte
}

func (b *Bitmap) validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("bitmap dimensions must be positive, got %dx%d", b.Width, b.Height)
	}
	minStride := (b.Width + 7) / 8
	if b.Stride < minStride {
		return fmt.Errorf("bitmap stride %d shorter than ceil(width/8) %d", b.Stride, minStride)
	}
	if len(b.Bits) < b.Stride*b.Height {
		return fmt.Errorf("bitmap buffer has %d bytes, need at least %d", len(b.Bits), b.Stride*b.Height)
	}
	return nil
}

// Get returns 1 if the pixel at (x, y) is ink, 0 otherwise.
func (b *Bitmap) Get(x, y int) int {
	byteIdx := y*b.Stride + x/8
	bit := 7 - uint(x%8)
	return int((b.Bits[byteIdx] >> bit) & 1)
}

// PixmapLayer positions a Pixmap on a page canvas. The payload need
// not cover the whole page; pixels outside it are treated as
// background.
type PixmapLayer struct {
	Image            *Pixmap
	OffsetX, OffsetY int32
}

// BitmapLayer positions a Bitmap on a page canvas.
type BitmapLayer struct {
	Image            *Bitmap
	OffsetX, OffsetY int32
}

func (l *PixmapLayer) validate(pageW, pageH int) error {
	if l == nil || l.Image == nil {
		return nil
	}
	if err := l.Image.validate(); err != nil {
		return err
	}
	return validatePlacement(int(l.OffsetX), int(l.OffsetY), l.Image.Width, l.Image.Height, pageW, pageH)
}

func (l *BitmapLayer) validate(pageW, pageH int) error {
	if l == nil || l.Image == nil {
		return nil
	}
	if err := l.Image.validate(); err != nil {
		return err
	}
	return validatePlacement(int(l.OffsetX), int(l.OffsetY), l.Image.Width, l.Image.Height, pageW, pageH)
}

// validatePlacement rejects a layer positioned so far outside the page
// canvas that none of its payload could ever be visible.
func validatePlacement(offX, offY, w, h, pageW, pageH int) error {
	if offX+w <= 0 || offY+h <= 0 || offX >= pageW || offY >= pageH {
		return fmt.Errorf("layer at (%d,%d) size %dx%d falls entirely outside a %dx%d page", offX, offY, w, h, pageW, pageH)
	}
	return nil
}
