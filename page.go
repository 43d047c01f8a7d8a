package djvuenc

import (
	"encoding/binary"
	"fmt"

	"github.com/djvuenc/djvuenc/internal/bufpool"
	"github.com/djvuenc/djvuenc/internal/bzz"
	"github.com/djvuenc/djvuenc/internal/colorxform"
	"github.com/djvuenc/djvuenc/internal/format"
	"github.com/djvuenc/djvuenc/internal/iff"
	"github.com/djvuenc/djvuenc/internal/iw44"
	"github.com/djvuenc/djvuenc/internal/jb2"
	"github.com/djvuenc/djvuenc/internal/zp"
)

// Page is one page of a Document: a canvas of a given size at a given
// resolution, with an optional continuous-tone background, an optional
// bilevel foreground mask, an optional flat foreground color for that
// mask, and optional text/annotation payloads.
//
// At most one of each layer kind is allowed per page — the struct
// shape itself enforces spec.md §3's "at most one background and one
// foreground mask per page" invariant; there is no list to accidentally
// populate twice.
type Page struct {
	Index  uint32
	Width  int
	Height int

	Background      *PixmapLayer
	ForegroundMask  *BitmapLayer
	ForegroundColor *PixmapLayer
	Thumbnail       *Pixmap

	Annotations []byte
	Text        []byte
}

func (p *Page) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("page %d: dimensions must be positive, got %dx%d", p.Index, p.Width, p.Height)
	}
	if err := p.Background.validate(p.Width, p.Height); err != nil {
		return fmt.Errorf("page %d background: %w", p.Index, err)
	}
	if err := p.ForegroundMask.validate(p.Width, p.Height); err != nil {
		return fmt.Errorf("page %d foreground mask: %w", p.Index, err)
	}
	if err := p.ForegroundColor.validate(p.Width, p.Height); err != nil {
		return fmt.Errorf("page %d foreground color: %w", p.Index, err)
	}
	if p.Thumbnail != nil {
		if err := p.Thumbnail.validate(); err != nil {
			return fmt.Errorf("page %d thumbnail: %w", p.Index, err)
		}
	}
	return nil
}

// encode assembles this page's FORM:DJVU byte sequence (spec §4.8).
// includes lists shared dictionary IDs this page's INCL chunks should
// reference, in insertion order. embedMask controls whether the
// foreground mask is coded directly into this page's own Sjbz chunk
// (false when the document-level symbol-library pass has already
// folded an identical mask into one of includes' shared dictionaries).
func (p *Page) encode(opts Options, includes []string, embedMask bool) ([]byte, error) {
	w := iff.New()
	w.BeginForm(iff.SecondaryDJVU)

	if err := w.WriteChunk(iff.IDINFO, p.infoPayload(opts)); err != nil {
		return nil, newError(OutputError, int(p.Index), err)
	}

	for _, id := range includes {
		if err := w.WriteChunk(iff.IDINCL, []byte(id)); err != nil {
			return nil, newError(OutputError, int(p.Index), err)
		}
	}

	if embedMask && p.ForegroundMask != nil && p.ForegroundMask.Image != nil {
		payload, err := encodeMask(p.ForegroundMask.Image)
		if err != nil {
			return nil, newError(InternalInvariant, int(p.Index), err)
		}
		if err := w.WriteChunk(iff.IDSjbz, payload); err != nil {
			return nil, newError(OutputError, int(p.Index), err)
		}
	}

	if p.ForegroundColor != nil && p.ForegroundColor.Image != nil {
		if err := w.WriteChunk(iff.IDFGbz, fgbzPayload(p.ForegroundColor.Image)); err != nil {
			return nil, newError(OutputError, int(p.Index), err)
		}
		payload := encodeContinuousTone(p.ForegroundColor.Image, opts.Quality)
		if err := w.WriteChunk(iff.IDFG44, payload); err != nil {
			return nil, newError(OutputError, int(p.Index), err)
		}
	}

	if p.Background != nil && p.Background.Image != nil {
		payload := encodeContinuousTone(p.Background.Image, opts.Quality)
		if err := w.WriteChunk(iff.IDBG44, payload); err != nil {
			return nil, newError(OutputError, int(p.Index), err)
		}
	}

	if p.Thumbnail != nil {
		payload := encodeContinuousTone(p.Thumbnail, opts.Quality)
		if err := w.WriteChunk(iff.IDTH44, payload); err != nil {
			return nil, newError(OutputError, int(p.Index), err)
		}
	}

	if len(p.Text) > 0 {
		if err := w.WriteChunk(iff.IDTXTz, bzz.Encode(p.Text)); err != nil {
			return nil, newError(OutputError, int(p.Index), err)
		}
	}
	if len(p.Annotations) > 0 {
		if err := w.WriteChunk(iff.IDANTz, bzz.Encode(p.Annotations)); err != nil {
			return nil, newError(OutputError, int(p.Index), err)
		}
	}

	if err := w.EndForm(); err != nil {
		return nil, newError(OutputError, int(p.Index), err)
	}
	return w.Bytes(), nil
}

// infoPayload builds the 10-byte INFO chunk (spec §4.8.1).
func (p *Page) infoPayload(opts Options) []byte {
	buf := make([]byte, format.INFOSize)
	binary.BigEndian.PutUint16(buf[0:2], uint16(p.Width))
	binary.BigEndian.PutUint16(buf[2:4], uint16(p.Height))
	buf[4] = 0                  // minor version
	buf[5] = byte(opts.Version) // major version
	binary.BigEndian.PutUint16(buf[6:8], uint16(opts.DPI))
	buf[8] = opts.gammaByte()
	buf[9] = 0 // rotation
	return buf
}

// fgbzPayload encodes the mask palette. Full palette quantisation is
// out of scope for this encoder; the palette degenerates to the
// foreground layer's single average color, which is what a flat-color
// text mask (the overwhelmingly common case) needs exactly.
func fgbzPayload(pm *Pixmap) []byte {
	var sum [3]int
	n := 0
	for y := 0; y < pm.Height; y++ {
		for x := 0; x < pm.Width; x++ {
			for c := 0; c < pm.Channels; c++ {
				sum[c] += int(pm.At(x, y, c))
			}
			n++
		}
	}
	out := make([]byte, 3)
	for c := 0; c < pm.Channels; c++ {
		if n > 0 {
			out[c] = byte(sum[c] / n)
		}
	}
	if pm.Channels == 1 {
		out[1], out[2] = out[0], out[0]
	}
	return out
}

// encodeMask runs the mandatory direct (no-library) JB2 path over a
// single bilevel layer and returns the Sjbz chunk payload.
func encodeMask(bmp *Bitmap) ([]byte, error) {
	jbmp := jb2.NewBitmap(bmp.Width, bmp.Height)
	for y := 0; y < bmp.Height; y++ {
		for x := 0; x < bmp.Width; x++ {
			jbmp.Set(x, y, bmp.Get(x, y))
		}
	}
	enc := zp.NewEncoder()
	jb2.NewGenericCoder().Encode(enc, jbmp)
	return enc.Flush(), nil
}

// stopPlaneForQuality maps the 0..100 quality knob onto a bit-plane
// stop depth: 100 codes every plane down to 0 (lossless within the
// quantiser's own precision), lower settings stop earlier, trading
// detail for size exactly as spec §4.4 describes.
func stopPlaneForQuality(quality int) int {
	if quality >= 100 {
		return 0
	}
	if quality <= 0 {
		return 6
	}
	return (100 - quality) * 6 / 100
}

// byteBudgetForQuality caps the coded byte length of a continuous-tone
// chunk's shared ZP stream, implementing spec §4.4's "stop once the
// accumulated coded length exceeds the page's byte budget" in addition
// to stopPlaneForQuality's bit-plane depth cutoff: at quality 100 the
// budget is effectively unbounded (bit-plane depth alone decides when
// to stop), and it scales down linearly with quality below that.
func byteBudgetForQuality(pixelCount, quality int) int {
	if quality >= 100 {
		return 1<<31 - 1
	}
	if quality <= 0 {
		quality = 1
	}
	return pixelCount*quality/50 + 64
}

// encodeContinuousTone runs the color transform, wavelet transform, and
// bit-plane coder over one Pixmap and returns a self-contained chunk
// payload (FG44/BG44/TH44 share this format): a small header followed
// by one shared ZP bitstream coding all three color planes band by
// band, coarsest (DC) band first within each plane.
func encodeContinuousTone(pm *Pixmap, quality int) []byte {
	n := pm.Width * pm.Height
	var y, cb, cr []int16
	if pm.Channels == 3 {
		rgb := make([]byte, n*3)
		for row := 0; row < pm.Height; row++ {
			for col := 0; col < pm.Width; col++ {
				for c := 0; c < 3; c++ {
					rgb[(row*pm.Width+col)*3+c] = pm.At(col, row, c)
				}
			}
		}
		y, cb, cr = colorxform.Forward(rgb, pm.Width, pm.Height, colorxform.DjVuMatrix)
	} else {
		// A single-channel page still needs chroma planes (chroma-less
		// mid-gray) so the band loop below can treat all three planes
		// uniformly; these buffers come from the shared pool since
		// nothing distinguishes them from the 3-channel case once
		// allocated.
		y = bufpool.GetInt16(n)
		cb = bufpool.GetInt16(n)
		cr = bufpool.GetInt16(n)
		defer bufpool.PutInt16(cb)
		defer bufpool.PutInt16(cr)
		defer bufpool.PutInt16(y)
		for row := 0; row < pm.Height; row++ {
			for col := 0; col < pm.Width; col++ {
				y[row*pm.Width+col] = int16(pm.At(col, row, 0)) - 128
			}
		}
	}

	stop := stopPlaneForQuality(quality)
	enc := zp.NewEncoder()
	budget := byteBudgetForQuality(n, quality)
	withinBudget := func() bool { return enc.Len() >= budget }
	totalSlices := 0
	for _, plane := range [][]int16{y, cb, cr} {
		iw44.ForwardTransform(plane, pm.Width, pm.Height, pm.Width)
		coder := iw44.NewCoder(enc)
		for _, band := range iw44.Bands(plane, pm.Width, pm.Height, pm.Width) {
			b := band
			totalSlices += coder.EncodeBand(&b, stop, withinBudget)
		}
	}
	stream := enc.Flush()

	header := make([]byte, 8)
	header[0] = 1 // chunk format version
	binary.BigEndian.PutUint16(header[1:3], uint16(pm.Width))
	binary.BigEndian.PutUint16(header[3:5], uint16(pm.Height))
	binary.BigEndian.PutUint16(header[5:7], uint16(totalSlices))
	header[7] = byte(stop)
	return append(header, stream...)
}
