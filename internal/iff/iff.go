// Package iff implements the chunked container framing DjVu builds on:
// [id:4][len:uint32 BE][payload][pad byte if len is odd], with FORM
// chunks nesting a 4-byte secondary ID plus further chunks inside their
// payload. The length-field reservation and back-patch-on-close pattern
// is adapted from github.com/deepteams/webp/mux's incremental chunk
// assembly (Muxer.AddFrame/AddChunk followed by Assemble), generalised
// from RIFF's flat little-endian layout to IFF's big-endian, arbitrarily
// nestable FORM layout.
package iff

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ID is a 4-byte chunk identifier, written verbatim as ASCII (unlike
// RIFF's little-endian FourCC packing).
type ID [4]byte

// Well-known chunk and secondary-FORM IDs produced by this encoder.
var (
	IDFORM = ID{'F', 'O', 'R', 'M'}
	IDDIRM = ID{'D', 'I', 'R', 'M'}
	IDNAVM = ID{'N', 'A', 'V', 'M'}
	IDINFO = ID{'I', 'N', 'F', 'O'}
	IDINCL = ID{'I', 'N', 'C', 'L'}
	IDSjbz = ID{'S', 'j', 'b', 'z'}
	IDFGbz = ID{'F', 'G', 'b', 'z'}
	IDFG44 = ID{'F', 'G', '4', '4'}
	IDBG44 = ID{'B', 'G', '4', '4'}
	IDTH44 = ID{'T', 'H', '4', '4'}
	IDANTa = ID{'A', 'N', 'T', 'a'}
	IDANTz = ID{'A', 'N', 'T', 'z'}
	IDTXTa = ID{'T', 'X', 'T', 'a'}
	IDTXTz = ID{'T', 'X', 'T', 'z'}
	IDDjbz = ID{'D', 'j', 'b', 'z'}

	SecondaryDJVM = ID{'D', 'J', 'V', 'M'}
	SecondaryDJVU = ID{'D', 'J', 'V', 'U'}
	SecondaryDJVI = ID{'D', 'J', 'V', 'I'}
	SecondaryTHUM = ID{'T', 'H', 'U', 'M'}
)

func (id ID) String() string { return string(id[:]) }

// Magic is the 4-byte prefix that precedes all IFF framing in a DjVu file.
var Magic = [4]byte{0x41, 0x54, 0x26, 0x54} // "AT&T"

// chunkHeaderSize is the fixed 8-byte [id][len] chunk header size.
const chunkHeaderSize = 8

var (
	// ErrUnbalancedForm is returned by EndForm when there is no open
	// FORM to close.
	ErrUnbalancedForm = errors.New("iff: EndForm with no open FORM")
	// ErrChunkTooLarge is returned when a chunk or FORM payload would
	// exceed the 32-bit length field.
	ErrChunkTooLarge = errors.New("iff: chunk payload exceeds uint32 length field")
)

// Writer incrementally assembles an IFF byte stream. FORM chunks are
// opened with BeginForm, may contain any number of WriteChunk/BeginForm
// calls, and are closed with EndForm, which back-patches the reserved
// length field now that the nested size is known.
type Writer struct {
	buf   []byte
	stack []int // buffer offsets of each open FORM's reserved length field
}

// New creates an empty Writer.
func New() *Writer {
	return &Writer{buf: make([]byte, 0, 4096)}
}

// Bytes returns the assembled byte stream. It is an error to call this
// while any BeginForm is unclosed; callers should check that with Depth.
func (w *Writer) Bytes() []byte { return w.buf }

// Depth returns the number of currently-open FORM chunks.
func (w *Writer) Depth() int { return len(w.stack) }

// WriteChunk appends a complete, non-FORM chunk: header, payload, and an
// 0x00 pad byte if the payload length is odd.
func (w *Writer) WriteChunk(id ID, payload []byte) error {
	if uint64(len(payload)) > 0xFFFFFFFF {
		return fmt.Errorf("%w: %s", ErrChunkTooLarge, id)
	}
	w.buf = append(w.buf, id[:]...)
	w.buf = appendU32(w.buf, uint32(len(payload)))
	w.buf = append(w.buf, payload...)
	if len(payload)%2 != 0 {
		w.buf = append(w.buf, 0x00)
	}
	return nil
}

// AppendRaw appends bytes that are already a complete, self-framed
// chunk (typically a nested FORM produced by an earlier, separate
// Writer) directly into the buffer, with no additional header or
// padding. Callers are responsible for ensuring raw already ends on an
// even boundary, as every other chunk this Writer produces does.
func (w *Writer) AppendRaw(raw []byte) {
	w.buf = append(w.buf, raw...)
}

// BeginForm opens a FORM chunk with the given secondary ID, reserving its
// length field to be patched in by the matching EndForm. Returns the
// offset within this Writer's buffer of the FORM's first byte (the 'F'
// of "FORM"); this package's callers do not use it, and document.go
// computes DIRM offsets itself.
func (w *Writer) BeginForm(secondary ID) int {
	formStart := len(w.buf)
	w.buf = append(w.buf, IDFORM[:]...)
	lenOffset := len(w.buf)
	w.buf = appendU32(w.buf, 0) // placeholder, patched by EndForm
	w.buf = append(w.buf, secondary[:]...)
	w.stack = append(w.stack, lenOffset)
	return formStart
}

// EndForm closes the most recently opened FORM, back-patching its length
// field (secondary ID + all nested bytes, excluding FORM's own 8-byte
// header) and padding to an even boundary if necessary.
func (w *Writer) EndForm() error {
	n := len(w.stack)
	if n == 0 {
		return ErrUnbalancedForm
	}
	lenOffset := w.stack[n-1]
	w.stack = w.stack[:n-1]

	payloadLen := len(w.buf) - (lenOffset + 4)
	if payloadLen%2 != 0 {
		w.buf = append(w.buf, 0x00)
	}
	if uint64(payloadLen) > 0xFFFFFFFF {
		return ErrChunkTooLarge
	}
	binary.BigEndian.PutUint32(w.buf[lenOffset:lenOffset+4], uint32(payloadLen))
	return nil
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

// FramedSize returns the on-disk size of a chunk with the given payload
// length: an 8-byte header plus the payload plus one pad byte if odd.
func FramedSize(payloadLen int) int {
	size := chunkHeaderSize + payloadLen
	if payloadLen%2 != 0 {
		size++
	}
	return size
}
