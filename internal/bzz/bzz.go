// Package bzz implements the block-sorting compressor used to shrink
// the document directory (DIRM) payload: a Burrows-Wheeler transform
// followed by move-to-front recoding and adaptive binary arithmetic
// coding of the resulting ranks.
//
// There is no single teacher file for a BWT compressor — the pack has
// no lossless block-sort stage — so the surrounding shape (a small
// self-contained transform type plus a symmetric Encode/Decode pair,
// growable output buffers, and small named constants for tunables) is
// grounded on github.com/deepteams/webp/internal/lossless's
// BackwardRefs/HashChain pairing: a preparatory transform
// (bwt.go/mtf.go here, hash-chain matching there) feeding a final
// entropy stage (zp here, the VP8L Huffman stage there). The entropy
// stage itself reuses internal/zp's adaptive binary coder rather than
// a fresh implementation.
package bzz

import (
	"encoding/binary"
	"errors"

	"github.com/djvuenc/djvuenc/internal/format"
	"github.com/djvuenc/djvuenc/internal/zp"
)

// ErrTruncated is returned by Decode when the input ends before a
// complete block header or payload has been read.
var ErrTruncated = errors.New("bzz: truncated input")

// BlockSize is the maximum number of bytes BWT-sorted as one unit.
// Spec: directory payloads are split into format.BZZBlockSize chunks
// before block-sorting, bounding both sort cost and the size of the
// move-to-front alphabet state reset between blocks.
const BlockSize = format.BZZBlockSize

// Encode compresses data by splitting it into BlockSize-sized blocks,
// running BWT+MTF+adaptive-binary-coding independently on each, and
// concatenating the results behind a small framing header per block
// (original length, BWT primary index, coded byte length).
func Encode(data []byte) []byte {
	out := make([]byte, 0, len(data)/2+16)
	for off := 0; off < len(data); off += BlockSize {
		end := off + BlockSize
		if end > len(data) {
			end = len(data)
		}
		out = append(out, encodeBlock(data[off:end])...)
	}
	return out
}

func encodeBlock(block []byte) []byte {
	sorted, primary := bwtTransform(block)
	ranks := mtfEncode(sorted)
	coded := zpEncodeRanks(ranks)

	header := make([]byte, 0, 16)
	header = appendUvarint(header, uint64(len(block)))
	header = appendUvarint(header, uint64(primary))
	header = appendUvarint(header, uint64(len(coded)))
	return append(header, coded...)
}

// Decode reverses Encode, reconstructing the original byte stream
// exactly (spec invariant: Decode(Encode(s)) == s).
func Decode(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)*2)
	pos := 0
	for pos < len(data) {
		blockLen, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return nil, ErrTruncated
		}
		pos += n
		primary64, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return nil, ErrTruncated
		}
		pos += n
		codedLen, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return nil, ErrTruncated
		}
		pos += n
		if pos+int(codedLen) > len(data) {
			return nil, ErrTruncated
		}
		coded := data[pos : pos+int(codedLen)]
		pos += int(codedLen)

		ranks := zpDecodeRanks(coded, int(blockLen))
		sorted := mtfDecode(ranks)
		block := bwtInverse(sorted, int(primary64))
		out = append(out, block...)
	}
	return out, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// zpEncodeRanks arithmetic-codes each MTF rank byte through an 8-level
// binary context tree (256 nodes, one per bit-prefix), the same
// Context-array-per-symbol-position shape internal/iw44's bitplane
// coder uses for its significance/refinement contexts.
func zpEncodeRanks(ranks []byte) []byte {
	enc := zp.NewEncoder()
	var tree [256]zp.Context
	for _, r := range ranks {
		node := 1
		for bitPos := 7; bitPos >= 0; bitPos-- {
			bit := int((r >> uint(bitPos)) & 1)
			enc.EncodeBit(&tree[node], bit)
			node = node*2 + bit
		}
	}
	return enc.Flush()
}

func zpDecodeRanks(coded []byte, n int) []byte {
	dec := zp.NewDecoder(coded)
	var tree [256]zp.Context
	ranks := make([]byte, n)
	for i := 0; i < n; i++ {
		node := 1
		for bitPos := 7; bitPos >= 0; bitPos-- {
			bit := dec.DecodeBit(&tree[node])
			node = node*2 + bit
		}
		ranks[i] = byte(node - 256)
	}
	return ranks
}
