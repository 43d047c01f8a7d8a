// Package djvuenc encodes multi-page DjVu documents from in-memory pixel
// and bitmap data. Callers build Pages from continuous-tone backgrounds
// and bilevel masks, hand them to a Document in any order and from any
// goroutine, and call Finalize to obtain an IFF/DjVu-framed byte
// stream.
//
// The container framing (magic, FORM nesting, DIRM) follows the DjVu
// layout, but the coded chunk payloads are not bit-conformant with
// other DjVu decoders: the ZP coder's state table is this package's own
// synthesized table, and FG44/BG44/TH44 payloads use this package's own
// header layout.
//
// Decoding, file I/O, and a command-line wrapper are out of scope; this
// package only assembles bytes in memory.
package djvuenc
