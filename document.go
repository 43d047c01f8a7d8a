package djvuenc

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"sort"
	"sync"

	"github.com/djvuenc/djvuenc/internal/bzz"
	"github.com/djvuenc/djvuenc/internal/format"
	"github.com/djvuenc/djvuenc/internal/iff"
)

// Document is a thread-safe, append-only registry of Pages that
// assembles a complete DjVu byte stream on Finalize. The mutex-guarded
// registry plus bounded-worker-pool parallel encode is grounded on
// animation.Animation.DecodeFramesParallel's channel-of-work shape,
// generalized from decoding WebP frames to encoding DjVu pages.
type Document struct {
	opts Options

	mu        sync.Mutex
	pages     map[uint32]*Page
	finalized bool
}

// NewDocument creates an empty, Open document with the given options,
// clamped into range exactly as DefaultOptions's fields are documented.
func NewDocument(opts Options) *Document {
	return &Document{
		opts:  opts.clamped(),
		pages: make(map[uint32]*Page),
	}
}

// AddPage registers a page, keyed by its Index. Duplicate indices are
// rejected. Safe to call concurrently from any goroutine, and safe to
// call with pages inserted in any order — output order depends only on
// Index (spec §4.9, §8 invariant 7).
func (d *Document) AddPage(p *Page) error {
	if p == nil {
		return newError(InvalidInput, -1, fmt.Errorf("nil page"))
	}
	if err := p.validate(); err != nil {
		return newError(InvalidInput, int(p.Index), err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.finalized {
		return newError(AlreadyFinalized, int(p.Index), fmt.Errorf("document already finalized"))
	}
	if _, exists := d.pages[p.Index]; exists {
		return newError(DuplicateIndex, int(p.Index), fmt.Errorf("page index %d already added", p.Index))
	}
	d.pages[p.Index] = p
	return nil
}

// pageEncodeResult carries one page's encoded bytes or error back from
// a worker, tagged by its position in the sorted page slice so results
// can be reassembled in order regardless of completion order — the
// same indexed-result-channel shape DecodeFramesParallel uses.
type pageEncodeResult struct {
	pos   int
	bytes []byte
	err   error
}

// Finalize sorts the registered pages by index, encodes each to its
// FORM:DJVU bytes (sequentially or via a bounded worker pool when
// Options.Parallel is set), builds the shared JB2 dictionaries and the
// DIRM directory, and emits the complete byte stream. On success the
// document transitions to Finalized; any page encode error leaves it
// Open so the caller can repair and retry.
func (d *Document) Finalize() ([]byte, error) {
	d.mu.Lock()
	if d.finalized {
		d.mu.Unlock()
		return nil, newError(AlreadyFinalized, -1, fmt.Errorf("document already finalized"))
	}
	sorted := make([]*Page, 0, len(d.pages))
	for _, p := range d.pages {
		sorted = append(sorted, p)
	}
	d.mu.Unlock()

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	dictIDs, dictBytes, includesByPos, embedMaskByPos := d.buildMaskDictionaries(sorted)

	encoded := make([][]byte, len(sorted))
	var firstErr error
	firstErrPage := -1

	if d.opts.Parallel && len(sorted) > 2 {
		numWorkers := runtime.GOMAXPROCS(0)
		if numWorkers > len(sorted) {
			numWorkers = len(sorted)
		}
		work := make(chan int, len(sorted))
		for i := range sorted {
			work <- i
		}
		close(work)

		results := make(chan pageEncodeResult, len(sorted))
		var wg sync.WaitGroup
		for w := 0; w < numWorkers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pos := range work {
					b, err := sorted[pos].encode(d.opts, includesByPos[pos], embedMaskByPos[pos])
					results <- pageEncodeResult{pos: pos, bytes: b, err: err}
				}
			}()
		}
		go func() {
			wg.Wait()
			close(results)
		}()
		for r := range results {
			if r.err != nil {
				if firstErrPage < 0 || int(sorted[r.pos].Index) < firstErrPage {
					firstErr = r.err
					firstErrPage = int(sorted[r.pos].Index)
				}
				continue
			}
			encoded[r.pos] = r.bytes
		}
	} else {
		for pos := range sorted {
			b, err := sorted[pos].encode(d.opts, includesByPos[pos], embedMaskByPos[pos])
			if err != nil {
				firstErr = err
				firstErrPage = int(sorted[pos].Index)
				break
			}
			encoded[pos] = b
		}
	}

	if firstErr != nil {
		return nil, newError(InternalInvariant, firstErrPage, firstErr)
	}

	out, err := d.assemble(sorted, encoded, dictIDs, dictBytes)
	if err != nil {
		return nil, newError(OutputError, -1, err)
	}

	d.mu.Lock()
	d.finalized = true
	d.mu.Unlock()

	return out, nil
}

// buildMaskDictionaries implements the optional Djbz symbol-library
// path at page granularity (SPEC_FULL.md's DROPPED-FEATURES
// supplement): pages whose foreground mask is byte-identical to an
// earlier page's share one FORM:DJVI dictionary instead of each
// encoding their own Sjbz chunk.
func (d *Document) buildMaskDictionaries(sorted []*Page) (dictIDs []string, dictBytes [][]byte, includesByPos [][]string, embedMaskByPos []bool) {
	includesByPos = make([][]string, len(sorted))
	embedMaskByPos = make([]bool, len(sorted))
	for i := range embedMaskByPos {
		embedMaskByPos[i] = true
	}
	if !d.opts.JB2Library {
		return nil, nil, includesByPos, embedMaskByPos
	}

	fingerprintToID := make(map[uint64]string)
	dictNum := 2 // matches spec scenario S2's "dict0002.iff" numbering convention

	for pos, p := range sorted {
		if p.ForegroundMask == nil || p.ForegroundMask.Image == nil {
			continue
		}
		fp := maskFingerprint(p.ForegroundMask.Image)
		if id, ok := fingerprintToID[fp]; ok {
			includesByPos[pos] = append(includesByPos[pos], id)
			embedMaskByPos[pos] = false
			continue
		}

		payload, err := encodeMask(p.ForegroundMask.Image)
		if err != nil {
			continue // fall back to this page embedding its own Sjbz
		}
		dict := iff.New()
		dict.BeginForm(iff.SecondaryDJVI)
		if werr := dict.WriteChunk(iff.IDDjbz, payload); werr != nil {
			continue
		}
		if werr := dict.EndForm(); werr != nil {
			continue
		}

		id := fmt.Sprintf("dict%04d.iff", dictNum)
		dictNum++
		dictIDs = append(dictIDs, id)
		dictBytes = append(dictBytes, dict.Bytes())
		fingerprintToID[fp] = id
		includesByPos[pos] = append(includesByPos[pos], id)
		// The page that introduces a shared dictionary still embeds its
		// own Sjbz directly; only later pages matching it skip theirs.
	}
	return
}

func maskFingerprint(b *Bitmap) uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(b.Width), byte(b.Width >> 8), byte(b.Height), byte(b.Height >> 8)})
	h.Write(b.Bits[:b.Stride*b.Height])
	return h.Sum64()
}

// assemble builds the final magic + FORM:DJVM(DIRM, shared FORM:DJVIs,
// per-page FORM:DJVUs) byte stream (spec §4.9 step 5, §6). Each
// dictionary/page entry in dictBytes/encoded is already a complete,
// self-framed FORM chunk, so they are appended into FORM:DJVM's body
// verbatim rather than re-wrapped.
func (d *Document) assemble(sorted []*Page, encoded [][]byte, dictIDs []string, dictBytes [][]byte) ([]byte, error) {
	// A single page with no shared dictionaries needs no DJVM/DIRM
	// wrapper at all: the bundled single-file convention is just magic
	// followed directly by that page's own FORM:DJVU (spec §8 scenario
	// S1 — the secondary ID right after magic is DJVU, not DJVM).
	if len(sorted) == 1 && len(dictBytes) == 0 {
		out := make([]byte, 0, len(Magic())+len(encoded[0]))
		out = append(out, Magic()...)
		out = append(out, encoded[0]...)
		return out, nil
	}

	n := len(dictBytes) + len(encoded)
	ids := make([]string, 0, n)
	flags := make([]byte, 0, n)
	sizes := make([]int, 0, n)
	components := make([][]byte, 0, n)

	for i, db := range dictBytes {
		ids = append(ids, dictIDs[i])
		flags = append(flags, format.ComponentDJVI)
		sizes = append(sizes, len(db))
		components = append(components, db)
	}
	for i, p := range sorted {
		ids = append(ids, fmt.Sprintf("p%04d.djvu", p.Index))
		flags = append(flags, format.ComponentDJVU)
		sizes = append(sizes, len(encoded[i]))
		components = append(components, encoded[i])
	}

	tail := buildDIRMTail(sizes, flags, ids)
	compressedTail := bzz.Encode(tail)

	prefixLen := 3 + 4*n
	dirmFramedLen := iff.FramedSize(prefixLen + len(compressedTail))

	const outerFormHeaderSize = 8 + 4 // FORM id+len, plus 4-byte secondary ID
	base := len(Magic()) + outerFormHeaderSize + dirmFramedLen
	offsets := make([]int, n)
	off := base
	for i, c := range components {
		offsets[i] = off
		off += len(c)
	}

	dirmPayload := append(buildDIRMPrefix(offsets), compressedTail...)

	w := iff.New()
	w.BeginForm(iff.SecondaryDJVM)
	if err := w.WriteChunk(iff.IDDIRM, dirmPayload); err != nil {
		return nil, err
	}
	for _, c := range components {
		w.AppendRaw(c)
	}
	if err := w.EndForm(); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(Magic())+len(w.Bytes()))
	out = append(out, Magic()...)
	out = append(out, w.Bytes()...)
	return out, nil
}

// buildDIRMPrefix encodes DIRM's unencoded prefix: flags/version byte,
// big-endian file count, then one big-endian uint32 absolute offset
// per component, in the same order as buildDIRMTail's entries.
func buildDIRMPrefix(offsets []int) []byte {
	prefix := make([]byte, 0, 3+4*len(offsets))
	prefix = append(prefix, format.DIRMFlagsByte)
	prefix = append(prefix, byte(len(offsets)>>8), byte(len(offsets)))
	for _, off := range offsets {
		prefix = append(prefix, byte(off>>24), byte(off>>16), byte(off>>8), byte(off))
	}
	return prefix
}

// buildDIRMTail encodes the bytes that get BZZ-compressed into DIRM's
// tail, as three separate contiguous blocks (spec §6, confirmed by
// scenario S2's flags-then-names layout, matching DjVmDir::encode's
// three-loop shape): a 3-byte size per component (the whole component
// FORM's framed size, header included — the Open Question in spec §9
// is resolved this way and recorded in DESIGN.md), then one flags byte
// per component, then one NUL-terminated ID string per component.
func buildDIRMTail(sizes []int, flags []byte, ids []string) []byte {
	var tail []byte
	for _, sz := range sizes {
		tail = append(tail, byte(sz>>16), byte(sz>>8), byte(sz))
	}
	tail = append(tail, flags...)
	for _, id := range ids {
		tail = append(tail, []byte(id)...)
		tail = append(tail, 0)
	}
	return tail
}

// Magic returns the 4-byte prefix every emitted document begins with.
func Magic() []byte {
	return []byte{0x41, 0x54, 0x26, 0x54}
}
