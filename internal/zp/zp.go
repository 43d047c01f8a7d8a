// Package zp implements the ZP binary adaptive arithmetic coder used by
// both the IW44 and JB2 encoders.
//
// The interval-narrowing and carry-propagation arithmetic is adapted from
// the VP8 boolean coder (github.com/deepteams/webp/internal/bitio
// BoolWriter/BoolReader): a range register kept in [1,254], an accumulator
// register, and a run-length of pending 0xff bytes to absorb carries. What
// changes is the probability source: instead of a caller-supplied 8-bit
// probability per call, each bit is coded against a Context — a mutable
// one-byte state index into a fixed 256-entry transition table. The table
// entry gives the probability that the next bit equals the context's
// current "more probable symbol" (MPS), plus the successor state for an
// MPS event and for an LPS (less probable symbol) event. A handful of
// low-confidence states also flip the sense of MPS on an LPS event so the
// coder can escape a consistently wrong guess instead of stalling.
package zp

// Context is one adaptive probability slot. Callers hold one Context per
// coding decision that should adapt independently (e.g. per coefficient
// position in an IW44 band, or per bit position in a JB2 symbol record).
// The zero value is a valid, maximally-uncertain context.
type Context struct {
	state uint8
	mps   uint8
}

type transition struct {
	pMPS      uint8 // probability (0..255 scale) that the coded bit equals mps
	nextMPS   uint8 // successor state after an MPS event
	nextLPS   uint8 // successor state after an LPS event
	switchMPS bool  // flip the tracked MPS bit after an LPS event
}

const numStates = 256

var stateTable [numStates]transition

func init() {
	// Build a monotonic confidence ladder: state 0 is barely more than a
	// coin flip, state numStates-1 is maximally confident. pMPS climbs
	// geometrically from ~129 (just above even) to 255. nextMPS advances
	// one step toward more confidence; nextLPS falls back several steps
	// toward less confidence, mirroring the fast-down/slow-up adaptation
	// used by JBIG2/DjVu-style state-machine coders. The bottom few states
	// flip MPS on an LPS event so a run of "wrong" guesses inverts sense
	// rather than oscillating at state 0 forever.
	const lpsFallback = 5
	const flipStates = 3
	p := 129.0
	growth := 1.0 + (255.0-129.0)/129.0/float64(numStates)
	for i := 0; i < numStates; i++ {
		if p > 255 {
			p = 255
		}
		next := i + 1
		if next >= numStates {
			next = numStates - 1
		}
		back := i - lpsFallback
		if back < 0 {
			back = 0
		}
		stateTable[i] = transition{
			pMPS:      uint8(p),
			nextMPS:   uint8(next),
			nextLPS:   uint8(back),
			switchMPS: i < flipStates,
		}
		p *= growth
	}
}

// kNorm maps range values [0..127] to the renormalisation shift count.
// Identical in shape to the VP8 bool coder's table: 7 - floor(log2(range+1)).
var kNorm = [128]uint8{
	7, 6, 6, 5, 5, 5, 5, 4, 4, 4, 4, 4, 4, 4, 4, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0,
}

// kNewRange maps range values [0..127] to the normalised range after
// shifting: ((range + 1) << kNorm[range]) - 1.
var kNewRange = [128]uint8{
	127, 127, 191, 127, 159, 191, 223, 127, 143, 159, 175, 191, 207, 223, 239,
	127, 135, 143, 151, 159, 167, 175, 183, 191, 199, 207, 215, 223, 231, 239,
	247, 127, 131, 135, 139, 143, 147, 151, 155, 159, 163, 167, 171, 175, 179,
	183, 187, 191, 195, 199, 203, 207, 211, 215, 219, 223, 227, 231, 235, 239,
	243, 247, 251, 127, 129, 131, 133, 135, 137, 139, 141, 143, 145, 147, 149,
	151, 153, 155, 157, 159, 161, 163, 165, 167, 169, 171, 173, 175, 177, 179,
	181, 183, 185, 187, 189, 191, 193, 195, 197, 199, 201, 203, 205, 207, 209,
	211, 213, 215, 217, 219, 221, 223, 225, 227, 229, 231, 233, 235, 237, 239,
	241, 243, 245, 247, 249, 251, 253, 127,
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
