package iw44

// Orientation classifies a band's frequency content along each axis.
type Orientation int

const (
	OrientLL Orientation = iota // lowpass/DC — only the coarsest band keeps this
	OrientHL                    // horizontal detail (vertical lowpass)
	OrientLH                    // vertical detail (horizontal lowpass)
	OrientHH                    // diagonal detail
)

func (o Orientation) String() string {
	switch o {
	case OrientLL:
		return "LL"
	case OrientHL:
		return "HL"
	case OrientLH:
		return "LH"
	case OrientHH:
		return "HH"
	default:
		return "?"
	}
}

// MaxLevels is the deepest dyadic pyramid this encoder builds (spec §3:
// "up to 3 levels"), giving the canonical 10-band tree: 3 orientation
// bands per level plus one final DC band.
const MaxLevels = 3

// Band addresses one sub-band of the IW44 pyramid: Level 1 is the
// finest (highest frequency), Level MaxLevels the coarsest detail band,
// and the single Level MaxLevels+1 LL band is DC. A Band does not copy
// coefficients; it is a strided view into the page's transformed buffer.
type Band struct {
	Level  int
	Orient Orientation
	Rows   int
	Cols   int

	buf            []int16
	rowsize        int
	x0, y0         int // physical offset of logical (0,0)
	xStep, yStep   int // physical spacing between adjacent logical columns/rows
}

// At returns the coefficient at logical (row, col) within the band.
func (b *Band) At(row, col int) int16 {
	return b.buf[(b.y0+row*b.yStep)*b.rowsize+(b.x0+col*b.xStep)]
}

// Set stores the coefficient at logical (row, col) within the band.
func (b *Band) Set(row, col int, v int16) {
	b.buf[(b.y0+row*b.yStep)*b.rowsize+(b.x0+col*b.xStep)] = v
}

// Bands decomposes an already-forward-transformed coefficient buffer
// (via ForwardTransform) into its canonical band list. Only MaxLevels
// detail levels are split out; when ForwardTransform ran more scales
// than that (images wider or taller than 8), the coefficients of the
// extra scales all fall into the DC band's positions.
//
// Order returned: DC band first, then Level=MaxLevels..1, each level's
// HL, LH, HH in that order. This is directly the canonical coding order
// (spec §4.4's "DC/LL first, then each higher-frequency band").
func Bands(buf []int16, w, h, rowsize int) []Band {
	levelDims := make([]struct{ evenRows, oddRows, evenCols, oddCols, s int }, MaxLevels)
	for l := 0; l < MaxLevels; l++ {
		s := 1 << l
		er, or := splitDim(h, s)
		ec, oc := splitDim(w, s)
		levelDims[l] = struct{ evenRows, oddRows, evenCols, oddCols, s int }{er, or, ec, oc, s}
	}

	var bands []Band
	// DC band: the LL survivor after the coarsest scale.
	top := levelDims[MaxLevels-1]
	bands = append(bands, Band{
		Level: MaxLevels + 1, Orient: OrientLL,
		Rows: top.evenRows, Cols: top.evenCols,
		buf: buf, rowsize: rowsize,
		x0: 0, y0: 0, xStep: 2 * top.s, yStep: 2 * top.s,
	})

	for l := MaxLevels - 1; l >= 0; l-- {
		d := levelDims[l]
		level := l + 1
		// HL: odd column, even row.
		bands = append(bands, Band{
			Level: level, Orient: OrientHL,
			Rows: d.evenRows, Cols: d.oddCols,
			buf: buf, rowsize: rowsize,
			x0: d.s, y0: 0, xStep: 2 * d.s, yStep: 2 * d.s,
		})
		// LH: even column, odd row.
		bands = append(bands, Band{
			Level: level, Orient: OrientLH,
			Rows: d.oddRows, Cols: d.evenCols,
			buf: buf, rowsize: rowsize,
			x0: 0, y0: d.s, xStep: 2 * d.s, yStep: 2 * d.s,
		})
		// HH: odd column, odd row.
		bands = append(bands, Band{
			Level: level, Orient: OrientHH,
			Rows: d.oddRows, Cols: d.oddCols,
			buf: buf, rowsize: rowsize,
			x0: d.s, y0: d.s, xStep: 2 * d.s, yStep: 2 * d.s,
		})
	}
	return bands
}

// splitDim returns, for `total` logical samples spaced s apart (i.e.
// ceil(total/s) grid positions), how many fall at an even grid index
// versus an odd grid index.
func splitDim(total, s int) (even, odd int) {
	samples := (total + s - 1) / s
	even = (samples + 1) / 2
	odd = samples / 2
	return
}
