// Package iw44 implements the IW44 reversible integer-lifting wavelet
// transform and the successive-approximation bit-plane coder built on
// top of it. The lifting step shape (predict odd samples, update even
// samples, boundary replication at the low edge, zero-fill at the high
// edge) is adapted from the predictor arithmetic in
// github.com/deepteams/webp/internal/lossless/encode_predictor.go and
// github.com/deepteams/webp/internal/dsp/predict_lossless.go, generalised
// from VP8L's 2D spatial predictors to IW44's 1D dyadic lifting scheme.
package iw44

// ForwardTransform applies the IW44 forward wavelet transform in place to
// a signed 16-bit coefficient buffer of width w, height h, and row stride
// rowsize (in int16 elements). The transform runs at successive scales
// s = 1, 2, 4, ... up to the largest power of two smaller than the
// larger of w and h, each scale first filtering rows (filterFH) then
// columns (filterFV).
func ForwardTransform(buf []int16, w, h, rowsize int) {
	for s := 1; s < w || s < h; s <<= 1 {
		filterFH(buf, w, h, rowsize, s, false)
		filterFV(buf, w, h, rowsize, s, false)
	}
}

// InverseTransform is the exact inverse of ForwardTransform: for every
// scale, visited in reverse order, it undoes the vertical filter before
// the horizontal one, and within each filter performs the update step
// (sign-reversed) before the predict step. This ordering is a required
// invariant (spec: inverse_transform(forward_transform(x)) == x exactly).
func InverseTransform(buf []int16, w, h, rowsize int) {
	sMax := 1
	for sMax<<1 < w || sMax<<1 < h {
		sMax <<= 1
	}
	for s := sMax; s >= 1; s >>= 1 {
		filterFV(buf, w, h, rowsize, s, true)
		filterFH(buf, w, h, rowsize, s, true)
	}
}

// filterFH runs the horizontal lifting step at scale s across every
// s-th row. inverse selects the update-then-predict (sign-reversed)
// ordering used by InverseTransform.
func filterFH(buf []int16, w, h, rowsize int, s int, inverse bool) {
	for y := 0; y < h; y += s {
		row := buf[y*rowsize:]
		doLiftLine(row, w, s, inverse)
	}
}

// filterFV runs the vertical lifting step at scale s across every s-th
// column, using stride s*rowsize between samples.
func filterFV(buf []int16, w, h, rowsize int, s int, inverse bool) {
	stride := s * rowsize
	for x := 0; x < w; x += s {
		doLiftColumn(buf[x:], h, rowsize, stride, s, inverse)
	}
}

// liftLine performs the 1D lifting step (predict odd, update even) over
// samples spaced s apart within row, which holds w logical samples
// (only every s-th one is a sample of this scale). n is the number of
// samples on this scale.
func liftLine(row []int16, w, s int, inverse bool) {
	n := (w + s - 1) / s // number of samples at this scale along the line
	get := func(i int) int32 {
		idx := i * s
		if idx < 0 {
			idx = 0
		}
		if idx >= len(row) {
			return 0
		}
		return int32(row[idx])
	}
	set := func(i int, v int32) {
		idx := i * s
		if idx >= 0 && idx < len(row) {
			row[idx] = int16(v)
		}
	}
	liftGeneric(n, get, set, inverse)
}

// liftColumn is liftLine's vertical analogue: samples live at
// col[0], col[stride], col[2*stride], ... up to h rows.
func liftColumn(col []int16, h, rowsize, stride, s int, inverse bool) {
	n := (h + s - 1) / s
	get := func(i int) int32 {
		off := i * stride
		if off < 0 {
			off = 0
		}
		if off >= len(col) {
			return 0
		}
		return int32(col[off])
	}
	set := func(i int, v int32) {
		off := i * stride
		if off >= 0 && off < len(col) {
			col[off] = int16(v)
		}
	}
	liftGeneric(n, get, set, inverse)
}

// liftGeneric implements the 5-tap predict/update lifting pair described
// in spec §4.3 over n logical samples addressed through get/set. Odd
// indices are predicted from their two even neighbours and the next
// outer pair; even indices are then updated from the odd differences
// just produced. Boundary handling: at the low edge missing samples
// replicate the nearest known one; past the high edge a missing a2
// replicates a1, while a missing a3 and missing odd deltas are zero.
func liftGeneric(n int, get func(int) int32, set func(int, int32), inverse bool) {
	if n < 2 {
		return
	}
	if !inverse {
		// Forward: predict odd from (still-original) evens, subtracting;
		// then update even from the freshly-produced odd deltas, adding.
		predictOdd(n, get, set, -1)
		updateEven(n, get, set, +1)
		return
	}
	// Inverse: undo in reverse order with flipped signs. Update runs
	// first while odd positions still hold the coded deltas (exactly the
	// state the forward update read), subtracting what forward added;
	// then predict runs with evens now restored to their original values,
	// adding back what forward subtracted.
	updateEven(n, get, set, -1)
	predictOdd(n, get, set, +1)
}

// predictOdd applies the odd-sample predict step, reading only even
// positions (untouched by this pass) and writing cur + sign*pred to each
// odd position. sign=-1 is the forward (coding) direction; sign=+1 is
// the inverse (reconstruction) direction.
func predictOdd(n int, get func(int) int32, set func(int, int32), sign int32) {
	for x := 1; x < n; x += 2 {
		a0, a1, a2, a3 := neighboursFor(x, n, get)
		pred := (9*(a1+a2) - a0 - a3 + 8) >> 4
		cur := get(x)
		set(x, cur+sign*pred)
	}
}

// updateEven applies the even-sample update step, reading only odd
// positions (the deltas predictOdd just produced, or — on the inverse
// path — the still-coded deltas update must consume before predict
// restores them) and writing cur + sign*upd to each even position.
// sign=+1 is forward; sign=-1 is inverse.
func updateEven(n int, get func(int) int32, set func(int, int32), sign int32) {
	for x := 0; x < n; x += 2 {
		b0, b1, b2, b3 := oddDeltasFor(x, n, get)
		upd := (9*(b1+b2) - b0 - b3 + 16) >> 5
		cur := get(x)
		set(x, cur+sign*upd)
	}
}

// neighboursFor returns a0..a3 for the predict step at odd index x,
// applying spec §4.3's boundary predicate table.
func neighboursFor(x, n int, get func(int) int32) (a0, a1, a2, a3 int32) {
	a1 = get(x - 1)
	if x+1 < n {
		a2 = get(x + 1)
	} else {
		a2 = a1
	}
	if x-3 >= 0 {
		a0 = get(x - 3)
	} else {
		a0 = a1
	}
	if x+3 < n {
		a3 = get(x + 3)
	} else {
		a3 = 0
	}
	return
}

// oddDeltasFor returns the b0..b3 odd-sample differences around even
// index x needed by the update step. Each bi is the just-predicted
// difference stored at the corresponding odd position, or the boundary
// value spec §4.3 specifies when that position lies outside the line.
func oddDeltasFor(x, n int, get func(int) int32) (b0, b1, b2, b3 int32) {
	b1 = oddDeltaAt(x-1, n, get)
	b2 = oddDeltaAt(x+1, n, get)
	b0 = oddDeltaAt(x-3, n, get)
	b3 = oddDeltaAt(x+3, n, get)
	return
}

// oddDeltaAt reads the odd-position difference at index i if it is a
// valid odd sample in range, replicating/zeroing at the boundary exactly
// as predictOdd's own a0..a3 lookups do.
func oddDeltaAt(i, n int, get func(int) int32) int32 {
	if i < 0 {
		i = 1
	}
	if i >= n {
		return 0
	}
	if i%2 == 0 {
		// Even positions hold samples, not deltas; this only happens when
		// n is small enough that the 3-step neighbour falls on an even
		// index past the single odd sample available — fall back to 0
		// per the "update applied with b3=0" rule for the tail region.
		return 0
	}
	return get(i)
}
