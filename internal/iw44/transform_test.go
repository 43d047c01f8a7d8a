package iw44

import (
	"math/rand"
	"testing"
)

// TestForwardInverseIdentity is spec invariant 1: for any int16 signal of
// width W and height H, InverseTransform(ForwardTransform(x)) == x exactly.
func TestForwardInverseIdentity(t *testing.T) {
	shapes := []struct{ w, h int }{
		{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {7, 7},
		{8, 8}, {16, 16}, {1, 16}, {16, 1}, {13, 9}, {100, 100}, {17, 33},
	}
	r := rand.New(rand.NewSource(42))
	for _, sh := range shapes {
		rowsize := sh.w
		orig := make([]int16, sh.h*rowsize)
		for i := range orig {
			orig[i] = int16(r.Intn(511) - 255)
		}
		buf := append([]int16(nil), orig...)

		ForwardTransform(buf, sh.w, sh.h, rowsize)
		InverseTransform(buf, sh.w, sh.h, rowsize)

		for i := range orig {
			if buf[i] != orig[i] {
				t.Fatalf("shape %dx%d: index %d: got %d want %d", sh.w, sh.h, i, buf[i], orig[i])
			}
		}
	}
}

func TestForwardInverseIdentityWithStride(t *testing.T) {
	w, h, rowsize := 10, 10, 16 // stride wider than width (sub-image view)
	r := rand.New(rand.NewSource(7))
	orig := make([]int16, h*rowsize)
	for i := range orig {
		orig[i] = int16(r.Intn(1000) - 500)
	}
	buf := append([]int16(nil), orig...)

	ForwardTransform(buf, w, h, rowsize)
	InverseTransform(buf, w, h, rowsize)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*rowsize + x
			if buf[idx] != orig[idx] {
				t.Fatalf("(%d,%d): got %d want %d", x, y, buf[idx], orig[idx])
			}
		}
	}
}

func TestForwardTransformProducesLowpassAtDC(t *testing.T) {
	// A constant-value signal's energy should concentrate: after a single
	// scale, most non-DC coefficients should be exactly zero.
	w, h := 16, 16
	buf := make([]int16, w*h)
	for i := range buf {
		buf[i] = 100
	}
	ForwardTransform(buf, w, h, w)

	zero := 0
	for _, v := range buf {
		if v == 0 {
			zero++
		}
	}
	if zero == 0 {
		t.Fatal("expected a constant input to produce mostly-zero detail coefficients")
	}
}
