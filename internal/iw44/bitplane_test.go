package iw44

import (
	"math/rand"
	"testing"

	"github.com/djvuenc/djvuenc/internal/zp"
)

func TestEncodeBandProducesSlicesForNonzeroBand(t *testing.T) {
	band := &Band{Rows: 4, Cols: 4, buf: make([]int16, 16), rowsize: 4, xStep: 1, yStep: 1}
	r := rand.New(rand.NewSource(3))
	for i := range band.buf {
		band.buf[i] = int16(r.Intn(200) - 100)
	}

	enc := zp.NewEncoder()
	c := NewCoder(enc)
	slices := c.EncodeBand(band, 0, nil)
	if slices == 0 {
		t.Fatal("expected at least one slice for a nonzero band")
	}
	data := enc.Flush()
	if len(data) == 0 {
		t.Fatal("expected nonzero coded output")
	}
}

func TestEncodeBandZeroBandProducesNoSlices(t *testing.T) {
	band := &Band{Rows: 4, Cols: 4, buf: make([]int16, 16), rowsize: 4, xStep: 1, yStep: 1}
	enc := zp.NewEncoder()
	c := NewCoder(enc)
	if got := c.EncodeBand(band, 0, nil); got != 0 {
		t.Fatalf("got %d slices for an all-zero band, want 0", got)
	}
}

func TestEncodeBandRespectsBudget(t *testing.T) {
	band := &Band{Rows: 8, Cols: 8, buf: make([]int16, 64), rowsize: 8, xStep: 1, yStep: 1}
	r := rand.New(rand.NewSource(9))
	for i := range band.buf {
		band.buf[i] = int16(r.Intn(2000) - 1000)
	}
	enc := zp.NewEncoder()
	c := NewCoder(enc)
	calls := 0
	budget := func() bool {
		calls++
		return calls >= 2
	}
	slices := c.EncodeBand(band, 0, budget)
	if slices != 2 {
		t.Fatalf("got %d slices, want exactly 2 (budget exhausted after 2nd plane)", slices)
	}
}
