package djvuenc

import (
	"bytes"
	"testing"

	"github.com/djvuenc/djvuenc/internal/iff"
)

func TestPageValidateRejectsZeroDimensions(t *testing.T) {
	p := &Page{Index: 0, Width: 0, Height: 10}
	if err := p.validate(); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestPageValidateRejectsOutOfBoundsLayer(t *testing.T) {
	p := &Page{
		Index:  0,
		Width:  10,
		Height: 10,
		Background: &PixmapLayer{
			Image:   solidGray(5, 5, 200),
			OffsetX: 50,
			OffsetY: 50,
		},
	}
	if err := p.validate(); err == nil {
		t.Fatal("expected error for background placed entirely outside the page")
	}
}

func TestPageEncodeEmptyPageHasFormAndInfo(t *testing.T) {
	p := &Page{Index: 0, Width: 64, Height: 32}
	out, err := p.encode(DefaultOptions(), nil, true)
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	if len(out) < 12+iff.FramedSize(10) {
		t.Fatalf("encoded page too short: %d bytes", len(out))
	}
	if !bytes.Equal(out[0:4], iff.IDFORM[:]) {
		t.Fatalf("expected leading FORM id, got %q", out[0:4])
	}
	if !bytes.Equal(out[8:12], iff.SecondaryDJVU[:]) {
		t.Fatalf("expected DJVU secondary id, got %q", out[8:12])
	}
	infoID := out[12:16]
	if !bytes.Equal(infoID, iff.IDINFO[:]) {
		t.Fatalf("expected INFO chunk right after the FORM header, got %q", infoID)
	}
}

func TestPageEncodeWithMaskOmitsSjbzWhenNotEmbedded(t *testing.T) {
	mask := solidBitmap(16, 16, true)
	p := &Page{
		Index:          0,
		Width:          16,
		Height:         16,
		ForegroundMask: &BitmapLayer{Image: mask},
	}
	withMask, err := p.encode(DefaultOptions(), nil, true)
	if err != nil {
		t.Fatalf("encode(embedMask=true) error = %v", err)
	}
	withoutMask, err := p.encode(DefaultOptions(), []string{"dict0002.iff"}, false)
	if err != nil {
		t.Fatalf("encode(embedMask=false) error = %v", err)
	}
	if bytes.Contains(withoutMask, iff.IDSjbz[:]) {
		t.Fatal("expected no Sjbz chunk id when embedMask is false")
	}
	if !bytes.Contains(withMask, iff.IDSjbz[:]) {
		t.Fatal("expected an Sjbz chunk id when embedMask is true")
	}
	if !bytes.Contains(withoutMask, iff.IDINCL[:]) {
		t.Fatal("expected an INCL chunk referencing the shared dictionary")
	}
}

func TestFgbzPayloadAveragesColor(t *testing.T) {
	pix := make([]byte, 4*3)
	for i := 0; i < 4; i++ {
		pix[i*3+0] = 100
		pix[i*3+1] = 150
		pix[i*3+2] = 200
	}
	pm := &Pixmap{Width: 2, Height: 2, Channels: 3, Stride: 6, Pix: pix}
	payload := fgbzPayload(pm)
	if len(payload) != 3 || payload[0] != 100 || payload[1] != 150 || payload[2] != 200 {
		t.Fatalf("fgbzPayload() = %v, want [100 150 200]", payload)
	}
}

func TestStopPlaneForQuality(t *testing.T) {
	tests := []struct {
		quality int
		want    int
	}{
		{100, 0},
		{0, 6},
		{-5, 6},
		{150, 0},
		{50, 3},
	}
	for _, tt := range tests {
		if got := stopPlaneForQuality(tt.quality); got != tt.want {
			t.Errorf("stopPlaneForQuality(%d) = %d, want %d", tt.quality, got, tt.want)
		}
	}
}

func TestByteBudgetForQuality(t *testing.T) {
	if got := byteBudgetForQuality(1000, 100); got != 1<<31-1 {
		t.Errorf("byteBudgetForQuality(1000, 100) = %d, want unbounded", got)
	}
	low := byteBudgetForQuality(1000, 10)
	high := byteBudgetForQuality(1000, 90)
	if low >= high {
		t.Errorf("expected lower quality to yield a smaller budget: low=%d high=%d", low, high)
	}
}

func TestEncodeContinuousToneProducesHeaderAndStream(t *testing.T) {
	pm := solidGray(8, 8, 128)
	payload := encodeContinuousTone(pm, 75)
	if len(payload) < 8 {
		t.Fatalf("continuous-tone payload too short: %d bytes", len(payload))
	}
	if payload[0] != 1 {
		t.Fatalf("expected chunk format version 1, got %d", payload[0])
	}
	width := int(payload[1])<<8 | int(payload[2])
	height := int(payload[3])<<8 | int(payload[4])
	if width != 8 || height != 8 {
		t.Fatalf("header dimensions = %dx%d, want 8x8", width, height)
	}
}
