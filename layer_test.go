package djvuenc

import "testing"

func solidGray(w, h int, v byte) *Pixmap {
	pix := make([]byte, w*h)
	for i := range pix {
		pix[i] = v
	}
	return &Pixmap{Width: w, Height: h, Channels: 1, Stride: w, Pix: pix}
}

func solidBitmap(w, h int, ink bool) *Bitmap {
	stride := (w + 7) / 8
	bits := make([]byte, stride*h)
	if ink {
		for i := range bits {
			bits[i] = 0xFF
		}
	}
	return &Bitmap{Width: w, Height: h, Stride: stride, Bits: bits}
}

func TestPixmapValidate(t *testing.T) {
	tests := []struct {
		name    string
		pm      Pixmap
		wantErr bool
	}{
		{"valid grayscale", Pixmap{Width: 2, Height: 2, Channels: 1, Stride: 2, Pix: make([]byte, 4)}, false},
		{"valid rgb", Pixmap{Width: 2, Height: 2, Channels: 3, Stride: 6, Pix: make([]byte, 12)}, false},
		{"zero width", Pixmap{Width: 0, Height: 2, Channels: 1, Stride: 2, Pix: make([]byte, 4)}, true},
		{"bad channels", Pixmap{Width: 2, Height: 2, Channels: 2, Stride: 4, Pix: make([]byte, 8)}, true},
		{"stride too short", Pixmap{Width: 4, Height: 2, Channels: 1, Stride: 2, Pix: make([]byte, 4)}, true},
		{"buffer too short", Pixmap{Width: 2, Height: 2, Channels: 1, Stride: 2, Pix: make([]byte, 2)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pm.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBitmapGetAndValidate(t *testing.T) {
	ink := solidBitmap(10, 3, true)
	if ink.Get(0, 0) != 1 || ink.Get(9, 2) != 1 {
		t.Fatalf("expected every pixel set, got Get(0,0)=%d Get(9,2)=%d", ink.Get(0, 0), ink.Get(9, 2))
	}
	blank := solidBitmap(10, 3, false)
	if blank.Get(5, 1) != 0 {
		t.Fatalf("expected blank pixel, got %d", blank.Get(5, 1))
	}
	if err := blank.validate(); err != nil {
		t.Fatalf("validate() = %v, want nil", err)
	}

	bad := Bitmap{Width: 10, Height: 3, Stride: 1, Bits: make([]byte, 3)}
	if err := bad.validate(); err == nil {
		t.Fatal("expected error for stride shorter than ceil(width/8)")
	}
}

func TestLayerValidatePlacement(t *testing.T) {
	tests := []struct {
		name             string
		offX, offY       int32
		w, h             int
		pageW, pageH     int
		wantErr          bool
	}{
		{"fully inside", 0, 0, 10, 10, 20, 20, false},
		{"overlaps edge", 15, 15, 10, 10, 20, 20, false},
		{"entirely left of canvas", -20, 0, 10, 10, 20, 20, true},
		{"entirely below canvas", 0, 25, 10, 10, 20, 20, true},
		{"entirely right of canvas", 25, 0, 10, 10, 20, 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer := PixmapLayer{Image: solidGray(tt.w, tt.h, 128), OffsetX: tt.offX, OffsetY: tt.offY}
			err := layer.validate(tt.pageW, tt.pageH)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNilLayerValidatesClean(t *testing.T) {
	var pl *PixmapLayer
	if err := pl.validate(100, 100); err != nil {
		t.Fatalf("nil *PixmapLayer.validate() = %v, want nil", err)
	}
	var bl *BitmapLayer
	if err := bl.validate(100, 100); err != nil {
		t.Fatalf("nil *BitmapLayer.validate() = %v, want nil", err)
	}
	empty := &PixmapLayer{}
	if err := empty.validate(100, 100); err != nil {
		t.Fatalf("PixmapLayer with nil Image validate() = %v, want nil", err)
	}
}
