// Package colorxform implements the RGB to luma/chroma opponent-space
// transform that the page assembler runs before handing foreground and
// background pixmaps to the IW44 encoder, and the gamma correction
// curve applied alongside it.
//
// The fixed-point conversion matrix and the toLinear/fromLinear lookup
// table technique are adapted from
// github.com/deepteams/webp/sharpyuv's csp.go and gamma.go, generalised
// from YUV 4:2:0 subsampling to the plain per-pixel Y/Cb/Cr split IW44
// codes (spec §4.5: no chroma subsampling, each of the three planes is
// wavelet-coded independently at potentially different quality).
package colorxform

// Matrix holds the RGB->YCbCr conversion coefficients in 16-bit fixed
// point, mirroring sharpyuv.ConversionMatrix's layout:
//
//	y  = (RGBToY[0]*r  + RGBToY[1]*g  + RGBToY[2]*b  + RGBToY[3]  + half) >> 16
//	cb = (RGBToCb[0]*r + RGBToCb[1]*g + RGBToCb[2]*b + RGBToCb[3] + half) >> 16
//	cr = (RGBToCr[0]*r + RGBToCr[1]*g + RGBToCr[2]*b + RGBToCr[3] + half) >> 16
type Matrix struct {
	RGBToY  [4]int32
	RGBToCb [4]int32
	RGBToCr [4]int32
}

// DjVuMatrix is the fixed-point BT.601-like matrix DjVuLibre's color
// separation uses; offsets are dropped (DjVu centers chroma at 0, not
// 128) since IW44 codes signed coefficients directly.
var DjVuMatrix = Matrix{
	RGBToY:  [4]int32{16829, 33039, 6416, 0},
	RGBToCb: [4]int32{-9714, -19071, 28784, 0},
	RGBToCr: [4]int32{28784, -24103, -4681, 0},
}

const half = 1 << 15

// Forward splits an interleaved 8-bit RGB pixmap of w*h pixels into
// three signed planes (y, cb, cr), each w*h int16 samples in row-major
// order. Chroma is zero-centered, matching the sign convention IW44's
// bit-plane coder expects (spec §4.5).
func Forward(rgb []byte, w, h int, m Matrix) (y, cb, cr []int16) {
	n := w * h
	y = make([]int16, n)
	cb = make([]int16, n)
	cr = make([]int16, n)
	for i := 0; i < n; i++ {
		r := int32(rgb[i*3+0])
		g := int32(rgb[i*3+1])
		b := int32(rgb[i*3+2])
		y[i] = int16((m.RGBToY[0]*r + m.RGBToY[1]*g + m.RGBToY[2]*b + m.RGBToY[3] + half) >> 16)
		cb[i] = int16((m.RGBToCb[0]*r + m.RGBToCb[1]*g + m.RGBToCb[2]*b + m.RGBToCb[3] + half) >> 16)
		cr[i] = int16((m.RGBToCr[0]*r + m.RGBToCr[1]*g + m.RGBToCr[2]*b + m.RGBToCr[3] + half) >> 16)
	}
	return
}

// Inverse is Forward's approximate inverse, rebuilding an interleaved
// 8-bit RGB pixmap from the three planes via the matrix's integer
// inverse. It clamps to [0, 255]; the transform is not bit-exact
// (spec §4.5 marks color separation as a lossy stage, unlike the IW44
// wavelet core itself, which is exact).
func Inverse(y, cb, cr []int16, w, h int, m Matrix) []byte {
	n := w * h
	rgb := make([]byte, n*3)
	inv := invert3x3(m)
	for i := 0; i < n; i++ {
		yy := int64(y[i])
		u := int64(cb[i])
		v := int64(cr[i])
		r := (inv[0][0]*yy + inv[0][1]*u + inv[0][2]*v) >> 16
		g := (inv[1][0]*yy + inv[1][1]*u + inv[1][2]*v) >> 16
		b := (inv[2][0]*yy + inv[2][1]*u + inv[2][2]*v) >> 16
		rgb[i*3+0] = clamp8(r)
		rgb[i*3+1] = clamp8(g)
		rgb[i*3+2] = clamp8(b)
	}
	return rgb
}

func clamp8(v int64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// invert3x3 computes the fixed-point inverse of the 3x3 linear part of
// m (the additive offsets are assumed zero, per DjVuMatrix), scaled
// back up to 16-bit fixed point so Inverse's >>16 matches Forward's.
func invert3x3(m Matrix) [3][3]int64 {
	a := [3][3]float64{
		{toF(m.RGBToY[0]), toF(m.RGBToY[1]), toF(m.RGBToY[2])},
		{toF(m.RGBToCb[0]), toF(m.RGBToCb[1]), toF(m.RGBToCb[2])},
		{toF(m.RGBToCr[0]), toF(m.RGBToCr[1]), toF(m.RGBToCr[2])},
	}
	det := a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])

	cof := [3][3]float64{
		{a[1][1]*a[2][2] - a[1][2]*a[2][1], a[1][2]*a[2][0] - a[1][0]*a[2][2], a[1][0]*a[2][1] - a[1][1]*a[2][0]},
		{a[0][2]*a[2][1] - a[0][1]*a[2][2], a[0][0]*a[2][2] - a[0][2]*a[2][0], a[0][1]*a[2][0] - a[0][0]*a[2][1]},
		{a[0][1]*a[1][2] - a[0][2]*a[1][1], a[0][2]*a[1][0] - a[0][0]*a[1][2], a[0][0]*a[1][1] - a[0][1]*a[1][0]},
	}

	var out [3][3]int64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = int64((cof[c][r] / det) * (1 << 16))
		}
	}
	return out
}

func toF(v int32) float64 { return float64(v) / 65536.0 }
