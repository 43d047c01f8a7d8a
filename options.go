package djvuenc

import (
	"errors"

	"github.com/djvuenc/djvuenc/internal/format"
)

// Options controls document-wide encoding parameters, mirroring
// webp.EncoderOptions's shape: a plain struct validated in-process
// rather than a file/env configuration layer, clamped the way
// mux.Muxer.SetLoopCount clamps its loop count.
type Options struct {
	// DPI is the resolution written into each page's INFO chunk
	// (72..4800, default 300).
	DPI int
	// Gamma is written into INFO as round(Gamma*10) (1.0..5.0, default 2.2).
	Gamma float64
	// Quality scales the IW44 byte budget per page (0..100, default 75);
	// 100 encodes every bit-plane.
	Quality int
	// Version sets INFO's major/minor version fields (default 26).
	Version int
	// Parallel enables concurrent per-page encoding during Finalize.
	Parallel bool
	// JB2Library enables the shared-dictionary path for bilevel masks:
	// byte-identical whole-page masks are deduplicated into one shared
	// FORM:DJVI/Djbz dictionary. Individual glyph shapes are not
	// segmented or matched.
	// When false, every page falls back to direct (no-library) Sjbz
	// encoding. Default true.
	JB2Library bool
}

// ErrInvalidOptions is wrapped into an InvalidInput Error when an
// Options value cannot be clamped into range (currently unused by
// clamp, which always succeeds, but kept for symmetry with the rest of
// this package's validated-construction entry points).
var ErrInvalidOptions = errors.New("djvuenc: invalid options")

// DefaultOptions returns Options with DPI 300, gamma 2.2, quality 75,
// version 26, parallel disabled, and JB2 library extraction enabled —
// the values spec §6 names as defaults.
func DefaultOptions() Options {
	return Options{
		DPI:        format.DPIDefault,
		Gamma:      format.GammaDefault,
		Quality:    format.QualityDefault,
		Version:    format.VersionDefault,
		Parallel:   false,
		JB2Library: true,
	}
}

// clamped returns a copy of o with every field clamped into its valid
// range, the same defensive clamp-on-use pattern
// mux.Muxer.SetLoopCount and clampDuration apply to caller-supplied
// values before they reach the wire format.
func (o Options) clamped() Options {
	c := o
	if c.DPI < format.DPIMin {
		c.DPI = format.DPIMin
	} else if c.DPI > format.DPIMax {
		c.DPI = format.DPIMax
	}
	if c.Gamma < format.GammaMin {
		c.Gamma = format.GammaMin
	} else if c.Gamma > format.GammaMax {
		c.Gamma = format.GammaMax
	}
	if c.Quality < format.QualityMin {
		c.Quality = format.QualityMin
	} else if c.Quality > format.QualityMax {
		c.Quality = format.QualityMax
	}
	if c.Version <= 0 {
		c.Version = format.VersionDefault
	}
	return c
}

// gammaByte returns INFO's single-byte gamma field: round(Gamma*10).
func (o Options) gammaByte() byte {
	return byte(o.Gamma*10 + 0.5)
}
