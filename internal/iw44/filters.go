package iw44

// liftLineFunc and liftColumnFunc name the pluggable shape of the
// lifting inner loops. Selection happens once, at package Init, never as
// a mutable global flipped mid-encode (spec §9: "Global MMX flag /
// optional SIMD... selection is a one-time configuration decision").
// This mirrors the dispatch-table shape in
// github.com/deepteams/webp/internal/dsp's package-level function
// variables (ITransform, FTransform, ...), which libwebp's C original
// overwrote with SIMD variants during VP8DspInit. djvuenc carries only
// the scalar reference path — the spec treats SIMD/assembly fast paths
// as an interface point, not a requirement — but keeps the same
// one-time-assignment shape so a future build tag could add one.
type liftLineFunc func(row []int16, w, s int, inverse bool)
type liftColumnFunc func(col []int16, h, rowsize, stride, s int, inverse bool)

var (
	doLiftLine   liftLineFunc   = liftLine
	doLiftColumn liftColumnFunc = liftColumn
)

// Init (re-)installs the scalar reference lifting implementations. It is
// idempotent and safe to call before encoding starts; it must not be
// called concurrently with an in-progress transform.
func Init() {
	doLiftLine = liftLine
	doLiftColumn = liftColumn
}
