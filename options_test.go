package djvuenc

import "testing"

func TestDefaultOptionsAreAlreadyInRange(t *testing.T) {
	o := DefaultOptions()
	if c := o.clamped(); c != o {
		t.Fatalf("clamped() changed default options: got %+v, want %+v", c, o)
	}
}

func TestOptionsClampedOutOfRangeValues(t *testing.T) {
	o := Options{DPI: 1, Gamma: 0, Quality: -5, Version: 0}
	c := o.clamped()
	if c.DPI != 72 {
		t.Errorf("DPI clamped to %d, want 72", c.DPI)
	}
	if c.Gamma != 1.0 {
		t.Errorf("Gamma clamped to %v, want 1.0", c.Gamma)
	}
	if c.Quality != 0 {
		t.Errorf("Quality clamped to %d, want 0", c.Quality)
	}
	if c.Version != 26 {
		t.Errorf("Version defaulted to %d, want 26", c.Version)
	}

	o2 := Options{DPI: 100000, Gamma: 99, Quality: 500}
	c2 := o2.clamped()
	if c2.DPI != 4800 {
		t.Errorf("DPI clamped to %d, want 4800", c2.DPI)
	}
	if c2.Gamma != 5.0 {
		t.Errorf("Gamma clamped to %v, want 5.0", c2.Gamma)
	}
	if c2.Quality != 100 {
		t.Errorf("Quality clamped to %d, want 100", c2.Quality)
	}
}

func TestGammaByteRounds(t *testing.T) {
	o := Options{Gamma: 2.2}
	if got := o.gammaByte(); got != 22 {
		t.Errorf("gammaByte() = %d, want 22", got)
	}
}
