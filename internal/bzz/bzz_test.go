package bzz

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("a"),
		[]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		bytes.Repeat([]byte("abcabcabcabc"), 50),
	}
	for i, c := range cases {
		enc := Encode(c)
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("case %d: Decode error: %v", i, err)
		}
		if !bytes.Equal(dec, c) && !(len(dec) == 0 && len(c) == 0) {
			t.Fatalf("case %d: got %q, want %q", i, dec, c)
		}
	}
}

func TestEncodeDecodeRandomBytes(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	data := make([]byte, 10000)
	r.Read(data)

	enc := Encode(data)
	dec, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatal("round trip mismatch on random data")
	}
}

func TestEncodeSpansMultipleBlocks(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, BlockSize*3+17)
	enc := Encode(data)
	dec, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatal("round trip mismatch across block boundaries")
	}
}

func TestBWTTransformInvertible(t *testing.T) {
	cases := []string{"", "a", "banana", "mississippi", "aaaabbbbcccc"}
	for _, s := range cases {
		last, primary := bwtTransform([]byte(s))
		back := bwtInverse(last, primary)
		if string(back) != s {
			t.Fatalf("bwt round trip for %q: got %q", s, back)
		}
	}
}

func TestMTFRoundTrip(t *testing.T) {
	data := []byte{5, 5, 5, 1, 2, 3, 3, 3, 0, 255, 255}
	ranks := mtfEncode(data)
	back := mtfDecode(ranks)
	if !bytes.Equal(back, data) {
		t.Fatalf("mtf round trip: got %v, want %v", back, data)
	}
}

func TestMTFProducesZeroRunsForRepeats(t *testing.T) {
	data := bytes.Repeat([]byte{7}, 10)
	ranks := mtfEncode(data)
	for i, r := range ranks {
		if i == 0 {
			continue
		}
		if r != 0 {
			t.Fatalf("rank[%d] = %d, want 0 for a repeated byte", i, r)
		}
	}
}
