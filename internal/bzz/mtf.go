package bzz

// mtfEncode recodes data as move-to-front ranks: each output byte is
// the position of the input byte in a 256-entry alphabet list that is
// freshly reset to identity order per block and promoted to the front
// every time a byte is used. BWT output clusters runs of the same
// byte, which MTF turns into runs of zero, the shape the bit-tree
// coder in bzz.go compresses well.
func mtfEncode(data []byte) []byte {
	var alphabet [256]byte
	for i := range alphabet {
		alphabet[i] = byte(i)
	}
	out := make([]byte, len(data))
	for i, b := range data {
		pos := 0
		for alphabet[pos] != b {
			pos++
		}
		out[i] = byte(pos)
		copy(alphabet[1:pos+1], alphabet[0:pos])
		alphabet[0] = b
	}
	return out
}

// mtfDecode is mtfEncode's exact inverse.
func mtfDecode(ranks []byte) []byte {
	var alphabet [256]byte
	for i := range alphabet {
		alphabet[i] = byte(i)
	}
	out := make([]byte, len(ranks))
	for i, r := range ranks {
		b := alphabet[r]
		out[i] = b
		copy(alphabet[1:int(r)+1], alphabet[0:r])
		alphabet[0] = b
	}
	return out
}
