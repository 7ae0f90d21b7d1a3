package stfma

const (
	// ElemsPerByte is the number of 2-bit ternary fields packed into one
	// byte, least-significant field first.
	ElemsPerByte = 4

	// ChunkLen is the whole-chunk granularity of Dense, in elements. One
	// chunk spans ChunkLen/ElemsPerByte packed bytes. Every vector width
	// the kernels dispatch to divides it.
	ChunkLen = 16
)

// PackedSize returns the number of bytes needed to hold n packed ternary
// elements: ceil(n/4), or 0 when n <= 0. Every routine in this module
// that walks a packed buffer reads at most PackedSize(n) bytes of it.
func PackedSize(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + ElemsPerByte - 1) / ElemsPerByte
}

// fieldAt extracts the 2-bit field of element i from a packed buffer.
func fieldAt(packed []byte, i int) byte {
	return (packed[i/ElemsPerByte] >> (uint(i%ElemsPerByte) * 2)) & 0x3
}

// weightAt decodes element i of a kernel-layout buffer to {-1, 0, +1}.
func weightAt(packed []byte, i int) int32 {
	return int32(fieldAt(packed, i)) - 1
}
