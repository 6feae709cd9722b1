package buf

import "encoding/binary"

// PutUvarint7 writes v at b[off:] using the 7-bit continuation encoding
// (low groups first, high bit set on all but the last byte). It returns the
// number of bytes written and false when b is too short.
func PutUvarint7(b []byte, off int, v uint64) (int, bool) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	dst, ok := Slice(b, off, n)
	if !ok {
		return 0, false
	}
	copy(dst, tmp[:n])
	return n, true
}

// Uvarint7 decodes a 7-bit encoded value at b[off:]. It returns the value, the
// number of bytes consumed, and false on truncation or overflow.
func Uvarint7(b []byte, off int) (uint64, int, bool) {
	if off < 0 || off >= len(b) {
		return 0, 0, false
	}
	v, n := binary.Uvarint(b[off:])
	if n <= 0 {
		return 0, 0, false
	}
	return v, n, true
}

// Uvarint7Len returns the encoded width of v.
func Uvarint7Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
