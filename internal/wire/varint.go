package wire

import "errors"

// MaxVarintBytes is the longest legal encoding of a 64-bit varint.
const MaxVarintBytes = 10

var (
	ErrShortVarint    = errors.New("wire: short varint")
	ErrOverlongVarint = errors.New("wire: overlong varint")
)

// AppendUvarint appends v as a little-endian base-128 varint: 7 data bits
// per byte, high bit set on every byte except the last.
func AppendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// Uvarint decodes a varint from the front of b and returns the value and the
// number of bytes consumed. ErrShortVarint means b ends mid-varint;
// ErrOverlongVarint means the encoding cannot fit 64 bits.
func Uvarint(b []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i, c := range b {
		if i == MaxVarintBytes-1 && c > 1 {
			return 0, 0, ErrOverlongVarint
		}
		v |= uint64(c&0x7f) << shift
		if c < 0x80 {
			return v, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, ErrShortVarint
}
