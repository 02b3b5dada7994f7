package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x7f, 0x80, 0x3fff, 0x4000, 1 << 32, 1 << 63, math.MaxUint64}
	for _, v := range values {
		enc := AppendUvarint(nil, v)
		got, n, err := Uvarint(enc)
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v || n != len(enc) {
			t.Fatalf("decode %d: got %d consuming %d of %d bytes", v, got, n, len(enc))
		}
	}
}

func TestUvarintSmallValuesAreOneByte(t *testing.T) {
	for v := uint64(0); v < 0x80; v++ {
		if enc := AppendUvarint(nil, v); len(enc) != 1 {
			t.Fatalf("value %d encoded in %d bytes", v, len(enc))
		}
	}
}

func TestUvarintLittleEndianGroupOrder(t *testing.T) {
	// 300 = 0b10_0101100: low group first.
	enc := AppendUvarint(nil, 300)
	if !bytes.Equal(enc, []byte{0xac, 0x02}) {
		t.Fatalf("encoding of 300: %x", enc)
	}
}

func TestUvarintShort(t *testing.T) {
	_, _, err := Uvarint([]byte{0x80, 0x80})
	if !errors.Is(err, ErrShortVarint) {
		t.Fatalf("expected ErrShortVarint, got %v", err)
	}
	_, _, err = Uvarint(nil)
	if !errors.Is(err, ErrShortVarint) {
		t.Fatalf("expected ErrShortVarint on empty input, got %v", err)
	}
}

func TestUvarintOverlong(t *testing.T) {
	// Ten continuation bytes can never terminate within 64 bits.
	enc := bytes.Repeat([]byte{0x80}, MaxVarintBytes)
	_, _, err := Uvarint(append(enc, 0x01))
	if !errors.Is(err, ErrOverlongVarint) {
		t.Fatalf("expected ErrOverlongVarint, got %v", err)
	}
}
