package hwio

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBitset(t *testing.T) {
	var b Bitset
	for i := range NumBits {
		if b.Test(uint(i)) {
			t.Fatalf("Bit %d is set", i)
		}
	}

	for i := range NumBits {
		b.Set(uint(i))
		if !b.Test(uint(i)) {
			t.Fatalf("Bit %d is not set", i)
		}
		b.Clear(uint(i))
		if b.Test(uint(i)) {
			t.Fatalf("Bit %d is set", i)
		}
	}

	if b.Test(NumBits + 3) {
		t.Fatalf("out of range bit should never be set")
	}
}

func TestBitsetIndices(t *testing.T) {
	var b Bitset
	want := []uint{0, 63, 64, 0x200, 0x2A4, 0xFFF}
	for _, i := range want {
		b.Set(i)
	}
	if diff := cmp.Diff(want, b.Indices()); diff != "" {
		t.Fatalf("Indices() mismatch (-want +got):\n%s", diff)
	}
	if got := b.Count(); got != len(want) {
		t.Fatalf("Count() = %d, want %d", got, len(want))
	}

	b.Reset()
	if got := b.Count(); got != 0 {
		t.Fatalf("Count() = %d after Reset, want 0", got)
	}
}

func TestBitsetRandom(t *testing.T) {
	var b Bitset
	ref := make(map[uint]bool)
	rng := rand.New(rand.NewPCG(1, 2))
	for range 2000 {
		i := uint(rng.IntN(NumBits))
		if rng.IntN(2) == 0 {
			b.Set(i)
			ref[i] = true
		} else {
			b.Clear(i)
			delete(ref, i)
		}
	}
	for i := range uint(NumBits) {
		if b.Test(i) != ref[i] {
			t.Fatalf("bit %d = %t, want %t", i, b.Test(i), ref[i])
		}
	}
}

func TestBitops(t *testing.T) {
	var keys uint16
	SetBit16(&keys, 0xA)
	SetBit16(&keys, 0x1)
	if keys != 0x0402 {
		t.Fatalf("keys = %04x, want 0402", keys)
	}
	if !GetBit16(keys, 0xA) || GetBit16(keys, 0xB) {
		t.Fatalf("GetBit16 mismatch")
	}
	ClearBit16(&keys, 0xA)
	ClearBit16(&keys, 0xA)
	if keys != 0x0002 {
		t.Fatalf("keys = %04x, want 0002", keys)
	}

	if GetBiti8(0x80, 7) != 1 || GetBiti8(0x80, 6) != 0 || !GetBit8(0x01, 0) {
		t.Fatalf("8-bit ops mismatch")
	}
}
