package hwio

import "math/bits"

const (
	NumBits  = 0x1000             // CHIP-8 addressing space is 4K
	wordSize = 64                 // using 64-bit words
	numWords = NumBits / wordSize // 64 words exactly
)

// Bitset is a 4Kbit set, one bit per CHIP-8 address. Zero value is an empty
// set (all bits cleared).
type Bitset struct {
	words [numWords]uint64
}

// Set sets the bit at index i. Indices are taken modulo NumBits.
func (b *Bitset) Set(i uint) {
	i %= NumBits
	b.words[i/wordSize] |= 1 << (i % wordSize)
}

// Clear clears the bit at index i. Indices are taken modulo NumBits.
func (b *Bitset) Clear(i uint) {
	i %= NumBits
	b.words[i/wordSize] &^= 1 << (i % wordSize)
}

// Test returns true if the bit at index i is set. Indices outside of the set
// are never set.
func (b *Bitset) Test(i uint) bool {
	if i >= NumBits {
		return false
	}
	return (b.words[i/wordSize] & (1 << (i % wordSize))) != 0
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Indices returns the indices of all set bits, in increasing order.
func (b *Bitset) Indices() []uint {
	var idx []uint
	for wi, w := range b.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			idx = append(idx, uint(wi*wordSize+tz))
			w &= w - 1
		}
	}
	return idx
}

// Reset clears all bits in the Bitset.
func (b *Bitset) Reset() {
	for i := range b.words {
		b.words[i] = 0
	}
}
