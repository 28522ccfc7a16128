package hwio

// Reg is the set of register widths found on the CHIP-8: 8-bit V registers
// and timers, 16-bit address register and keypad bitmap.
type Reg interface {
	~uint8 | ~uint16
}

// Bit returns bit n of v, as 0 or 1.
func Bit[T Reg](v T, n uint) T {
	return v >> n & 1
}

// IsSet reports whether bit n of v is set.
func IsSet[T Reg](v T, n uint) bool {
	return Bit(v, n) != 0
}

func SetBit[T Reg](v *T, n uint) {
	*v |= 1 << n
}

func ClearBit[T Reg](v *T, n uint) {
	*v &^= 1 << n
}
