package hw

// Operand fields of an opcode.
func opX(op uint16) uint8    { return uint8(op>>8) & 0xF }
func opY(op uint16) uint8    { return uint8(op>>4) & 0xF }
func opKK(op uint16) uint8   { return uint8(op) }
func opNNN(op uint16) uint16 { return op & 0xFFF }
func opN(op uint16) uint8    { return uint8(op) & 0xF }

// Instr identifies an instruction of the CHIP-8 instruction set.
type Instr uint8

const (
	InstrUnknown Instr = iota

	InstrCLS     // 00E0
	InstrRET     // 00EE
	InstrJP      // 1nnn
	InstrCALL    // 2nnn
	InstrSEByte  // 3xkk
	InstrSNEByte // 4xkk
	InstrSEReg   // 5xy0
	InstrLDByte  // 6xkk
	InstrADDByte // 7xkk
	InstrLDReg   // 8xy0
	InstrOR      // 8xy1
	InstrAND     // 8xy2
	InstrXOR     // 8xy3
	InstrADDReg  // 8xy4
	InstrSUB     // 8xy5
	InstrSHR     // 8xy6
	InstrSUBN    // 8xy7
	InstrSHL     // 8xyE
	InstrSNEReg  // 9xy0
	InstrLDI     // Annn
	InstrJPV0    // Bnnn
	InstrRND     // Cxkk
	InstrDRW     // Dxyn
	InstrSKP     // Ex9E
	InstrSKNP    // ExA1
	InstrLDVxDT  // Fx07
	InstrLDVxK   // Fx0A
	InstrLDDTVx  // Fx15
	InstrLDSTVx  // Fx18
	InstrADDI    // Fx1E
	InstrLDF     // Fx29
	InstrLDB     // Fx33
	InstrLDIVx   // Fx55
	InstrLDVxI   // Fx65

	numInstrs
)

// Decode maps an opcode to the instruction it encodes. Every 16-bit word maps
// to exactly one Instr, InstrUnknown for those outside the instruction set.
//
// Families 0, E and F are selected on the low byte, family 8 on the low
// nibble. The low nibble of families 5 and 9 is not decoded.
func Decode(op uint16) Instr {
	switch op >> 12 {
	case 0x0:
		switch opKK(op) {
		case 0xE0:
			return InstrCLS
		case 0xEE:
			return InstrRET
		}
	case 0x1:
		return InstrJP
	case 0x2:
		return InstrCALL
	case 0x3:
		return InstrSEByte
	case 0x4:
		return InstrSNEByte
	case 0x5:
		return InstrSEReg
	case 0x6:
		return InstrLDByte
	case 0x7:
		return InstrADDByte
	case 0x8:
		switch opN(op) {
		case 0x0:
			return InstrLDReg
		case 0x1:
			return InstrOR
		case 0x2:
			return InstrAND
		case 0x3:
			return InstrXOR
		case 0x4:
			return InstrADDReg
		case 0x5:
			return InstrSUB
		case 0x6:
			return InstrSHR
		case 0x7:
			return InstrSUBN
		case 0xE:
			return InstrSHL
		}
	case 0x9:
		return InstrSNEReg
	case 0xA:
		return InstrLDI
	case 0xB:
		return InstrJPV0
	case 0xC:
		return InstrRND
	case 0xD:
		return InstrDRW
	case 0xE:
		switch opKK(op) {
		case 0x9E:
			return InstrSKP
		case 0xA1:
			return InstrSKNP
		}
	case 0xF:
		switch opKK(op) {
		case 0x07:
			return InstrLDVxDT
		case 0x0A:
			return InstrLDVxK
		case 0x15:
			return InstrLDDTVx
		case 0x18:
			return InstrLDSTVx
		case 0x1E:
			return InstrADDI
		case 0x29:
			return InstrLDF
		case 0x33:
			return InstrLDB
		case 0x55:
			return InstrLDIVx
		case 0x65:
			return InstrLDVxI
		}
	}
	return InstrUnknown
}
