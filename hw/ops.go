package hw

import "chip8/hw/hwio"

// ops holds the instruction handlers, indexed by Instr. A handler runs with PC
// already pointing at the next instruction.
var ops = [numInstrs]func(*CPU, uint16) Status{
	InstrUnknown: unknown,
	InstrCLS:     CLS,
	InstrRET:     RET,
	InstrJP:      JP,
	InstrCALL:    CALL,
	InstrSEByte:  SEByte,
	InstrSNEByte: SNEByte,
	InstrSEReg:   SEReg,
	InstrLDByte:  LDByte,
	InstrADDByte: ADDByte,
	InstrLDReg:   LDReg,
	InstrOR:      OR,
	InstrAND:     AND,
	InstrXOR:     XOR,
	InstrADDReg:  ADDReg,
	InstrSUB:     SUB,
	InstrSHR:     SHR,
	InstrSUBN:    SUBN,
	InstrSHL:     SHL,
	InstrSNEReg:  SNEReg,
	InstrLDI:     LDI,
	InstrJPV0:    JPV0,
	InstrRND:     RND,
	InstrDRW:     DRW,
	InstrSKP:     SKP,
	InstrSKNP:    SKNP,
	InstrLDVxDT:  LDVxDT,
	InstrLDVxK:   LDVxK,
	InstrLDDTVx:  LDDTVx,
	InstrLDSTVx:  LDSTVx,
	InstrADDI:    ADDI,
	InstrLDF:     LDF,
	InstrLDB:     LDB,
	InstrLDIVx:   LDIVx,
	InstrLDVxI:   LDVxI,
}

func unknown(*CPU, uint16) Status {
	return StatusUnknownOpcode
}

func (c *CPU) read8(addr uint16) uint8 {
	return c.Mem[addr&AddrMask]
}

func (c *CPU) write8(addr uint16, val uint8) {
	c.Mem[addr&AddrMask] = val
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.PC += 2
	}
}

// 00E0
func CLS(c *CPU, _ uint16) Status {
	c.Display = Display{}
	return StatusRedraw
}

// 00EE
func RET(c *CPU, _ uint16) Status {
	if c.SP == 0 {
		return StatusStackUnderflow
	}
	c.SP--
	c.PC = c.Stack[c.SP]
	return StatusOK
}

// 1nnn
func JP(c *CPU, op uint16) Status {
	c.PC = opNNN(op)
	return StatusOK
}

// 2nnn
func CALL(c *CPU, op uint16) Status {
	if c.SP == StackSize {
		return StatusStackOverflow
	}
	c.Stack[c.SP] = c.PC
	c.SP++
	c.PC = opNNN(op)
	return StatusOK
}

// 3xkk
func SEByte(c *CPU, op uint16) Status {
	c.skipIf(c.V[opX(op)] == opKK(op))
	return StatusOK
}

// 4xkk
func SNEByte(c *CPU, op uint16) Status {
	c.skipIf(c.V[opX(op)] != opKK(op))
	return StatusOK
}

// 5xy0
func SEReg(c *CPU, op uint16) Status {
	c.skipIf(c.V[opX(op)] == c.V[opY(op)])
	return StatusOK
}

// 6xkk
func LDByte(c *CPU, op uint16) Status {
	c.V[opX(op)] = opKK(op)
	return StatusOK
}

// 7xkk, no carry.
func ADDByte(c *CPU, op uint16) Status {
	c.V[opX(op)] += opKK(op)
	return StatusOK
}

// 8xy0
func LDReg(c *CPU, op uint16) Status {
	c.V[opX(op)] = c.V[opY(op)]
	return StatusOK
}

// 8xy1
func OR(c *CPU, op uint16) Status {
	c.V[opX(op)] |= c.V[opY(op)]
	return StatusOK
}

// 8xy2
func AND(c *CPU, op uint16) Status {
	c.V[opX(op)] &= c.V[opY(op)]
	return StatusOK
}

// 8xy3
func XOR(c *CPU, op uint16) Status {
	c.V[opX(op)] ^= c.V[opY(op)]
	return StatusOK
}

// The ALU instructions below write VF first, then compute Vx from the
// registers as they are after that write. With x or y equal to F, the
// flag takes part in the result.

// 8xy4
func ADDReg(c *CPU, op uint16) Status {
	x := opX(op)
	sum := uint16(c.V[x]) + uint16(c.V[opY(op)])
	c.V[0xF] = b2u8(sum > 0xFF)
	c.V[x] = uint8(sum)
	return StatusOK
}

// 8xy5
func SUB(c *CPU, op uint16) Status {
	x, y := opX(op), opY(op)
	c.V[0xF] = b2u8(c.V[x] > c.V[y])
	c.V[x] -= c.V[y]
	return StatusOK
}

// 8xy6
func SHR(c *CPU, op uint16) Status {
	x := opX(op)
	c.V[0xF] = hwio.Bit(c.V[x], 0)
	c.V[x] >>= 1
	return StatusOK
}

// 8xy7
func SUBN(c *CPU, op uint16) Status {
	x, y := opX(op), opY(op)
	c.V[0xF] = b2u8(c.V[x] < c.V[y])
	c.V[x] = c.V[y] - c.V[x]
	return StatusOK
}

// 8xyE
func SHL(c *CPU, op uint16) Status {
	x := opX(op)
	c.V[0xF] = hwio.Bit(c.V[x], 7)
	c.V[x] <<= 1
	return StatusOK
}

// 9xy0
func SNEReg(c *CPU, op uint16) Status {
	c.skipIf(c.V[opX(op)] != c.V[opY(op)])
	return StatusOK
}

// Annn
func LDI(c *CPU, op uint16) Status {
	c.I = opNNN(op)
	return StatusOK
}

// Bnnn
func JPV0(c *CPU, op uint16) Status {
	c.PC = opNNN(op) + uint16(c.V[0])
	return StatusOK
}

// Cxkk
func RND(c *CPU, op uint16) Status {
	c.V[opX(op)] = uint8(c.rng.Uint32()) & opKK(op)
	return StatusOK
}

// Dxyn: XOR an n-row sprite read at I onto the display at (Vx, Vy). Each
// pixel wraps around the screen edges independently. VF is set when a lit
// pixel gets erased.
func DRW(c *CPU, op uint16) Status {
	n := int(opN(op))
	x0 := int(c.V[opX(op)])
	y0 := int(c.V[opY(op)])

	var collision uint8
	for row := range n {
		sprite := c.read8(c.I + uint16(row))
		y := (y0 + row) % ScreenHeight
		for col := range 8 {
			bit := hwio.Bit(sprite, uint(7-col))
			idx := y*ScreenWidth + (x0+col)%ScreenWidth
			if c.Display[idx] == 1 && bit == 1 {
				collision = 1
			}
			c.Display[idx] ^= bit
		}
	}
	c.V[0xF] = collision
	return StatusRedraw
}

// Ex9E
func SKP(c *CPU, op uint16) Status {
	c.skipIf(c.keyHeld(c.V[opX(op)]))
	return StatusOK
}

// ExA1
func SKNP(c *CPU, op uint16) Status {
	c.skipIf(!c.keyHeld(c.V[opX(op)]))
	return StatusOK
}

// Fx07
func LDVxDT(c *CPU, op uint16) Status {
	c.V[opX(op)] = c.DT
	return StatusOK
}

// Fx0A: blocks until a key is pressed. Without a latched key the CPU enters
// the WaitingForKey state and PC is rewound so that the instruction executes
// again once a key is pressed.
func LDVxK(c *CPU, op uint16) Status {
	if !c.keyLatched {
		c.state = WaitingForKey
		c.PC -= 2
		return StatusOK
	}
	c.V[opX(op)] = c.lastKey
	c.keyLatched = false
	return StatusOK
}

// Fx15
func LDDTVx(c *CPU, op uint16) Status {
	c.DT = c.V[opX(op)]
	return StatusOK
}

// Fx18
func LDSTVx(c *CPU, op uint16) Status {
	c.ST = c.V[opX(op)]
	return StatusOK
}

// Fx1E: VF reports whether I went past the addressable space.
func ADDI(c *CPU, op uint16) Status {
	c.I += uint16(c.V[opX(op)])
	c.V[0xF] = b2u8(c.I > AddrMask)
	return StatusOK
}

// Fx29
func LDF(c *CPU, op uint16) Status {
	c.I = uint16(c.V[opX(op)]) * glyphSize
	return StatusOK
}

// Fx33
func LDB(c *CPU, op uint16) Status {
	vx := c.V[opX(op)]
	c.write8(c.I, vx/100)
	c.write8(c.I+1, (vx/10)%10)
	c.write8(c.I+2, vx%10)
	return StatusOK
}

// Fx55: I is left unchanged.
func LDIVx(c *CPU, op uint16) Status {
	x := uint16(opX(op))
	for i := range x + 1 {
		c.write8(c.I+i, c.V[i])
	}
	return StatusOK
}

// Fx65
func LDVxI(c *CPU, op uint16) Status {
	x := uint16(opX(op))
	for i := range x + 1 {
		c.V[i] = c.read8(c.I + i)
	}
	return StatusOK
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
