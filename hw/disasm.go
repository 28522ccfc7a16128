package hw

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Disasm disassembles the instruction at pc.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	op := uint16(c.read8(pc))<<8 | uint16(c.read8(pc+1))
	return disasmOpcode(pc, op)
}

func vreg(r uint8) string     { return fmt.Sprintf("V%X", r) }
func fmtAddr(a uint16) string { return fmt.Sprintf("0x%03X", a) }
func imm8(b uint8) string     { return fmt.Sprintf("0x%02X", b) }

func disasmOpcode(pc, op uint16) DisasmOp {
	d := DisasmOp{
		PC:  pc,
		Buf: []byte{byte(op >> 8), byte(op)},
	}

	vx, vy := vreg(opX(op)), vreg(opY(op))
	set := func(mnemonic string, opers ...string) {
		d.Opcode = mnemonic
		d.Oper = strings.Join(opers, ", ")
	}

	switch Decode(op) {
	case InstrCLS:
		set("CLS")
	case InstrRET:
		set("RET")
	case InstrJP:
		set("JP", fmtAddr(opNNN(op)))
	case InstrCALL:
		set("CALL", fmtAddr(opNNN(op)))
	case InstrSEByte:
		set("SE", vx, imm8(opKK(op)))
	case InstrSNEByte:
		set("SNE", vx, imm8(opKK(op)))
	case InstrSEReg:
		set("SE", vx, vy)
	case InstrLDByte:
		set("LD", vx, imm8(opKK(op)))
	case InstrADDByte:
		set("ADD", vx, imm8(opKK(op)))
	case InstrLDReg:
		set("LD", vx, vy)
	case InstrOR:
		set("OR", vx, vy)
	case InstrAND:
		set("AND", vx, vy)
	case InstrXOR:
		set("XOR", vx, vy)
	case InstrADDReg:
		set("ADD", vx, vy)
	case InstrSUB:
		set("SUB", vx, vy)
	case InstrSHR:
		set("SHR", vx)
	case InstrSUBN:
		set("SUBN", vx, vy)
	case InstrSHL:
		set("SHL", vx)
	case InstrSNEReg:
		set("SNE", vx, vy)
	case InstrLDI:
		set("LD", "I", fmtAddr(opNNN(op)))
	case InstrJPV0:
		set("JP", "V0", fmtAddr(opNNN(op)))
	case InstrRND:
		set("RND", vx, imm8(opKK(op)))
	case InstrDRW:
		set("DRW", vx, vy, fmt.Sprintf("%d", opN(op)))
	case InstrSKP:
		set("SKP", vx)
	case InstrSKNP:
		set("SKNP", vx)
	case InstrLDVxDT:
		set("LD", vx, "DT")
	case InstrLDVxK:
		set("LD", vx, "K")
	case InstrLDDTVx:
		set("LD", "DT", vx)
	case InstrLDSTVx:
		set("LD", "ST", vx)
	case InstrADDI:
		set("ADD", "I", vx)
	case InstrLDF:
		set("LD", "F", vx)
	case InstrLDB:
		set("LD", "B", vx)
	case InstrLDIVx:
		set("LD", "[I]", vx)
	case InstrLDVxI:
		set("LD", vx, "[I]")
	default:
		set("DW", fmt.Sprintf("0x%04X", op))
	}
	return d
}

// Disassemble writes the listing of the program image prog, loaded at base,
// to w. Data and code are not told apart, every aligned word is disassembled.
func Disassemble(w io.Writer, prog []byte, base uint16) error {
	var line []byte
	for off := 0; off < len(prog); off += 2 {
		pc := base + uint16(off)
		var d DisasmOp
		if off+1 < len(prog) {
			d = disasmOpcode(pc, uint16(prog[off])<<8|uint16(prog[off+1]))
		} else {
			d = DisasmOp{
				PC:     pc,
				Buf:    prog[off : off+1],
				Opcode: "DB",
				Oper:   imm8(prog[off]),
			}
		}
		line = append(bytes.TrimRight(d.Bytes(), " "), '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
