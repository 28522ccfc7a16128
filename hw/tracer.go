package hw

import (
	"fmt"
	"io"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	V          [16]uint8
	I          uint16
	SP, DT, ST uint8
	PC         uint16

	Clock int64
}

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

type tracer struct {
	d disasmer
	w io.Writer
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

// write the execution trace for current cycle.
func (t *tracer) write(state cpuState) {
	const totalLen = 112
	buf := make([]byte, 0, totalLen)

	dis := t.d.Disasm(state.PC)
	buf = append(buf, dis.Bytes()...)

	buf = append(buf, 'V', ':')
	var hex [2]byte
	for i, v := range state.V {
		if i > 0 {
			buf = append(buf, ' ')
		}
		hexEncode(hex[:], v)
		buf = append(buf, hex[:]...)
	}

	buf = fmt.Appendf(buf, " I:%04X S:%02X DT:%02X ST:%02X CYC:%d\n",
		state.I, state.SP, state.DT, state.ST, state.Clock)
	t.w.Write(buf)
}

type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PC     uint16
}

// Bytes returns the string representation of a DisasmOp, this is optimized
// version, suitable for the execution tracer.
func (d DisasmOp) Bytes() []byte {
	const (
		totalLen  = 32
		opcodeCol = 13
		operCol   = 18
	)
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], byte(d.PC>>8))
	hexEncode(buf[2:], byte(d.PC))
	buf[4] = ' '
	buf[5] = ' '

	off := 6
	for i := range d.Buf {
		hexEncode(buf[off:], d.Buf[i])
		buf[off+2] = ' '
		off += 3
	}

	for ; off < opcodeCol; off++ {
		buf[off] = ' '
	}

	off += copy(buf[off:], d.Opcode)
	for ; off < operCol; off++ {
		buf[off] = ' '
	}

	buf = append(buf[:off], d.Oper...)
	off += len(d.Oper)
	if len(buf) > totalLen {
		buf = append(buf, ' ')
	} else {
		buf = buf[:totalLen]
		for i := off; i < totalLen; i++ {
			buf[i] = ' '
		}
	}

	return buf
}

func (d DisasmOp) String() string {
	if d.Oper == "" {
		return d.Opcode
	}
	return d.Opcode + " " + d.Oper
}
