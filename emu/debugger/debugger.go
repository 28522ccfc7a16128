// Package debugger follows the execution of a CPU to keep track of its call
// stack, and reports the machine state when the CPU halts.
package debugger

import (
	"fmt"
	"io"

	"chip8/emu/log"
	"chip8/hw"
)

var modDbg = log.NewModule("dbg")

// A Debugger implements hw.Debugger. In order to report the call stack at any
// moment, it has to follow the CPU even when nothing is reported. The state
// kept is the minimum: the previous PC and opcode, and the stack frames.
type Debugger struct {
	cpu *hw.CPU
	out io.Writer

	prevPC     uint16
	prevOpcode uint16
	traced     bool

	cstack callStack
	halts  int
}

// New creates a debugger and attaches it to cpu. Halt reports are written to
// out, a nil writer disables them.
func New(cpu *hw.CPU, out io.Writer) *Debugger {
	if out == nil {
		out = io.Discard
	}
	d := &Debugger{cpu: cpu, out: out}
	cpu.SetDebugger(d)
	return d
}

func (d *Debugger) Reset() {
	d.cstack.reset()
	d.traced = false
}

// Trace must be called before each opcode is executed.
func (d *Debugger) Trace(pc uint16) {
	if d.traced {
		d.updateStack(pc)
	}

	d.prevPC = pc
	d.prevOpcode = uint16(d.cpu.Mem[pc])<<8 | uint16(d.cpu.Mem[pc+1])
	d.traced = true
}

// updateStack follows the effect of the previous instruction, now that it
// has retired and dstPC is known.
func (d *Debugger) updateStack(dstPC uint16) {
	switch hw.Decode(d.prevOpcode) {
	case hw.InstrCALL:
		d.cstack.push(d.prevPC, dstPC, d.prevPC+2)
	case hw.InstrRET:
		d.cstack.pop()
	}
}

// Break is called by the CPU when it halts.
func (d *Debugger) Break(st hw.Status) {
	d.halts++
	modDbg.DebugZ("break").Stringer("status", st).Int("depth", d.cstack.len()).End()

	// The halting instruction has retired, account for it.
	if st == hw.StatusBreakpoint {
		d.updateStack(d.cpu.PC)
		d.traced = false
	}

	if st.IsFault() {
		fmt.Fprintf(d.out, "Fault: %s\n", d.cpu.Fault())
	} else {
		fmt.Fprintf(d.out, "Breakpoint reached at 0x%03X\n", d.prevPC)
	}
	if err := d.cpu.Dump(d.out); err != nil {
		modDbg.WarnZ("dump failed").Error("err", err).End()
		return
	}
	d.writeFrames(d.out)
}

func (d *Debugger) writeFrames(w io.Writer) {
	fmt.Fprintf(w, "\ncall stack:\n")
	for i, f := range d.Frames() {
		fmt.Fprintf(w, "  #%-2d %-18s %s\n", i, f[0], f[1])
	}
}

// Frames returns the current call stack, innermost frame first.
func (d *Debugger) Frames() []FrameInfo {
	return d.cstack.build(d.cpu.PC)
}

// Depth returns the number of subroutine calls in progress.
func (d *Debugger) Depth() int {
	return d.cstack.len()
}

// Halts returns the number of times the CPU halted.
func (d *Debugger) Halts() int {
	return d.halts
}
