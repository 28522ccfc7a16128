package hw

import (
	"io"

	"chip8/emu/log"
	"chip8/hw/hwio"
)

// Cycle fetches, decodes and executes one instruction and reports its
// status.
//
// While the CPU waits for a key, Cycle does nothing and reports StatusOK. Once
// halted, it does nothing and reports the reason of the halt again.
func (c *CPU) Cycle() Status {
	switch c.state {
	case Halted:
		return c.halt
	case WaitingForKey:
		return StatusOK
	}

	pc := c.PC
	if int(pc)+1 >= MemSize {
		return c.stop(StatusPCOverflow, pc)
	}

	c.opcode = uint16(c.Mem[pc])<<8 | uint16(c.Mem[pc+1])
	c.traceOp()
	c.PC += 2
	st := ops[Decode(c.opcode)](c, c.opcode)

	if st.IsFault() {
		return c.stop(st, pc)
	}
	if c.state == WaitingForKey {
		// Fx0A didn't retire, it will execute again.
		return StatusOK
	}
	c.Cycles++
	if c.breakpoints.Test(uint(pc)) {
		return c.stop(StatusBreakpoint, pc)
	}
	return st
}

// Run executes up to n cycles. It stops at the first cycle reporting anything
// else than StatusOK or StatusRedraw and returns that status, or as soon as
// the CPU is waiting for a key. Otherwise Run reports StatusRedraw if at
// least one cycle did.
func (c *CPU) Run(n int) Status {
	ret := StatusOK
	for range n {
		switch st := c.Cycle(); st {
		case StatusOK:
		case StatusRedraw:
			ret = StatusRedraw
		default:
			return st
		}
		if c.state != Running {
			break
		}
	}
	return ret
}

func (c *CPU) stop(st Status, pc uint16) Status {
	c.state = Halted
	c.halt = st
	if st.IsFault() {
		c.fault = &Fault{
			Kind:   st,
			PC:     c.PC,
			PrevPC: pc,
			Opcode: c.opcode,
		}
		log.ModCPU.WarnZ("CPU halted").
			Stringer("reason", st).
			Hex16("PC", c.PC).
			Hex16("opcode", c.opcode).
			End()
	} else {
		log.ModCPU.InfoZ("Breakpoint reached").
			Hex16("addr", pc).
			End()
	}
	c.dbg.Break(st)
	return st
}

// State returns the current state of the cycle engine.
func (c *CPU) State() State {
	return c.state
}

func (c *CPU) IsHalted() bool {
	return c.state == Halted
}

// HaltReason returns the status that halted the CPU, StatusOK if the CPU
// isn't halted.
func (c *CPU) HaltReason() Status {
	return c.halt
}

// Fault returns the execution fault that halted the CPU, or nil.
func (c *CPU) Fault() *Fault {
	return c.fault
}

// Resume leaves the halted state after a breakpoint, execution continues at
// the current PC. Faults are terminal, in which case Resume returns false.
func (c *CPU) Resume() bool {
	if c.state != Halted || c.halt != StatusBreakpoint {
		return false
	}
	c.state = Running
	c.halt = StatusOK
	return true
}

/* breakpoints */

// SetBreakpoint halts the CPU right after the instruction at addr retires.
func (c *CPU) SetBreakpoint(addr uint16) {
	c.breakpoints.Set(uint(addr & AddrMask))
}

func (c *CPU) ClearBreakpoint(addr uint16) {
	c.breakpoints.Clear(uint(addr & AddrMask))
}

// Breakpoints returns the breakpoint addresses, in increasing order.
func (c *CPU) Breakpoints() []uint16 {
	idx := c.breakpoints.Indices()
	addrs := make([]uint16, len(idx))
	for i := range idx {
		addrs[i] = uint16(idx[i])
	}
	return addrs
}

/* keypad */

// KeyDown marks key k (0x0-0xF) as held. If the CPU is waiting for a key, k is
// latched and execution resumes on the next cycle.
func (c *CPU) KeyDown(k uint8) {
	k &= NumKeys - 1
	hwio.SetBit(&c.Keypad, uint(k))
	if c.state == WaitingForKey {
		c.lastKey = k
		c.keyLatched = true
		c.state = Running
	}
}

// KeyUp marks key k (0x0-0xF) as released.
func (c *CPU) KeyUp(k uint8) {
	hwio.ClearBit(&c.Keypad, uint(k&(NumKeys-1)))
}

func (c *CPU) keyHeld(k uint8) bool {
	return hwio.IsSet(c.Keypad, uint(k&(NumKeys-1)))
}

/* tracing / debugging */

func (c *CPU) traceOp() {
	if c.tracer != nil {
		c.tracer.write(cpuState{
			V:     c.V,
			I:     c.I,
			SP:    c.SP,
			DT:    c.DT,
			ST:    c.ST,
			PC:    c.PC,
			Clock: c.Cycles,
		})
	}

	c.dbg.Trace(c.PC)
}

// SetTraceOutput enables the execution trace, one line per instruction
// written to w. A nil writer disables tracing.
func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w, d: c}
}

func (c *CPU) SetDebugger(dbg Debugger) {
	if dbg == nil {
		dbg = nopDebugger{}
	}
	c.dbg = dbg
}
