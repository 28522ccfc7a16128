package hw

import (
	"slices"

	"github.com/go-faster/errors"

	"chip8/hw/snapshot"
)

// SaveSnapshot returns a copy of the CPU state.
func (c *CPU) SaveSnapshot() *snapshot.CPU {
	snap := &snapshot.CPU{
		Version:    snapshot.Version,
		Mem:        slices.Clone(c.Mem[:]),
		Display:    slices.Clone(c.Display[:]),
		Program:    slices.Clone(c.prog),
		V:          c.V,
		I:          c.I,
		PC:         c.PC,
		SP:         c.SP,
		Stack:      c.Stack,
		DT:         c.DT,
		ST:         c.ST,
		Keypad:     c.Keypad,
		Cycles:     c.Cycles,
		State:      uint8(c.state),
		Halt:       uint8(c.halt),
		KeyLatched: c.keyLatched,
		LastKey:    c.lastKey,
		Opcode:     c.opcode,
	}
	if c.fault != nil {
		snap.FaultAddr = c.fault.PrevPC
	}
	return snap
}

// LoadSnapshot restores the CPU state from a snapshot. Breakpoints, tracer and
// debugger are left untouched.
func (c *CPU) LoadSnapshot(snap *snapshot.CPU) error {
	if len(snap.Mem) != MemSize {
		return errors.Errorf("snapshot: memory size %d, want %d", len(snap.Mem), MemSize)
	}
	if len(snap.Display) != len(c.Display) {
		return errors.Errorf("snapshot: display size %d, want %d", len(snap.Display), len(c.Display))
	}
	if len(snap.Program) > MaxProgramSize {
		return errors.Wrapf(ErrProgramTooLarge, "snapshot: program size %d", len(snap.Program))
	}
	for i, px := range snap.Display {
		if px > 1 {
			return errors.Errorf("snapshot: invalid pixel value %d at %d", px, i)
		}
	}
	if State(snap.State) > Halted || Status(snap.Halt) > StatusPCOverflow || snap.SP > StackSize {
		return errors.Errorf("snapshot: invalid cpu state")
	}

	copy(c.Mem[:], snap.Mem)
	copy(c.Display[:], snap.Display)
	c.prog = slices.Clone(snap.Program)
	c.V = snap.V
	c.I = snap.I
	c.PC = snap.PC
	c.SP = snap.SP
	c.Stack = snap.Stack
	c.DT = snap.DT
	c.ST = snap.ST
	c.Keypad = snap.Keypad
	c.Cycles = snap.Cycles
	c.state = State(snap.State)
	c.halt = Status(snap.Halt)
	c.keyLatched = snap.KeyLatched
	c.lastKey = snap.LastKey & (NumKeys - 1)
	c.opcode = snap.Opcode

	c.fault = nil
	if c.halt.IsFault() {
		c.fault = &Fault{
			Kind:   c.halt,
			PC:     c.PC,
			PrevPC: snap.FaultAddr,
			Opcode: c.opcode,
		}
	}
	return nil
}
