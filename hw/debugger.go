package hw

// A Debugger monitors a CPU.
type Debugger interface {
	// Reset is called after the CPU has been reset.
	Reset()

	// Trace is called before each opcode is executed, with the address of
	// the instruction about to be fetched.
	Trace(pc uint16)

	// Break is called when the CPU halts, either on a breakpoint or on an
	// execution fault.
	Break(st Status)
}

type nopDebugger struct{}

func (nopDebugger) Reset()       {}
func (nopDebugger) Trace(uint16) {}
func (nopDebugger) Break(Status) {}
