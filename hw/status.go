package hw

//go:generate go tool stringer -type=Status -trimprefix=Status
//go:generate go tool stringer -type=State

// Status is reported by the cycle engine after each instruction.
type Status uint8

const (
	StatusOK             Status = iota // instruction retired
	StatusRedraw                       // instruction modified the display
	StatusBreakpoint                   // a breakpoint address retired
	StatusUnknownOpcode                // fault: opcode not part of the instruction set
	StatusStackOverflow                // fault: CALL with a full stack
	StatusStackUnderflow               // fault: RET with an empty stack
	StatusPCOverflow                   // fault: fetch past the end of memory
)

// IsFault reports whether s is an execution fault, that is a terminal halt.
func (s Status) IsFault() bool {
	return s >= StatusUnknownOpcode
}

// State is the state of the cycle engine.
type State uint8

const (
	Running State = iota
	WaitingForKey
	Halted
)
