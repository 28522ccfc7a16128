package hw

import "fmt"

// A Fault describes an execution fault that halted the CPU.
//
// PC is the program counter at the time of the fault. Since the program
// counter is advanced before the instruction executes, PC is the address of
// the instruction following the faulting one (except for PCOverflow, where no
// fetch happened). PrevPC holds the address of the faulting instruction.
type Fault struct {
	Kind   Status
	PC     uint16
	PrevPC uint16
	Opcode uint16
}

func (f *Fault) Error() string {
	switch f.Kind {
	case StatusUnknownOpcode:
		return fmt.Sprintf("invalid opcode at PC=0x%03X: 0x%04X", f.PC, f.Opcode)
	case StatusStackOverflow:
		return fmt.Sprintf("stack overflow at PC=0x%03X", f.PC)
	case StatusStackUnderflow:
		return fmt.Sprintf("trying to pop from empty stack at PC=0x%03X", f.PC)
	case StatusPCOverflow:
		return fmt.Sprintf("program counter overflow at PC=0x%03X", f.PC)
	}
	return fmt.Sprintf("%s at PC=0x%03X", f.Kind, f.PC)
}
