package debugger

import (
	"fmt"

	"chip8/hw"
)

type stackFrame struct {
	src    uint16 // address of the CALL instruction
	target uint16 // subroutine entry point
	ret    uint16 // return address
}

// callStack mirrors the CPU return stack with the call sites and entry
// points, which the CPU doesn't keep.
type callStack struct {
	frames [hw.StackSize]stackFrame
	depth  int
}

// push records a call. Calls past the stack capacity fault in the CPU, they
// are not recorded.
func (cs *callStack) push(src, dst, ret uint16) {
	if cs.depth == len(cs.frames) {
		return
	}
	cs.frames[cs.depth] = stackFrame{src: src, target: dst, ret: ret}
	cs.depth++
}

func (cs *callStack) len() int {
	return cs.depth
}

func (cs *callStack) pop() {
	if cs.depth > 0 {
		cs.depth--
	}
}

func (cs *callStack) reset() {
	cs.depth = 0
}

// A FrameInfo describes a call stack frame: the entry point of the
// subroutine and the address currently executing in it.
type FrameInfo [2]string

// build returns the frames of the call stack, innermost first. pc is the
// address executing in the innermost frame.
func (cs *callStack) build(pc uint16) []FrameInfo {
	nfos := make([]FrameInfo, 0, cs.depth+1)
	at := pc
	for i := cs.depth - 1; i >= 0; i-- {
		f := &cs.frames[i]
		nfos = append(nfos, FrameInfo{fmt.Sprintf("0x%03X", f.target), fmt.Sprintf("0x%03X", at)})
		at = f.src
	}
	return append(nfos, FrameInfo{"[bottom of stack]", fmt.Sprintf("0x%03X", at)})
}
