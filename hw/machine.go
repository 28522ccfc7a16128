package hw

import (
	"math/rand/v2"
	"time"

	"chip8/hw/hwio"
)

const (
	MemSize        = 0x1000               // 4K of addressable memory
	ProgramBase    = 0x200                // programs are loaded at 512
	MaxProgramSize = MemSize - ProgramBase // 3584 bytes
	AddrMask       = MemSize - 1

	ScreenWidth  = 64
	ScreenHeight = 32

	StackSize = 16
	NumKeys   = 16

	glyphSize = 5
)

// font holds the 16 hexadecimal digit glyphs (0-F), 5 bytes each, copied at
// the start of memory.
var font = [NumKeys * glyphSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Display is the 64x32 monochrome framebuffer, one byte per pixel in
// row-major order. Pixels are either 0 (unlit) or 1 (lit).
type Display [ScreenWidth * ScreenHeight]uint8

// At returns the pixel at column x and row y.
func (d *Display) At(x, y int) uint8 {
	return d[y*ScreenWidth+x]
}

// CPU holds the whole machine state of the CHIP-8 virtual machine. A CPU is
// not safe for concurrent use: all calls to Cycle, Run, TickTimers and the
// keypad setters must come from the same goroutine.
type CPU struct {
	Mem     [MemSize]uint8
	Display Display

	// cpu registers
	V      [16]uint8
	I      uint16
	PC     uint16
	SP     uint8
	Stack  [StackSize]uint16
	DT, ST uint8

	// Keypad bitmap, bit k is set when key k is held.
	Keypad uint16

	Cycles int64 // retired instructions

	state  State
	halt   Status
	fault  *Fault
	opcode uint16

	keyLatched bool
	lastKey    uint8

	prog        []byte
	breakpoints hwio.Bitset
	rng         *rand.Rand

	// Non-nil when execution tracing is enabled.
	tracer *tracer
	dbg    Debugger
}

// NewCPU creates a new CPU at power-up state.
func NewCPU() *CPU {
	seed := uint64(time.Now().UnixNano())
	cpu := &CPU{
		rng: rand.New(rand.NewPCG(seed, seed>>32|1)),
		dbg: nopDebugger{},
	}
	cpu.powerUp()
	return cpu
}

func (c *CPU) powerUp() {
	c.Mem = [MemSize]uint8{}
	copy(c.Mem[:], font[:])
	copy(c.Mem[ProgramBase:], c.prog)

	c.Display = Display{}
	c.V = [16]uint8{}
	c.I = 0
	c.PC = ProgramBase
	c.SP = 0
	c.Stack = [StackSize]uint16{}
	c.DT, c.ST = 0, 0
	c.Keypad = 0
	c.Cycles = 0

	c.state = Running
	c.halt = StatusOK
	c.fault = nil
	c.opcode = 0
	c.keyLatched = false
	c.lastKey = 0
}

// Reset brings the CPU back to its power-up state. The loaded program, the
// breakpoints, the random source, the tracer and the debugger are kept.
func (c *CPU) Reset() {
	c.powerUp()
	c.dbg.Reset()
}

// Seed reseeds the random source used by the RND instruction.
func (c *CPU) Seed(seed uint64) {
	c.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// Opcode returns the last fetched opcode.
func (c *CPU) Opcode() uint16 {
	return c.opcode
}
