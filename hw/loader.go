package hw

import (
	"slices"

	"github.com/go-faster/errors"
)

var ErrProgramTooLarge = errors.New("program too large")

// Load copies the program image at ProgramBase. The image isn't validated,
// unknown opcodes are only detected at execution. The image is kept so that
// Reset reloads it.
func (c *CPU) Load(prog []byte) error {
	if len(prog) > MaxProgramSize {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes, max: %d", len(prog), MaxProgramSize)
	}

	c.prog = slices.Clone(prog)
	clear(c.Mem[ProgramBase:])
	copy(c.Mem[ProgramBase:], c.prog)
	return nil
}

// Program returns the loaded program image.
func (c *CPU) Program() []byte {
	return c.prog
}
