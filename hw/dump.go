package hw

import (
	"bytes"
	"fmt"
	"io"
)

// Dump writes a human readable dump of the CPU registers and stack to w.
func (c *CPU) Dump(w io.Writer) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "State: %s", c.state)
	if c.state == Halted {
		fmt.Fprintf(&buf, " (%s)", c.halt)
	}
	buf.WriteByte('\n')

	fmt.Fprintf(&buf, "PC: 0x%02X\n", c.PC)
	fmt.Fprintf(&buf, "ST: 0x%02X\n", c.ST)
	fmt.Fprintf(&buf, "DT: 0x%02X\n", c.DT)
	fmt.Fprintf(&buf, "I: 0x%02X\n\n", c.I)

	for i, v := range c.V {
		fmt.Fprintf(&buf, "V%X: 0x%02X\n", i, v)
	}

	fmt.Fprintf(&buf, "\nSP: 0x%02X\n", c.SP)
	for i, addr := range c.Stack {
		fmt.Fprintf(&buf, "stack[%X]: 0x%04X\n", i, addr)
	}

	_, err := w.Write(buf.Bytes())
	return err
}
