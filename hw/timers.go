package hw

// TickTimers decrements the delay and sound timers, down to zero. It must be
// called at 60Hz, independently of the instruction clock.
func (c *CPU) TickTimers() {
	if c.DT > 0 {
		c.DT--
	}
	if c.ST > 0 {
		c.ST--
	}
}

// SoundOn reports whether the beeper should sound.
func (c *CPU) SoundOn() bool {
	return c.ST > 0
}
