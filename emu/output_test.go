package emu

import (
	"strings"

	"chip8/hw"
	"chip8/hw/input"
)

// TestingOutput is a headless Output. Events are injected with a script
// indexed by poll number.
type TestingOutput struct {
	display hw.Display
	renders int
	titles  []string
	closed  bool

	// MaxPolls is the number of polls after which the output asks to quit.
	MaxPolls int
	polls    int
	script   map[int]func(ev *input.Events)
}

func newTestingOutput(maxPolls int) *TestingOutput {
	return &TestingOutput{
		MaxPolls: maxPolls,
		script:   make(map[int]func(ev *input.Events)),
	}
}

// At registers fn to be called at the n-th poll.
func (to *TestingOutput) At(n int, fn func(ev *input.Events)) {
	to.script[n] = fn
}

func (to *TestingOutput) Poll(ev *input.Events) bool {
	if to.polls >= to.MaxPolls {
		return false
	}
	if fn := to.script[to.polls]; fn != nil {
		fn(ev)
	}
	to.polls++
	return true
}

func (to *TestingOutput) Render(d *hw.Display) {
	to.display = *d
	to.renders++
}

func (to *TestingOutput) SetTitle(title string) {
	to.titles = append(to.titles, title)
}

func (to *TestingOutput) Title() string {
	if len(to.titles) == 0 {
		return ""
	}
	return to.titles[len(to.titles)-1]
}

func (to *TestingOutput) Close() error {
	to.closed = true
	return nil
}

// Screen returns the last rendered display as text, '#' for lit pixels.
func (to *TestingOutput) Screen() string {
	var sb strings.Builder
	for y := range hw.ScreenHeight {
		for x := range hw.ScreenWidth {
			if to.display.At(x, y) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

type testingSound struct {
	frames []bool
	closed bool
}

func (ts *testingSound) Frame(on bool) { ts.frames = append(ts.frames, on) }
func (ts *testingSound) Close() error  { ts.closed = true; return nil }
