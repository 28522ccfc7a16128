// Package term is a text frontend drawing the CHIP-8 display in a terminal
// with half-block characters, two display rows per text line.
//
// Terminals don't report key releases, so a keypad key stays pressed for a
// few frames after each keystroke.
package term

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-faster/errors"
	"golang.org/x/term"

	"chip8/emu/log"
	"chip8/hw"
	"chip8/hw/input"
)

const (
	// DefaultHold is the number of frames a keypad key is held down after a
	// keystroke.
	DefaultHold = 10

	lines      = hw.ScreenHeight / 2
	statusLine = lines + 1
)

type Config struct {
	Foreground [3]uint8
	Background [3]uint8
	Hold       int
}

// DefaultKeys maps keystrokes to keypad keys, on the same layout as the
// windowed frontend.
var DefaultKeys = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// DefaultHotkeys maps keystrokes to hotkeys. A lone escape key also quits.
var DefaultHotkeys = map[byte]input.Hotkey{
	0x03: input.Quit, // ctrl-c
	'p':  input.Pause,
	0x7f: input.Reset, // backspace
	'g':  input.Resume,
	'i':  input.SpeedUp,
	'u':  input.SlowDown,
	'o':  input.ToggleInfos,
	'k':  input.Snapshot,
}

// Terminal implements emu.Output.
type Terminal struct {
	out io.Writer
	cfg Config

	fd  int
	old *term.State

	keystrokes chan []byte
	held       [hw.NumKeys]int

	buf bytes.Buffer
}

// New puts the terminal attached to stdin in raw mode and clears it.
func New(cfg Config) (*Terminal, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	if w, h, err := term.GetSize(fd); err == nil && (w < hw.ScreenWidth || h < statusLine) {
		log.ModVideo.WarnZ("Terminal too small").
			Int("width", w).
			Int("height", h).
			End()
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "raw mode")
	}

	t := newTerminal(os.Stdin, os.Stdout, cfg)
	t.fd = fd
	t.old = old
	fmt.Fprint(t.out, "\x1b[2J\x1b[?25l")
	return t, nil
}

func newTerminal(in io.Reader, out io.Writer, cfg Config) *Terminal {
	if cfg.Hold <= 0 {
		cfg.Hold = DefaultHold
	}
	t := &Terminal{
		out:        out,
		cfg:        cfg,
		fd:         -1,
		keystrokes: make(chan []byte, 16),
	}
	go read(in, t.keystrokes)
	return t
}

// read forwards the raw input to the emulation goroutine, it returns on the
// first read error.
func read(in io.Reader, keystrokes chan<- []byte) {
	defer close(keystrokes)

	buf := make([]byte, 64)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			keystrokes <- bytes.Clone(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				log.ModInput.WarnZ("Terminal input").Error("err", err).End()
			}
			return
		}
	}
}

func (t *Terminal) Poll(ev *input.Events) bool {
	for k := range t.held {
		if t.held[k] > 0 {
			t.held[k]--
		}
	}

loop:
	for {
		select {
		case p, ok := <-t.keystrokes:
			if !ok {
				t.keystrokes = nil
				break loop
			}
			t.feed(p, ev)
		default:
			break loop
		}
	}

	ev.Keypad = 0
	for k, n := range t.held {
		if n > 0 {
			ev.Keypad |= 1 << k
		}
	}
	return true
}

func (t *Terminal) feed(p []byte, ev *input.Events) {
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == 0x1b {
			if i == len(p)-1 {
				ev.Push(input.Quit)
				continue
			}
			i = skipEscape(p, i)
			continue
		}
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if k, ok := DefaultKeys[c]; ok {
			t.held[k] = t.cfg.Hold
			continue
		}
		ev.Push(DefaultHotkeys[c])
	}
}

// skipEscape returns the index of the last byte of the escape sequence
// starting at p[i].
func skipEscape(p []byte, i int) int {
	if p[i+1] != '[' && p[i+1] != 'O' {
		// alt+key
		return i
	}
	j := i + 2
	for j < len(p) && (p[j] < 0x40 || p[j] > 0x7e) {
		j++
	}
	return j
}

func (t *Terminal) Render(d *hw.Display) {
	t.buf.Reset()
	t.colors()
	frame(&t.buf, d)
	t.buf.WriteString("\x1b[0m")
	t.out.Write(t.buf.Bytes())
}

func (t *Terminal) colors() {
	fg, bg := t.cfg.Foreground, t.cfg.Background
	fmt.Fprintf(&t.buf, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm", fg[0], fg[1], fg[2], bg[0], bg[1], bg[2])
}

var blocks = [4]string{" ", "▀", "▄", "█"}

// frame writes the display from the top-left corner of the terminal.
func frame(w *bytes.Buffer, d *hw.Display) {
	w.WriteString("\x1b[H")
	for y := 0; y < hw.ScreenHeight; y += 2 {
		for x := range hw.ScreenWidth {
			w.WriteString(blocks[d.At(x, y)|d.At(x, y+1)<<1])
		}
		w.WriteString("\r\n")
	}
}

// SetTitle shows the title on the line below the display.
func (t *Terminal) SetTitle(title string) {
	fmt.Fprintf(t.out, "\x1b[%d;1H%s\x1b[K", statusLine, title)
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	fmt.Fprintf(t.out, "\x1b[0m\x1b[?25h\x1b[%d;1H\r\n", statusLine+1)
	if t.old == nil {
		return nil
	}
	return term.Restore(t.fd, t.old)
}
