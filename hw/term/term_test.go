package term

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chip8/hw"
	"chip8/hw/input"
)

func TestFrame(t *testing.T) {
	var d hw.Display
	set := func(x, y int) { d[y*hw.ScreenWidth+x] = 1 }
	set(0, 0)
	set(1, 1)
	set(2, 0)
	set(2, 1)
	set(63, 31)

	var buf bytes.Buffer
	frame(&buf, &d)

	out := strings.TrimPrefix(buf.String(), "\x1b[H")
	rows := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	if len(rows) != hw.ScreenHeight/2 {
		t.Fatalf("got %d rows, want %d", len(rows), hw.ScreenHeight/2)
	}
	if !strings.HasPrefix(rows[0], "▀▄█ ") {
		t.Errorf("row 0 = %q", rows[0])
	}
	if !strings.HasSuffix(rows[15], " ▄") {
		t.Errorf("row 15 = %q", rows[15])
	}
	for i, row := range rows {
		if n := len([]rune(row)); n != hw.ScreenWidth {
			t.Errorf("row %d has %d columns, want %d", i, n, hw.ScreenWidth)
		}
	}
}

func newTestTerminal(hold int) (*Terminal, *bytes.Buffer) {
	out := &bytes.Buffer{}
	// blocks forever, only feed is exercised
	pr, _ := io.Pipe()
	return newTerminal(pr, out, Config{Hold: hold}), out
}

func TestFeedKeys(t *testing.T) {
	tm, _ := newTestTerminal(2)

	var ev input.Events
	tm.feed([]byte("1Q\x1b[Av"), &ev)
	tm.Poll(&ev)

	want := uint16(1<<0x1 | 1<<0x4 | 1<<0xF)
	if ev.Keypad != want {
		t.Errorf("keypad = %016b, want %016b", ev.Keypad, want)
	}
	if len(ev.Hotkeys) != 0 {
		t.Errorf("hotkeys = %v, want none", ev.Hotkeys)
	}

	// Keys are released after hold frames.
	tm.Poll(&ev)
	if ev.Keypad != 0 {
		t.Errorf("keypad = %016b after hold, want 0", ev.Keypad)
	}
}

func TestFeedHotkeys(t *testing.T) {
	tm, _ := newTestTerminal(1)

	var ev input.Events
	tm.feed([]byte("p\x7fi!"), &ev)
	want := []input.Hotkey{input.Pause, input.Reset, input.SpeedUp}
	if diff := cmp.Diff(want, ev.Hotkeys); diff != "" {
		t.Errorf("hotkeys mismatch (-want +got):\n%s", diff)
	}

	ev.Clear()
	tm.feed([]byte("\x1b"), &ev)
	if !cmp.Equal(ev.Hotkeys, []input.Hotkey{input.Quit}) {
		t.Errorf("lone escape: hotkeys = %v, want [Quit]", ev.Hotkeys)
	}
}

func TestFeedAltKey(t *testing.T) {
	tm, _ := newTestTerminal(2)

	var ev input.Events
	tm.feed([]byte("\x1bw"), &ev)
	tm.Poll(&ev)
	if ev.Keypad != 1<<0x5 {
		t.Errorf("keypad = %016b, want key 5", ev.Keypad)
	}
}

func TestPollReadsInput(t *testing.T) {
	out := &bytes.Buffer{}
	tm := newTerminal(strings.NewReader("x"), out, Config{})

	// wait for the reader goroutine to forward the input and close.
	var ev input.Events
	for tm.keystrokes != nil {
		tm.Poll(&ev)
		if ev.Keypad != 0 {
			break
		}
	}
	if ev.Keypad != 1<<0x0 {
		t.Errorf("keypad = %016b, want key 0", ev.Keypad)
	}
}

func TestSetTitleClose(t *testing.T) {
	tm, out := newTestTerminal(1)
	tm.SetTitle("chip8 - pong")
	if !strings.Contains(out.String(), "\x1b[17;1Hchip8 - pong\x1b[K") {
		t.Errorf("status line = %q", out.String())
	}
	if err := tm.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "\x1b[?25h") {
		t.Errorf("cursor not shown on close: %q", out.String())
	}
}
