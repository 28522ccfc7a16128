package input

import "github.com/veandco/go-sdl2/sdl"

// A Hotkey is an emulator command triggered from the keyboard, as opposed to
// keypad keys which are forwarded to the virtual machine.
type Hotkey uint8

const (
	NoHotkey Hotkey = iota
	Quit
	Pause
	Reset
	Resume
	SpeedUp
	SlowDown
	ToggleInfos
	Snapshot

	hotkeyCount
)

func (hk Hotkey) String() string {
	var names = [hotkeyCount]string{
		"none", "quit", "pause", "reset", "resume",
		"speed-up", "slow-down", "toggle-infos", "snapshot",
	}
	if hk >= hotkeyCount {
		return names[NoHotkey]
	}
	return names[hk]
}

// DefaultHotkeys maps keyboard keys to hotkeys. None of them collide with the
// default keypad layout.
var DefaultHotkeys = map[sdl.Scancode]Hotkey{
	sdl.SCANCODE_ESCAPE:    Quit,
	sdl.SCANCODE_P:         Pause,
	sdl.SCANCODE_BACKSPACE: Reset,
	sdl.SCANCODE_F5:        Resume,
	sdl.SCANCODE_I:         SpeedUp,
	sdl.SCANCODE_U:         SlowDown,
	sdl.SCANCODE_O:         ToggleInfos,
	sdl.SCANCODE_F12:       Snapshot,
}

// Events is filled by frontends at each poll.
type Events struct {
	Keypad  uint16   // Keypad is the keypad bitmap, bit k set iff key k is held.
	Hotkeys []Hotkey // Hotkeys holds the hotkeys released since last poll, in order.
}

func (ev *Events) Push(hk Hotkey) {
	if hk != NoHotkey {
		ev.Hotkeys = append(ev.Hotkeys, hk)
	}
}

// Clear prepares ev for the next poll. The keypad state is kept, frontends
// update it from key events.
func (ev *Events) Clear() {
	ev.Hotkeys = ev.Hotkeys[:0]
}
