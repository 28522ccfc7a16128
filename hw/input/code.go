package input

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// A Code describes a keyboard key bound to a keypad key.
type Code struct {
	Scancode sdl.Scancode
}

// Name returns an user-friendly name for the input code.
func (mc Code) Name() string {
	if mc.Scancode == sdl.SCANCODE_UNKNOWN {
		return ""
	}
	return sdl.GetScancodeName(mc.Scancode)
}

func (mc Code) IsSet() bool {
	return mc.Scancode != sdl.SCANCODE_UNKNOWN
}

func (mc Code) MarshalText() ([]byte, error) {
	if !mc.IsSet() {
		return nil, nil
	}
	return []byte("key " + mc.Name()), nil
}

func (mc *Code) UnmarshalText(text []byte) error {
	s := string(text)

	switch {
	case s == "":
		mc.Scancode = sdl.SCANCODE_UNKNOWN

	case strings.HasPrefix(s, "key"):
		// Scancode names may contain spaces ("Left Shift", "Keypad 1").
		str := strings.TrimSpace(strings.TrimPrefix(s, "key"))
		if str == "" {
			return fmt.Errorf("malformed key code: %s", s)
		}

		mc.Scancode = sdl.GetScancodeFromName(str)
		if mc.Scancode == sdl.SCANCODE_UNKNOWN {
			return fmt.Errorf("unrecognized scancode %q", s)
		}

	default:
		return fmt.Errorf("unrecognized input code: %s", s)
	}

	return nil
}
