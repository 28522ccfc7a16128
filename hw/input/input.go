package input

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"chip8/hw"
	"chip8/hw/hwio"
)

// Config maps each of the 16 keypad keys (0x0-0xF) to a keyboard key.
type Config struct {
	Keys [hw.NumKeys]Code `toml:"keys"`
}

// DefaultConfig returns the usual layout, the left side of a QWERTY keyboard
// mapped onto the 4x4 COSMAC VIP keypad:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  <-  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
func DefaultConfig() Config {
	return Config{
		Keys: [hw.NumKeys]Code{
			0x0: {sdl.SCANCODE_X},
			0x1: {sdl.SCANCODE_1},
			0x2: {sdl.SCANCODE_2},
			0x3: {sdl.SCANCODE_3},
			0x4: {sdl.SCANCODE_Q},
			0x5: {sdl.SCANCODE_W},
			0x6: {sdl.SCANCODE_E},
			0x7: {sdl.SCANCODE_A},
			0x8: {sdl.SCANCODE_S},
			0x9: {sdl.SCANCODE_D},
			0xA: {sdl.SCANCODE_Z},
			0xB: {sdl.SCANCODE_C},
			0xC: {sdl.SCANCODE_4},
			0xD: {sdl.SCANCODE_R},
			0xE: {sdl.SCANCODE_F},
			0xF: {sdl.SCANCODE_V},
		},
	}
}

// Check reports an error if a keyboard key is bound to more than one keypad
// key.
func (cfg *Config) Check() error {
	seen := make(map[sdl.Scancode]int, hw.NumKeys)
	for k, code := range cfg.Keys {
		if !code.IsSet() {
			continue
		}
		if prev, ok := seen[code.Scancode]; ok {
			return fmt.Errorf("key %q bound to both keypad %X and %X", code.Name(), prev, k)
		}
		seen[code.Scancode] = k
	}
	return nil
}

// Lookup returns the keypad key bound to the given scancode.
func (cfg *Config) Lookup(sc sdl.Scancode) (uint8, bool) {
	for k, code := range cfg.Keys {
		if code.IsSet() && code.Scancode == sc {
			return uint8(k), true
		}
	}
	return 0, false
}

// State converts a keyboard state, as returned by sdl.GetKeyboardState, into
// a keypad bitmap, bit k set iff keypad key k is held.
func (cfg *Config) State(keystate []uint8) uint16 {
	var state uint16
	for k, code := range cfg.Keys {
		if !code.IsSet() || int(code.Scancode) >= len(keystate) {
			continue
		}
		if keystate[code.Scancode] != 0 {
			hwio.SetBit(&state, uint(k))
		}
	}
	return state
}

type Provider struct {
	keystate []uint8

	cfg Config
}

func NewProvider(cfg Config) *Provider {
	var keystate []uint8
	sdl.Do(func() { keystate = sdl.GetKeyboardState() })
	return &Provider{keystate: keystate, cfg: cfg}
}

// LoadState returns the current keypad bitmap. The keyboard state is
// refreshed by SDL while polling events.
func (ui *Provider) LoadState() uint16 {
	return ui.cfg.State(ui.keystate)
}
