// Package screen is the windowed frontend: it renders the CHIP-8 display in
// an OpenGL window and reads the keyboard with SDL.
package screen

import (
	"github.com/veandco/go-sdl2/sdl"

	"chip8/emu/log"
	"chip8/hw"
	"chip8/hw/input"
)

type Config struct {
	Scale        int
	Shader       string
	Foreground   [3]float32
	Background   [3]float32
	DisableVSync bool
	Monitor      int32

	Keys    input.Config
	Hotkeys map[sdl.Scancode]input.Hotkey
}

// Screen implements emu.Output.
type Screen struct {
	win  *window
	keys *input.Provider
	cfg  Config

	pix [hw.ScreenWidth * hw.ScreenHeight]byte
}

// New shows the emulator window. sdl.Main must be running.
func New(title string, cfg Config) (*Screen, error) {
	if cfg.Hotkeys == nil {
		cfg.Hotkeys = input.DefaultHotkeys
	}
	win, err := newWindow(title, hw.ScreenWidth, hw.ScreenHeight, cfg)
	if err != nil {
		return nil, err
	}

	s := &Screen{
		win:  win,
		keys: input.NewProvider(cfg.Keys),
		cfg:  cfg,
	}
	sdl.Do(s.redraw)
	return s, nil
}

// Poll processes pending SDL events. Hotkeys fire on key release, like keypad
// keys they're ignored while auto-repeating.
func (s *Screen) Poll(ev *input.Events) bool {
	quit := false
	sdl.Do(func() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case sdl.QuitEvent:
				quit = true

			case sdl.WindowEvent:
				switch e.Event {
				case sdl.WINDOWEVENT_EXPOSED, sdl.WINDOWEVENT_RESTORED,
					sdl.WINDOWEVENT_SIZE_CHANGED, sdl.WINDOWEVENT_MOVED:
					s.redraw()
				}

			case sdl.KeyboardEvent:
				if e.Type != sdl.KEYUP || e.Repeat != 0 {
					break
				}
				if hk, ok := s.cfg.Hotkeys[e.Keysym.Scancode]; ok {
					ev.Push(hk)
				}
			}
		}
		ev.Keypad = s.keys.LoadState()
	})
	return !quit
}

func (s *Screen) Render(d *hw.Display) {
	copy(s.pix[:], d[:])
	sdl.Do(s.redraw)
}

func (s *Screen) redraw() {
	s.win.upload(s.pix[:], hw.ScreenWidth, hw.ScreenHeight)
	s.win.draw(s.cfg.Background, hw.ScreenWidth, hw.ScreenHeight)
}

func (s *Screen) SetTitle(title string) {
	sdl.Do(func() { s.win.SetTitle(title) })
}

func (s *Screen) Close() error {
	log.ModVideo.DebugZ("closing window").End()
	return s.win.Close()
}
