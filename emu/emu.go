package emu

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"

	"chip8/emu/debugger"
	"chip8/emu/log"
	"chip8/emu/rpc"
	"chip8/hw"
	"chip8/hw/audio"
	"chip8/hw/input"
	"chip8/hw/snapshot"
	"chip8/rom"
)

// FrameRate is the rate of the emulation loop, also the timers frequency.
const FrameRate = 60

// Output is implemented by the frontends showing the display and reading
// the keyboard.
type Output interface {
	// Poll processes pending input events into ev. It returns false once the
	// user asked to quit.
	Poll(ev *input.Events) bool
	Render(d *hw.Display)
	SetTitle(title string)
	Close() error
}

// Sound is the beeper, fed once per frame.
type Sound interface {
	Frame(on bool)
	Close() error
}

type nopSound struct{}

func (nopSound) Frame(bool)   {}
func (nopSound) Close() error { return nil }

var ErrStopped = errors.New("emulator stopped")

type Emulator struct {
	CPU      *hw.CPU
	Debugger *debugger.Debugger

	rom *rom.Rom
	out Output
	snd Sound
	cfg EmulationConfig

	// These are accessed concurrently by the emulator loop and the rpc server.
	quit   atomic.Bool
	paused atomic.Bool
	reset  atomic.Bool
	resume atomic.Bool
	clock  atomic.Int64

	// Requests to execute in the emulator loop.
	reqs chan func()
	done chan struct{}

	ev        input.Events
	prevKeys  uint16
	frac      int // cycles carried from previous frame, times FrameRate
	redraw    bool
	showInfos bool
	title     string
	frames    int64
}

// Launch powers up the CPU, loads the program and setups breakpoints, tracing
// and the audio stream. It doesn't start the emulation loop, call Run() for
// that.
func Launch(rom *rom.Rom, cfg Config, out Output) (*Emulator, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	cpu := hw.NewCPU()
	if err := cpu.Load(rom.Data); err != nil {
		return nil, errors.Wrap(err, "load program")
	}
	if cfg.Emulation.Seed != 0 {
		cpu.Seed(cfg.Emulation.Seed)
	}
	for _, addr := range cfg.Emulation.Breakpoints {
		cpu.SetBreakpoint(addr)
		log.ModEmu.InfoZ("Breakpoint set").Hex16("addr", addr).End()
	}

	// CPU execution trace setup.
	if cfg.TraceOut != nil {
		cpu.SetTraceOutput(cfg.TraceOut)
	}

	dumpOut := cfg.DumpOut
	if dumpOut == nil {
		dumpOut = os.Stdout
	}

	e := &Emulator{
		CPU:       cpu,
		Debugger:  debugger.New(cpu, dumpOut),
		rom:       rom,
		out:       out,
		snd:       nopSound{},
		cfg:       cfg.Emulation,
		reqs:      make(chan func()),
		done:      make(chan struct{}),
		redraw:    true,
		showInfos: true,
	}
	e.clock.Store(int64(cfg.Emulation.Clock))

	if cfg.Emulation.Restore != "" {
		if err := e.restore(cfg.Emulation.Restore); err != nil {
			return nil, err
		}
	}

	if err := e.setupAudio(cfg.Audio); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Emulator) setupAudio(cfg AudioConfig) error {
	var sinks []audio.Sink
	if cfg.DisableAudio {
		log.ModEmu.WarnZ("Audio disabled").End()
	} else {
		dev, err := audio.OpenDevice(cfg.Config)
		if err != nil {
			return err
		}
		sinks = append(sinks, dev)
		log.ModEmu.InfoZ("Audio enabled").End()
	}

	if cfg.Record != "" {
		rec, err := audio.NewRecorder(cfg.Record, cfg.SampleRate)
		if err != nil {
			return err
		}
		sinks = append(sinks, rec)
	}

	if len(sinks) > 0 {
		e.snd = audio.NewBeeper(cfg.Config, sinks...)
	}
	return nil
}

func (e *Emulator) restore(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "restore")
	}
	defer f.Close()

	snap, err := snapshot.Read(f)
	if err != nil {
		return errors.Wrapf(err, "restore %s", path)
	}
	if err := e.CPU.LoadSnapshot(snap); err != nil {
		return errors.Wrapf(err, "restore %s", path)
	}
	log.ModEmu.InfoZ("Snapshot restored").String("path", path).Hex16("PC", e.CPU.PC).End()
	return nil
}

// Run runs the emulation loop at 60 frames per second, until the user quits,
// ctx is cancelled or an execution fault occurs, in which case the fault is
// returned.
func (e *Emulator) Run(ctx context.Context) error {
	defer close(e.done)
	defer e.close()

	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	e.updateTitle()
	for e.out.Poll(&e.ev) {
		e.handleEvents()
		if e.shouldStop() {
			break
		}
		if err := e.RunOneFrame(); err != nil {
			return err
		}
		e.updateTitle()

		if !e.wait(ctx, ticker.C) {
			break
		}
	}

	log.ModEmu.InfoZ("Emulation loop exited").Int64("frames", e.frames).End()
	return nil
}

// wait serves requests until next tick. It returns false if ctx is done.
func (e *Emulator) wait(ctx context.Context, tick <-chan time.Time) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case req := <-e.reqs:
			req()
		case <-tick:
			return true
		}
	}
}

func (e *Emulator) close() {
	if err := e.snd.Close(); err != nil {
		log.ModEmu.WarnZ("Failed to close audio").Error("err", err).End()
	}
	if err := e.out.Close(); err != nil {
		log.ModEmu.WarnZ("Failed to close output").Error("err", err).End()
	}
}

// RunOneFrame runs the number of cycles corresponding to one frame at the
// current clock speed, ticks the timers, renders the display if needed and
// feeds the beeper.
func (e *Emulator) RunOneFrame() error {
	e.handleReset()
	e.handleResume()

	running := !e.isPaused() && !e.CPU.IsHalted()
	if running {
		switch st := e.CPU.Run(e.cyclesThisFrame()); {
		case st == hw.StatusRedraw:
			e.redraw = true
		case st == hw.StatusBreakpoint:
			e.redraw = true
			e.onBreakpoint()
		case st.IsFault():
			e.Render()
			log.ModEmu.ErrorZ("Execution fault").
				Stringer("kind", st).
				Hex16("PC", e.CPU.PC).
				Hex16("opcode", e.CPU.Opcode()).
				End()
			return e.CPU.Fault()
		}
		e.CPU.TickTimers()
	}

	if e.redraw {
		e.Render()
	}
	e.snd.Frame(running && e.CPU.SoundOn())
	e.frames++
	return nil
}

// cyclesThisFrame returns the number of cycles to run this frame so that, on
// average, the clock speed is honored.
func (e *Emulator) cyclesThisFrame() int {
	e.frac += int(e.clock.Load())
	n := e.frac / FrameRate
	e.frac %= FrameRate
	return n
}

func (e *Emulator) Render() {
	e.out.Render(&e.CPU.Display)
	e.redraw = false
}

func (e *Emulator) onBreakpoint() {
	e.SetPause(true)
	if _, err := e.saveSnapshot(); err != nil {
		log.ModEmu.WarnZ("Failed to save snapshot").Error("err", err).End()
	}
}

// handleEvents forwards keypad changes to the CPU and processes hotkeys.
func (e *Emulator) handleEvents() {
	changed := e.ev.Keypad ^ e.prevKeys
	for k := range uint8(hw.NumKeys) {
		if changed&(1<<k) == 0 {
			continue
		}
		if e.ev.Keypad&(1<<k) != 0 {
			log.ModInput.DebugZ("key down").Hex8("key", k).End()
			e.CPU.KeyDown(k)
		} else {
			log.ModInput.DebugZ("key up").Hex8("key", k).End()
			e.CPU.KeyUp(k)
		}
	}
	e.prevKeys = e.ev.Keypad

	for _, hk := range e.ev.Hotkeys {
		log.ModInput.DebugZ("hotkey").Stringer("hotkey", hk).End()
		switch hk {
		case input.Quit:
			e.Stop()
		case input.Pause:
			e.SetPause(!e.isPaused())
		case input.Reset:
			e.Reset()
		case input.Resume:
			e.Resume()
		case input.SpeedUp:
			e.SetClock(e.Clock() + ClockStep)
		case input.SlowDown:
			e.SetClock(e.Clock() - ClockStep)
		case input.ToggleInfos:
			e.showInfos = !e.showInfos
		case input.Snapshot:
			if path, err := e.saveSnapshot(); err != nil {
				log.ModEmu.WarnZ("Failed to save snapshot").Error("err", err).End()
			} else {
				fmt.Fprintf(os.Stderr, "snapshot saved to %s\n", path)
			}
		}
	}
	e.ev.Clear()
}

func (e *Emulator) updateTitle() {
	title := "chip8 - " + e.rom.Name
	if e.showInfos || e.isPaused() {
		title += fmt.Sprintf(" - %d Hz", e.Clock())
	}
	switch {
	case e.CPU.HaltReason() == hw.StatusBreakpoint:
		title += " [breakpoint]"
	case e.isPaused():
		title += " [paused]"
	}

	if title != e.title {
		e.title = title
		e.out.SetTitle(title)
	}
}

// saveSnapshot writes the CPU state as JSON into the snapshot directory.
func (e *Emulator) saveSnapshot() (string, error) {
	if err := os.MkdirAll(e.cfg.SnapshotDir, 0755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%03X-%d.json", e.rom.Name, e.CPU.PC, e.CPU.Cycles)
	path := filepath.Join(e.cfg.SnapshotDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := snapshot.Write(f, e.CPU.SaveSnapshot()); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	log.ModEmu.InfoZ("Snapshot saved").String("path", path).End()
	return path, nil
}

// exec executes fn in the emulator loop goroutine and waits for it to
// return.
func (e *Emulator) exec(fn func()) error {
	donec := make(chan struct{})
	select {
	case e.reqs <- func() { fn(); close(donec) }:
	case <-e.done:
		return ErrStopped
	}
	<-donec
	return nil
}

// Snapshot returns a copy of the CPU state. It's safe to call from any
// goroutine while the emulation loop runs.
func (e *Emulator) Snapshot() (*snapshot.CPU, error) {
	var snap *snapshot.CPU
	if err := e.exec(func() { snap = e.CPU.SaveSnapshot() }); err != nil {
		return nil, err
	}
	return snap, nil
}

// Info returns a summary of the emulator state. It's safe to call from any
// goroutine while the emulation loop runs.
func (e *Emulator) Info() rpc.Info {
	info := rpc.Info{
		Rom:    e.rom.Name,
		Clock:  e.Clock(),
		Paused: e.isPaused(),
		State:  "Stopped",
	}
	e.exec(func() {
		info.State = e.CPU.State().String()
		info.PC = e.CPU.PC
		info.Cycles = e.CPU.Cycles
		if e.CPU.IsHalted() {
			info.Halt = e.CPU.HaltReason().String()
		}
	})
	return info
}

// SetPause, Stop, Reset, Resume and SetClock allows to control the emulator
// loop in a concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Resume()             { e.resume.Store(true) }
func (e *Emulator) Stop() {
	e.quit.Store(true)
}

// SetClock sets the instruction clock speed, never below MinClock, and
// returns the actual speed.
func (e *Emulator) SetClock(hz int) int {
	hz = max(hz, MinClock)
	e.clock.Store(int64(hz))
	log.ModEmu.InfoZ("Clock speed").Int("hz", hz).End()
	return hz
}

func (e *Emulator) Clock() int {
	return int(e.clock.Load())
}

func (e *Emulator) isPaused() bool {
	return e.paused.Load()
}

func (e *Emulator) shouldStop() bool {
	return e.quit.Load()
}

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing reset").End()
		e.CPU.Reset()
		e.prevKeys = 0
		e.frac = 0
		e.redraw = true
		e.SetPause(false)
	}
}

func (e *Emulator) handleResume() {
	if e.resume.CompareAndSwap(true, false) {
		if e.CPU.Resume() {
			log.ModEmu.InfoZ("Resuming after breakpoint").Hex16("PC", e.CPU.PC).End()
		}
		e.SetPause(false)
	}
}
