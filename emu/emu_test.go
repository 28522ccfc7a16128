package emu

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-faster/errors"

	"chip8/hw"
	"chip8/hw/input"
)

func TestCyclesPerFrame(t *testing.T) {
	cfg := testConfig(t)
	cfg.Emulation.Clock = 1000
	e, _ := launch(t, cfg, newTestingOutput(0), 0x1200) // JP 0x200

	if err := e.RunOneFrame(); err != nil {
		t.Fatal(err)
	}
	if e.CPU.Cycles != 16 {
		t.Errorf("first frame ran %d cycles, want 16", e.CPU.Cycles)
	}

	for range FrameRate - 1 {
		if err := e.RunOneFrame(); err != nil {
			t.Fatal(err)
		}
	}
	if e.CPU.Cycles != 1000 {
		t.Errorf("1s at 1000Hz ran %d cycles, want 1000", e.CPU.Cycles)
	}
}

func TestTimersTickOncePerFrame(t *testing.T) {
	cfg := testConfig(t)
	cfg.Emulation.Clock = 6000
	e, snd := launch(t, cfg, newTestingOutput(0),
		0x6A30, // 200: LD VA, 0x30
		0xFA15, // 202: LD DT, VA
		0xFA18, // 204: LD ST, VA
		0x1206, // 206: JP 0x206
	)

	e.RunOneFrame()
	if e.CPU.DT != 0x2F || e.CPU.ST != 0x2F {
		t.Fatalf("after 1 frame, DT=0x%02X ST=0x%02X, want 0x2F", e.CPU.DT, e.CPU.ST)
	}
	e.RunOneFrame()
	if e.CPU.DT != 0x2E || e.CPU.ST != 0x2E {
		t.Fatalf("after 2 frames, DT=0x%02X ST=0x%02X, want 0x2E", e.CPU.DT, e.CPU.ST)
	}

	for range 0x30 {
		e.RunOneFrame()
	}
	if e.CPU.DT != 0 || e.CPU.ST != 0 {
		t.Fatalf("timers should have reached 0, DT=0x%02X ST=0x%02X", e.CPU.DT, e.CPU.ST)
	}

	// The beeper sounds during the first 47 frames.
	for i, on := range snd.frames {
		if want := i < 0x2F; on != want {
			t.Errorf("frame %d: beeper on = %t, want %t", i, on, want)
		}
	}
}

func TestPausedFrame(t *testing.T) {
	e, snd := launch(t, testConfig(t), newTestingOutput(0),
		0x6A30, // 200: LD VA, 0x30
		0xFA18, // 202: LD ST, VA
		0x1204, // 204: JP 0x204
	)

	e.RunOneFrame()
	st, cycles := e.CPU.ST, e.CPU.Cycles

	e.SetPause(true)
	e.RunOneFrame()
	if e.CPU.ST != st || e.CPU.Cycles != cycles {
		t.Errorf("paused frame changed state: ST 0x%02X -> 0x%02X, cycles %d -> %d", st, e.CPU.ST, cycles, e.CPU.Cycles)
	}
	if snd.frames[len(snd.frames)-1] {
		t.Errorf("beeper should be silent while paused")
	}
}

func TestKeyWait(t *testing.T) {
	e, _ := launch(t, testConfig(t), newTestingOutput(0),
		0xF00A, // 200: LD V0, K
		0x1202, // 202: JP 0x202
	)

	// A key held before the instruction doesn't count.
	e.ev.Keypad = 1 << 0x3
	e.handleEvents()

	e.RunOneFrame()
	e.RunOneFrame()
	if e.CPU.State() != hw.WaitingForKey || e.CPU.PC != 0x200 {
		t.Fatalf("state=%s PC=0x%03X, want %s at 0x200", e.CPU.State(), e.CPU.PC, hw.WaitingForKey)
	}

	e.ev.Keypad |= 1 << 0xB
	e.handleEvents()
	e.RunOneFrame()

	if e.CPU.V[0] != 0xB {
		t.Errorf("V0 = 0x%02X, want 0x0B", e.CPU.V[0])
	}
	if e.CPU.State() != hw.Running || e.CPU.PC != 0x202 {
		t.Errorf("state=%s PC=0x%03X, want %s at 0x202", e.CPU.State(), e.CPU.PC, hw.Running)
	}

	e.ev.Keypad = 0
	e.handleEvents()
	if e.CPU.Keypad != 0 {
		t.Errorf("keypad = %016b after release, want 0", e.CPU.Keypad)
	}
}

func TestBreakpoint(t *testing.T) {
	cfg := testConfig(t)
	cfg.Emulation.Breakpoints = []uint16{0x202}
	var dump bytes.Buffer
	cfg.DumpOut = &dump

	out := newTestingOutput(0)
	e, _ := launch(t, cfg, out,
		0x6001, // 200: LD V0, 1
		0x6102, // 202: LD V1, 2
		0x6203, // 204: LD V2, 3
		0x1206, // 206: JP 0x206
	)

	e.RunOneFrame()
	e.updateTitle()

	if !e.CPU.IsHalted() || e.CPU.HaltReason() != hw.StatusBreakpoint {
		t.Fatalf("CPU should be halted on breakpoint, state=%s halt=%s", e.CPU.State(), e.CPU.HaltReason())
	}
	if !e.isPaused() {
		t.Errorf("emulator should be paused")
	}
	if e.CPU.V[1] != 2 || e.CPU.V[2] != 0 {
		t.Errorf("V1=%d V2=%d, want 2 and 0", e.CPU.V[1], e.CPU.V[2])
	}
	if !strings.Contains(dump.String(), "Breakpoint reached at 0x202") {
		t.Errorf("missing breakpoint report:\n%s", dump.String())
	}
	if !strings.HasSuffix(out.Title(), "[breakpoint]") {
		t.Errorf("title = %q", out.Title())
	}

	snaps, err := filepath.Glob(filepath.Join(cfg.Emulation.SnapshotDir, "*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || filepath.Base(snaps[0]) != "test-204-2.json" {
		t.Errorf("snapshots = %q, want [test-204-2.json]", snaps)
	}

	// Paused frames don't execute anything.
	e.RunOneFrame()
	if e.CPU.V[2] != 0 {
		t.Fatalf("CPU ran while halted")
	}

	e.Resume()
	e.RunOneFrame()
	if e.CPU.IsHalted() || e.isPaused() {
		t.Fatalf("emulator should run after resume")
	}
	if e.CPU.V[2] != 3 || e.CPU.PC != 0x206 {
		t.Errorf("V2=%d PC=0x%03X, want 3 at 0x206", e.CPU.V[2], e.CPU.PC)
	}
}

func TestFaultStopsRun(t *testing.T) {
	out := newTestingOutput(100)
	e, snd := launch(t, testConfig(t), out, 0x6001, 0xFFFF)

	err := e.Run(context.Background())

	var fault *hw.Fault
	if !errors.As(err, &fault) {
		t.Fatalf("Run() = %v, want a *hw.Fault", err)
	}
	if fault.Kind != hw.StatusUnknownOpcode || fault.PC != 0x204 || fault.PrevPC != 0x202 || fault.Opcode != 0xFFFF {
		t.Errorf("fault = %+v", *fault)
	}
	if !out.closed || !snd.closed {
		t.Errorf("output and sound should be closed")
	}
	if out.polls != 1 {
		t.Errorf("polled %d times, want 1", out.polls)
	}
}

func TestRunQuit(t *testing.T) {
	out := newTestingOutput(100)
	out.At(3, func(ev *input.Events) { ev.Push(input.Quit) })
	e, snd := launch(t, testConfig(t), out, 0x1200)

	if err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if out.polls != 4 {
		t.Errorf("polled %d times, want 4", out.polls)
	}
	if len(snd.frames) != 3 || e.frames != 3 {
		t.Errorf("ran %d frames (%d sound frames), want 3", e.frames, len(snd.frames))
	}
	if !out.closed || !snd.closed {
		t.Errorf("output and sound should be closed")
	}
	if want := "chip8 - test - 1080 Hz"; out.Title() != want {
		t.Errorf("title = %q, want %q", out.Title(), want)
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := newTestingOutput(1 << 30)
	e, _ := launch(t, testConfig(t), out, 0x1200)
	if err := e.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if out.polls != 1 {
		t.Errorf("polled %d times, want 1", out.polls)
	}
}

func TestConcurrentRequests(t *testing.T) {
	out := newTestingOutput(1 << 30)
	e, _ := launch(t, testConfig(t), out, 0x6007, 0x1202)

	errc := make(chan error, 1)
	go func() { errc <- e.Run(context.Background()) }()

	snap, err := e.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Version == 0 || len(snap.Mem) != hw.MemSize {
		t.Errorf("invalid snapshot: version %d, %d bytes of memory", snap.Version, len(snap.Mem))
	}

	if got := e.SetClock(600); got != 600 {
		t.Errorf("SetClock(600) = %d", got)
	}
	info := e.Info()
	if info.Rom != "test" || info.Clock != 600 || info.State != "Running" {
		t.Errorf("Info() = %+v", info)
	}

	e.Stop()
	if err := <-errc; err != nil {
		t.Fatal(err)
	}

	if _, err := e.Snapshot(); !errors.Is(err, ErrStopped) {
		t.Errorf("Snapshot() after stop = %v, want ErrStopped", err)
	}
	if info := e.Info(); info.State != "Stopped" {
		t.Errorf("Info().State after stop = %q", info.State)
	}
}

func TestHotkeys(t *testing.T) {
	out := newTestingOutput(0)
	e, _ := launch(t, testConfig(t), out, 0x1200)

	push := func(hks ...input.Hotkey) {
		for _, hk := range hks {
			e.ev.Push(hk)
		}
		e.handleEvents()
	}

	push(input.SpeedUp, input.SpeedUp)
	if e.Clock() != DefaultClock+2*ClockStep {
		t.Errorf("clock = %d, want %d", e.Clock(), DefaultClock+2*ClockStep)
	}
	for range 50 {
		push(input.SlowDown)
	}
	if e.Clock() != MinClock {
		t.Errorf("clock = %d, want %d", e.Clock(), MinClock)
	}

	push(input.Pause)
	e.updateTitle()
	if !e.isPaused() || out.Title() != "chip8 - test - 60 Hz [paused]" {
		t.Errorf("paused=%t title=%q", e.isPaused(), out.Title())
	}
	push(input.Pause)
	if e.isPaused() {
		t.Errorf("second pause should unpause")
	}

	push(input.ToggleInfos)
	e.updateTitle()
	if out.Title() != "chip8 - test" {
		t.Errorf("title = %q, want %q", out.Title(), "chip8 - test")
	}

	push(input.Snapshot)
	snaps, _ := filepath.Glob(filepath.Join(e.cfg.SnapshotDir, "*.json"))
	if len(snaps) != 1 {
		t.Errorf("got %d snapshots, want 1", len(snaps))
	}

	push(input.Quit)
	if !e.shouldStop() {
		t.Errorf("quit hotkey should stop the emulator")
	}
}

func TestRedraw(t *testing.T) {
	out := newTestingOutput(0)
	e, _ := launch(t, testConfig(t), out,
		0x6000, // 200: LD V0, 0
		0xF029, // 202: LD F, V0
		0xD005, // 204: DRW V0, V0, 5
		0x1206, // 206: JP 0x206
	)

	e.RunOneFrame()
	e.RunOneFrame()
	if out.renders != 1 {
		t.Errorf("rendered %d times, want 1", out.renders)
	}

	rows := strings.Split(out.Screen(), "\n")
	want := []string{"####", "#..#", "#..#", "#..#", "####", "...."}
	for y, w := range want {
		if !strings.HasPrefix(rows[y], w+"....") {
			t.Errorf("row %d = %q, want prefix %q", y, rows[y][:8], w+"....")
		}
	}
}

func TestReset(t *testing.T) {
	out := newTestingOutput(0)
	e, _ := launch(t, testConfig(t), out, 0x6007, 0x1202)

	for range 10 {
		e.RunOneFrame()
	}
	e.SetPause(true)
	renders := out.renders

	e.Reset()
	e.RunOneFrame()
	if e.CPU.Cycles != DefaultClock/FrameRate {
		t.Errorf("after reset, cycles = %d, want %d", e.CPU.Cycles, DefaultClock/FrameRate)
	}
	if e.isPaused() {
		t.Errorf("reset should unpause")
	}
	if out.renders != renders+1 {
		t.Errorf("reset should redraw")
	}
}

func TestRestoreSnapshot(t *testing.T) {
	cfg := testConfig(t)
	e1, _ := launch(t, cfg, newTestingOutput(0), 0x6005, 0x1202)
	e1.RunOneFrame()
	path, err := e1.saveSnapshot()
	if err != nil {
		t.Fatal(err)
	}

	cfg.Emulation.Restore = path
	e2, _ := launch(t, cfg, newTestingOutput(0), 0x1200)
	if e2.CPU.V[0] != 5 || e2.CPU.PC != 0x202 || e2.CPU.Cycles != e1.CPU.Cycles {
		t.Errorf("restored V0=%d PC=0x%03X cycles=%d", e2.CPU.V[0], e2.CPU.PC, e2.CPU.Cycles)
	}
	if !bytes.Equal(e2.CPU.Program(), e1.CPU.Program()) {
		t.Errorf("restored program differs")
	}

	cfg.Emulation.Restore = filepath.Join(t.TempDir(), "missing.json")
	if _, err := Launch(e1.rom, cfg, newTestingOutput(0)); err == nil {
		t.Errorf("Launch should fail with a missing snapshot")
	}
}

func BenchmarkRunOneFrame(b *testing.B) {
	cfg := testConfig(b)
	cfg.Emulation.Clock = 60 * 1000
	e, _ := launch(b, cfg, newTestingOutput(0),
		0x6000, // 200: LD V0, 0
		0xF029, // 202: LD F, V0
		0xD005, // 204: DRW V0, V0, 5
		0x7001, // 206: ADD V0, 1
		0x1202, // 208: JP 0x202
	)
	b.ReportAllocs()

	for b.Loop() {
		e.RunOneFrame()
	}
}
