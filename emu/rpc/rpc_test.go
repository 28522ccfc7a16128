package rpc

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chip8/emu/log"
	"chip8/hw/snapshot"
)

type fakeEmu struct {
	mu     sync.Mutex
	calls  []string
	clock  int
	paused bool
}

func (e *fakeEmu) record(call string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call)
}

func (e *fakeEmu) Reset()  { e.record("reset") }
func (e *fakeEmu) Resume() { e.record("resume") }
func (e *fakeEmu) Stop()   { e.record("stop") }

func (e *fakeEmu) SetPause(pause bool) {
	e.record("pause")
	e.mu.Lock()
	e.paused = pause
	e.mu.Unlock()
}

func (e *fakeEmu) SetClock(hz int) int {
	e.record("clock")
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = max(hz, 60)
	return e.clock
}

func (e *fakeEmu) Info() Info {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Info{Rom: "pong", Clock: e.clock, Paused: e.paused, State: "Running", PC: 0x202, Cycles: 1}
}

func (e *fakeEmu) Snapshot() (*snapshot.CPU, error) {
	return &snapshot.CPU{Version: snapshot.Version, PC: 0x204, V: [16]uint8{0: 1, 0xF: 1}}, nil
}

func TestClientServer(t *testing.T) {
	log.Disable()

	emu := &fakeEmu{clock: 1080}
	srv, err := NewServer(0, emu)
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	client, err := NewClient(srv.Port)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if err := client.SetPause(true); err != nil {
		t.Fatal(err)
	}
	if err := client.Reset(); err != nil {
		t.Fatal(err)
	}
	if err := client.Resume(); err != nil {
		t.Fatal(err)
	}
	hz, err := client.SetClock(10)
	if err != nil {
		t.Fatal(err)
	}
	if hz != 60 {
		t.Errorf("SetClock(10) = %d, want 60", hz)
	}

	info, err := client.Info()
	if err != nil {
		t.Fatal(err)
	}
	want := Info{Rom: "pong", Clock: 60, Paused: true, State: "Running", PC: 0x202, Cycles: 1}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("Info() mismatch (-want +got):\n%s", diff)
	}

	snap, err := client.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.PC != 0x204 || snap.V[0xF] != 1 {
		t.Errorf("Snapshot() = PC 0x%03X VF %d, want PC 0x204 VF 1", snap.PC, snap.V[0xF])
	}

	if err := client.Stop(); err != nil {
		t.Fatal(err)
	}

	wantCalls := []string{"pause", "reset", "resume", "clock", "stop"}
	if diff := cmp.Diff(wantCalls, emu.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestUnusedPort(t *testing.T) {
	if port := UnusedPort(); port <= 0 {
		t.Fatalf("UnusedPort() = %d", port)
	}
}
