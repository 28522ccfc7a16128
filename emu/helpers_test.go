package emu

import (
	"io"
	"testing"

	"chip8/emu/log"
	"chip8/rom"
)

func program(words ...uint16) []byte {
	buf := make([]byte, 0, len(words)*2)
	for _, w := range words {
		buf = append(buf, byte(w>>8), byte(w))
	}
	return buf
}

func testConfig(tb testing.TB) Config {
	cfg := DefaultConfig()
	cfg.Audio.DisableAudio = true
	cfg.DumpOut = io.Discard
	cfg.Emulation.SnapshotDir = tb.TempDir()
	cfg.Emulation.Seed = 1
	return cfg
}

func launch(tb testing.TB, cfg Config, out Output, words ...uint16) (*Emulator, *testingSound) {
	tb.Helper()
	log.Disable()

	e, err := Launch(&rom.Rom{Name: "test", Data: program(words...)}, cfg, out)
	if err != nil {
		tb.Fatal(err)
	}
	snd := &testingSound{}
	e.snd = snd
	return e, snd
}
