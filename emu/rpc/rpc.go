// Package rpc exposes the emulator controls over net/rpc, so that a running
// emulator can be driven from another process.
package rpc

import (
	"net"

	"chip8/emu/log"
)

var modRPC = log.NewModule("rpc")

// Info is a summary of the emulator state.
type Info struct {
	Rom    string
	Clock  int
	Paused bool
	State  string
	Halt   string
	PC     uint16
	Cycles int64
}

func UnusedPort() int {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		panic("pickUnusedPort failed: " + err.Error())
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		panic("pickUnusedPort failed: " + err.Error())
	}
	return port
}
