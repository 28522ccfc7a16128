package rpc

import (
	"io"
	"net"
	"net/http"
	"net/rpc"
	"strconv"

	"chip8/hw/snapshot"
)

type Emu interface {
	Reset()
	Resume()
	SetPause(pause bool)
	Stop()
	SetClock(hz int) int
	Info() Info
	Snapshot() (*snapshot.CPU, error)
}

type emuProxy struct {
	emu Emu
}

func (ep *emuProxy) Reset(_, _ *struct{}) error             { ep.emu.Reset(); return nil }
func (ep *emuProxy) Resume(_, _ *struct{}) error            { ep.emu.Resume(); return nil }
func (ep *emuProxy) SetPause(pause bool, _ *struct{}) error { ep.emu.SetPause(pause); return nil }
func (ep *emuProxy) Stop(_, _ *struct{}) error              { ep.emu.Stop(); return nil }
func (ep *emuProxy) SetClock(hz int, reply *int) error      { *reply = ep.emu.SetClock(hz); return nil }
func (ep *emuProxy) Info(_ *struct{}, reply *Info) error    { *reply = ep.emu.Info(); return nil }

func (ep *emuProxy) Snapshot(_ *struct{}, reply *snapshot.CPU) error {
	snap, err := ep.emu.Snapshot()
	if err != nil {
		return err
	}
	*reply = *snap
	return nil
}

func (ep *emuProxy) IsReady(_ *struct{}, reply *bool) error {
	*reply = true
	return nil
}

type Server struct {
	io.Closer
	Port int
}

// NewServer starts serving emu on the given port, 0 picks an unused one.
func NewServer(port int, emu Emu) (*Server, error) {
	srv := rpc.NewServer()
	if err := srv.RegisterName("emu", &emuProxy{emu: emu}); err != nil {
		panic("failed to register RPC server: " + err.Error())
	}
	l, err := net.Listen("tcp", "localhost:"+strconv.Itoa(port))
	if err != nil {
		return nil, err
	}
	port = l.Addr().(*net.TCPAddr).Port

	modRPC.InfoZ("rpc server listening").Int("port", port).End()
	go http.Serve(l, srv)
	return &Server{Closer: l, Port: port}, nil
}
