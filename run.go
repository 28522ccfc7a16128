package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/sync/errgroup"

	"chip8/emu"
	"chip8/emu/log"
	"chip8/emu/rpc"
	"chip8/hw"
	"chip8/hw/screen"
	"chip8/hw/snapshot"
	"chip8/hw/term"
	"chip8/rom"
)

// apply overrides the configuration with the command line flags.
func (args *Run) apply(cfg *emu.Config) {
	if args.Clock != 0 {
		cfg.Emulation.Clock = args.Clock
	}
	if len(args.Break) != 0 {
		cfg.Emulation.Breakpoints = append(cfg.Emulation.Breakpoints, args.Break...)
	}
	if args.Seed != 0 {
		cfg.Emulation.Seed = args.Seed
	}
	cfg.Emulation.Restore = args.Restore

	cfg.Video.Terminal = args.Term
	cfg.Video.Monitor = args.Monitor
	if args.Scale != 0 {
		cfg.Video.Scale = args.Scale
	}
	if args.Shader != "" {
		cfg.Video.Shader = args.Shader
	}

	cfg.Audio.DisableAudio = cfg.Audio.DisableAudio || args.NoAudio
	cfg.Audio.Record = args.Record
}

// emuMain runs the emulator with the given rom.
func emuMain(args Run) {
	cfg := emu.LoadConfigOrDefault()
	args.apply(&cfg)
	if args.SaveConfig {
		if err := emu.SaveConfig(cfg); err != nil {
			log.ModEmu.WarnZ("Failed to save config").Error("err", err).End()
		} else {
			log.ModEmu.InfoZ("Config saved").String("dir", emu.ConfigDir()).End()
		}
	}

	var exitcode int
	sdl.Main(func() {
		if err := runEmulator(args, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			exitcode = 1
		}
	})
	os.Exit(exitcode)
}

func runEmulator(args Run, cfg emu.Config) error {
	rom, err := rom.Open(args.RomPath)
	if err != nil {
		return fmt.Errorf("error reading ROM: %w", err)
	}

	if args.Trace != nil {
		cfg.TraceOut = args.Trace
		defer args.Trace.Close()
	}

	if cfg.Video.Terminal {
		// Keep the terminal for the display.
		f, err := os.Create(filepath.Join(emu.ConfigDir(), "chip8.log"))
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
		cfg.DumpOut = f
	}

	out, err := newOutput(cfg, "chip8 - "+rom.Name)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	emulator, err := emu.Launch(rom, cfg, out)
	if err != nil {
		out.Close()
		return fmt.Errorf("failed to start emulator: %w", err)
	}

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return emulator.Run(ctx)
	})

	if args.Port != 0 {
		server, err := rpc.NewServer(args.Port, emulator)
		if err != nil {
			emulator.Stop()
			g.Wait()
			return fmt.Errorf("RPC error: %w", err)
		}
		g.Go(func() error {
			<-ctx.Done()
			return server.Close()
		})
	}

	return g.Wait()
}

func newOutput(cfg emu.Config, title string) (emu.Output, error) {
	vcfg := cfg.Video
	if vcfg.Terminal {
		return term.New(term.Config{
			Foreground: vcfg.Foreground,
			Background: vcfg.Background,
		})
	}
	return screen.New(title, screen.Config{
		Scale:        vcfg.Scale,
		Shader:       vcfg.Shader,
		Foreground:   vcfg.Foreground.Floats(),
		Background:   vcfg.Background.Floats(),
		DisableVSync: vcfg.DisableVSync,
		Monitor:      vcfg.Monitor,
		Keys:         cfg.Input,
	})
}

func disasmMain(args Disasm) {
	rom, err := rom.Open(args.RomPath)
	checkf(err, "failed to open rom")
	checkf(hw.Disassemble(os.Stdout, rom.Data, hw.ProgramBase), "failed to disassemble")
}

func romInfosMain(args RomInfos) {
	rom, err := rom.Open(args.RomPath)
	checkf(err, "failed to open rom")
	rom.PrintInfos(os.Stdout)
}

// ctlMain sends a command to an emulator serving RPC.
func ctlMain(args Ctl) {
	client, err := rpc.NewClient(args.Port)
	checkf(err, "failed to connect to emulator on port %d", args.Port)
	defer client.Close()

	checkf(ctl(client, args, os.Stdout), "%s", args.Cmd)
}

func ctl(client *rpc.Client, args Ctl, w io.Writer) error {
	switch args.Cmd {
	case "pause":
		return client.SetPause(true)
	case "unpause":
		return client.SetPause(false)
	case "resume":
		return client.Resume()
	case "reset":
		return client.Reset()
	case "stop":
		return client.Stop()
	case "clock":
		hz, err := strconv.Atoi(args.Value)
		if err != nil {
			return fmt.Errorf("invalid clock speed %q", args.Value)
		}
		if hz, err = client.SetClock(hz); err != nil {
			return err
		}
		fmt.Fprintf(w, "clock: %d Hz\n", hz)
	case "info":
		info, err := client.Info()
		if err != nil {
			return err
		}
		printInfo(w, info)
	case "snapshot":
		snap, err := client.Snapshot()
		if err != nil {
			return err
		}
		if args.Value == "" {
			return snapshot.Write(w, snap)
		}
		f, err := os.Create(args.Value)
		if err != nil {
			return err
		}
		if err := snapshot.Write(f, snap); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unknown command %q", args.Cmd)
	}
	return nil
}

func printInfo(w io.Writer, info rpc.Info) {
	fmt.Fprintf(w, "rom:    %s\n", info.Rom)
	fmt.Fprintf(w, "clock:  %d Hz\n", info.Clock)
	fmt.Fprintf(w, "paused: %t\n", info.Paused)
	fmt.Fprintf(w, "state:  %s\n", info.State)
	if info.Halt != "" {
		fmt.Fprintf(w, "halt:   %s\n", info.Halt)
	}
	fmt.Fprintf(w, "PC:     0x%03X\n", info.PC)
	fmt.Fprintf(w, "cycles: %d\n", info.Cycles)
}
