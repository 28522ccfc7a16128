package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"chip8/emu/log"
	"chip8/hw"
)

type mode byte

const (
	runMode      mode = iota // Run a ROM
	disasmMode               // Disassemble a ROM
	romInfosMode             // Show ROM infos
	ctlMode                  // Control a running emulator
	versionMode              // Show chip8 version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run ROM in emulator."`
		Disasm   Disasm   `cmd:"" help:"Disassemble ROM."`
		RomInfos RomInfos `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Ctl      Ctl      `cmd:"" help:"Control an emulator started with --port."`
		Version  Version  `cmd:"" help:"Show chip8 version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" help:"ROM to run." required:"true" type:"existingfile"`

		Clock      int      `name:"clock" help:"Instruction clock in Hz, overrides the config." placeholder:"HZ"`
		Break      addrList `name:"break" help:"${break_help}" placeholder:"ADDR,..."`
		Seed       uint64   `name:"seed" help:"Seed of the random source, for reproducible runs."`
		Trace      *outfile `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		Term       bool     `name:"term" help:"Draw the display in the terminal instead of a window."`
		Scale      int      `name:"scale" help:"Window scale factor, overrides the config."`
		Monitor    int32    `name:"monitor" help:"Monitor index to use." default:"0"`
		Shader     string   `name:"shader" help:"${shader_help}"`
		NoAudio    bool     `name:"no-audio" help:"Disable audio output."`
		Record     string   `name:"record" help:"Record audio to a WAV file." type:"path" placeholder:"FILE"`
		Restore    string   `name:"restore" help:"Restore a JSON snapshot before running." type:"existingfile" placeholder:"FILE"`
		Port       int      `name:"port" help:"Serve emulator controls over RPC on this port."`
		CPUProfile string   `name:"cpuprofile" help:"${cpuprofile_help}" type:"path"`
		SaveConfig bool     `name:"save-config" help:"Save the configuration, command line overrides included, to the config file."`
	}

	Disasm struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	Ctl struct {
		Port  int    `name:"port" help:"RPC port of the running emulator." required:""`
		Cmd   string `arg:"" name:"cmd" enum:"pause,unpause,resume,reset,stop,clock,info,snapshot" help:"${ctl_help}"`
		Value string `arg:"" name:"value" optional:"" help:"Clock speed in Hz for 'clock', output file for 'snapshot'."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"break_help":      "Pause the emulator when reaching these addresses (hex with 0x prefix, or decimal).",
	"cpuprofile_help": "Write CPU profile to file.",
	"log_help":        "Enable logging for specified modules.",
	"shader_help":     "Fragment shader used to draw the display.",
	"ctl_help":        "One of pause, unpause, resume, reset, stop, clock, info, snapshot.",
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("chip8"),
		kong.Description("CHIP-8 virtual machine."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
}

func parseArgs(args []string) CLI {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")
	cli.mode = commandMode(ctx.Command())
	return cli
}

func commandMode(cmd string) mode {
	name, _, _ := strings.Cut(cmd, " ")
	switch name {
	case "disasm":
		return disasmMode
	case "rom-infos":
		return romInfosMode
	case "ctl":
		return ctlMode
	case "version":
		return versionMode
	default:
		return runMode
	}
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

// addrList is a list of memory addresses. It can be given as a
// comma-separated list and/or by repeating the flag.
type addrList []uint16

// Decode implements kong.MapperValue interface.
func (al *addrList) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	s, ok := tok.Value.(string)
	if !ok {
		return fmt.Errorf("expected an address, got %v", tok.Value)
	}
	for _, v := range strings.Split(s, ",") {
		addr, err := parseAddr(v)
		if err != nil {
			return err
		}
		*al = append(*al, addr)
	}
	return nil
}

func parseAddr(s string) (uint16, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 16)
	if err != nil || n >= hw.MemSize {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(n), nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
