package main

import (
	"fmt"
	"os"
	"runtime/debug"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case runMode:
		emuMain(cli.Run)
	case disasmMode:
		disasmMain(cli.Disasm)
	case romInfosMode:
		romInfosMain(cli.RomInfos)
	case ctlMode:
		ctlMain(cli.Ctl)
	case versionMode:
		printVersion()
	}
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("chip8", version)
}
