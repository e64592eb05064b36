package cmd

import (
	"github.com/urfave/cli/v2"
)

var (
	ImageFlag = &cli.PathFlag{
		Name:      "image",
		Usage:     "path of a raw memory image, copied verbatim to --base",
		TakesFile: true,
	}
	ELFFlag = &cli.PathFlag{
		Name:      "elf",
		Usage:     "path of a 32-bit RISC-V ELF executable; execution starts at its entry point",
		TakesFile: true,
	}
	BaseFlag = &cli.Uint64Flag{
		Name:  "base",
		Usage: "load address of the raw image, and address of the first fetched instruction",
		Value: 0,
	}
	LogLevelFlag = &cli.StringFlag{
		Name:  "log.level",
		Usage: "log level: trace, debug, info, warn, error or crit",
		Value: "info",
	}
	RunMaxStepsFlag = &cli.Uint64Flag{
		Name:  "max-steps",
		Usage: "stop after this many instructions, 0 runs until ebreak",
		Value: 0,
	}
	RunInfoEveryFlag = &cli.Uint64Flag{
		Name:  "info-every",
		Usage: "log progress every N instructions, 0 disables",
		Value: 1_000_000,
	}
	RunSnapshotFlag = &cli.PathFlag{
		Name:      "snapshot",
		Usage:     "path to write the final JSON state to",
		TakesFile: true,
	}
	RunConsoleLogFlag = &cli.BoolFlag{
		Name:  "console-log",
		Usage: "route console output through the logger instead of stdout",
	}
	RunPProfCPUFlag = &cli.BoolFlag{
		Name:  "pprof.cpu",
		Usage: "enable pprof cpu profiling",
	}
	WitnessInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "path of a JSON state snapshot",
		TakesFile: true,
		Required:  true,
	}
	WitnessOutputFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "path to write the witness and state hash as JSON",
		TakesFile: true,
	}
	DisasmCountFlag = &cli.Uint64Flag{
		Name:  "count",
		Usage: "number of instructions to disassemble, 0 for the whole image",
		Value: 0,
	}
)
