package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"

	"github.com/rv32emu/rv32emu/rvgo/cpu"
	"github.com/rv32emu/rv32emu/rvgo/mem"
)

var OutFilePerm = os.FileMode(0o755)

func Run(ctx *cli.Context) error {
	if ctx.Bool(RunPProfCPUFlag.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	lvl, err := ParseLevel(ctx.String(LogLevelFlag.Name))
	if err != nil {
		return err
	}
	l := Logger(ctx.App.ErrWriter, lvl)

	dram := mem.NewDRAM()
	entry, err := LoadProgram(ctx, dram, l)
	if err != nil {
		return err
	}

	var console io.Writer = ctx.App.Writer
	if ctx.Bool(RunConsoleLogFlag.Name) {
		console = &LoggingWriter{Name: "console", Log: l}
	}
	c := cpu.New(mem.NewBus(dram, mem.NewConsole(console)), entry, l)

	maxSteps := ctx.Uint64(RunMaxStepsFlag.Name)
	infoEvery := ctx.Uint64(RunInfoEveryFlag.Name)
	start := time.Now()

	for !c.Halted() {
		step := c.Steps()
		if step%100 == 0 { // don't do the ctx err check (includes lock) too often
			if err := ctx.Context.Err(); err != nil {
				return err
			}
		}
		if maxSteps != 0 && step >= maxSteps {
			l.Warn("step limit reached", "step", step, "pc", HexU32(c.PC()))
			break
		}
		if infoEvery != 0 && step%infoEvery == 0 {
			delta := time.Since(start)
			l.Info("processing",
				"step", step,
				"pc", HexU32(c.PC()),
				"ips", float64(step)/(float64(delta)/float64(time.Second)),
			)
		}
		if err := c.Step(); err != nil {
			logRegisters(l, c.Registers())
			return fmt.Errorf("failed at step %d (PC: %08x): %w", step, c.PC(), err)
		}
	}

	l.Info("execution finished", "steps", c.Steps(), "halted", c.Halted(), "pc", HexU32(c.PC()), "duration", time.Since(start))
	logRegisters(l, c.Registers())

	if path := ctx.Path(RunSnapshotFlag.Name); path != "" {
		if err := jsonutil.WriteJSON(path, c.State(), OutFilePerm); err != nil {
			return fmt.Errorf("failed to write state snapshot: %w", err)
		}
	}
	return nil
}

var RunCommand = &cli.Command{
	Name:        "run",
	Usage:       "Run a RV32I program until it executes ebreak.",
	Description: "Flash a raw image or ELF into memory, and step the CPU until ebreak, a fault, or the step limit. Optionally writes a JSON state snapshot.",
	Action:      Run,
	Flags: []cli.Flag{
		ImageFlag,
		ELFFlag,
		BaseFlag,
		RunMaxStepsFlag,
		RunInfoEveryFlag,
		RunSnapshotFlag,
		RunConsoleLogFlag,
		LogLevelFlag,
		RunPProfCPUFlag,
	},
}
