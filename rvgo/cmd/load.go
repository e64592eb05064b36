package cmd

import (
	"debug/elf"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/rv32emu/rv32emu/rvgo/mem"
)

func baseAddr(ctx *cli.Context) (uint32, error) {
	base := ctx.Uint64(BaseFlag.Name)
	if base > math.MaxUint32 {
		return 0, fmt.Errorf("base address %#x does not fit in 32 bits", base)
	}
	return uint32(base), nil
}

// LoadProgram flashes the --image or --elf program into memory,
// and returns the address of the first instruction.
func LoadProgram(ctx *cli.Context, dram *mem.DRAM, l log.Logger) (uint32, error) {
	imagePath := ctx.Path(ImageFlag.Name)
	elfPath := ctx.Path(ELFFlag.Name)
	switch {
	case imagePath != "" && elfPath != "":
		return 0, fmt.Errorf("--%s and --%s are mutually exclusive", ImageFlag.Name, ELFFlag.Name)
	case elfPath != "":
		elfProgram, err := elf.Open(elfPath)
		if err != nil {
			return 0, fmt.Errorf("failed to open ELF file %q: %w", elfPath, err)
		}
		defer elfProgram.Close()
		entry, err := dram.FlashELF(elfProgram)
		if err != nil {
			return 0, fmt.Errorf("failed to load ELF data into memory: %w", err)
		}
		l.Info("loaded ELF", "path", elfPath, "entry", HexU32(entry), "mem", dram.Usage())
		return entry, nil
	case imagePath != "":
		base, err := baseAddr(ctx)
		if err != nil {
			return 0, err
		}
		n, err := dram.FlashFile(imagePath, base)
		if err != nil {
			return 0, fmt.Errorf("failed to flash image %q: %w", imagePath, err)
		}
		l.Info("flashed image", "path", imagePath, "base", HexU32(base), "size", n)
		return base, nil
	default:
		return 0, fmt.Errorf("one of --%s or --%s is required", ImageFlag.Name, ELFFlag.Name)
	}
}
