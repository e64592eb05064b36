package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/rv32emu/rv32emu/rvgo/decode"
	"github.com/rv32emu/rv32emu/rvgo/isa"
	"github.com/rv32emu/rv32emu/rvgo/mem"
)

// Disasm lists the words of a raw image with their assembler rendering.
// Words that do not decode, such as data, are printed with the decode error.
func Disasm(ctx *cli.Context) error {
	imagePath := ctx.Path(ImageFlag.Name)
	if imagePath == "" {
		return fmt.Errorf("--%s is required", ImageFlag.Name)
	}
	base, err := baseAddr(ctx)
	if err != nil {
		return err
	}
	dram := mem.NewDRAM()
	n, err := dram.FlashFile(imagePath, base)
	if err != nil {
		return fmt.Errorf("failed to flash image %q: %w", imagePath, err)
	}

	count := uint64(n+3) / 4
	if limit := ctx.Uint64(DisasmCountFlag.Name); limit != 0 && limit < count {
		count = limit
	}
	dram.SetAccessType(mem.AccessWord)
	w := ctx.App.Writer
	for i := uint64(0); i < count; i++ {
		addr := base + uint32(i*4)
		v, err := dram.Read(addr)
		if err != nil {
			return fmt.Errorf("failed to read word at %08x: %w", addr, err)
		}
		asm, err := decode.Disassemble(isa.Word(v))
		if err != nil {
			asm = fmt.Sprintf("<%v>", err)
		}
		if _, err := fmt.Fprintf(w, "%08x: %08x  %s\n", addr, v, asm); err != nil {
			return err
		}
	}
	return nil
}

var DisasmCommand = &cli.Command{
	Name:        "disasm",
	Usage:       "Disassemble a raw RV32I memory image",
	Description: "Disassemble a raw RV32I memory image, one word per line, starting at --base",
	Action:      Disasm,
	Flags: []cli.Flag{
		ImageFlag,
		BaseFlag,
		DisasmCountFlag,
	},
}
