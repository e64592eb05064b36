package mem

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"
	"os"

	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

// Flash copies the bytes of r verbatim into memory, starting at base.
func (d *DRAM) Flash(r io.Reader, base uint32) (int, error) {
	if base > uint32(len(d.data)) {
		return 0, fmt.Errorf("%w: flash base %08x beyond memory", riscv.ErrOutOfRange, base)
	}
	avail := int64(len(d.data)) - int64(base)
	// read one byte past the end to detect images that do not fit
	img, err := io.ReadAll(io.LimitReader(r, avail+1))
	if err != nil {
		return 0, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(img)) > avail {
		return 0, fmt.Errorf("%w: image does not fit in %d bytes of memory from %08x", riscv.ErrOutOfRange, avail, base)
	}
	return copy(d.data[base:], img), nil
}

// FlashFile loads a raw binary image file at base.
func (d *DRAM) FlashFile(path string, base uint32) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open image %q: %w", path, err)
	}
	defer f.Close()
	n, err := d.Flash(f, base)
	if err != nil {
		return 0, fmt.Errorf("failed to flash %q: %w", path, err)
	}
	return n, nil
}

// FlashELF copies the loadable segments of a 32-bit RISC-V ELF into memory and returns its entry point.
func (d *DRAM) FlashELF(f *elf.File) (uint32, error) {
	if f.Machine != elf.EM_RISCV {
		return 0, fmt.Errorf("ELF is not RISC-V, but got %q", f.Machine.String())
	}
	if f.Class != elf.ELFCLASS32 {
		return 0, fmt.Errorf("ELF is not 32-bit, but got %q", f.Class.String())
	}
	for i, prog := range f.Progs {
		if prog.Type == 0x70000003 {
			// RISC-V reuses the MIPS_ABIFLAGS program type for its `.riscv.attributes` segment,
			// which has 0 mem size and is not loaded into memory.
			continue
		}
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if prog.Filesz > prog.Memsz {
			return 0, fmt.Errorf("invalid PT_LOAD program segment %d, file size (%d) > mem size (%d)", i, prog.Filesz, prog.Memsz)
		}
		if prog.Vaddr+prog.Memsz > uint64(len(d.data)) {
			return 0, fmt.Errorf("%w: program segment %d [%08x, %08x) beyond memory", riscv.ErrOutOfRange, i, prog.Vaddr, prog.Vaddr+prog.Memsz)
		}
		r := io.MultiReader(
			io.NewSectionReader(prog, 0, int64(prog.Filesz)),
			bytes.NewReader(make([]byte, prog.Memsz-prog.Filesz)),
		)
		if _, err := d.Flash(r, uint32(prog.Vaddr)); err != nil {
			return 0, fmt.Errorf("failed to read program segment %d: %w", i, err)
		}
	}
	return uint32(f.Entry), nil
}
