package mem

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

// DRAM is a fixed-size, little-endian, byte-addressable memory.
// The width of the next access is device state, set with SetAccessType.
type DRAM struct {
	data       []byte
	accessType AccessType
}

func NewDRAM() *DRAM {
	return &DRAM{
		data:       make([]byte, riscv.DRAMSize),
		accessType: AccessNone,
	}
}

func (d *DRAM) SetAccessType(t AccessType) {
	d.accessType = t
}

func (d *DRAM) AccessType() AccessType {
	return d.accessType
}

func (d *DRAM) Size() uint32 {
	return uint32(len(d.data))
}

// check validates addr against the bounds and the alignment of the current access type.
func (d *DRAM) check(addr uint32) (uint32, error) {
	if addr >= uint32(len(d.data)) {
		return 0, fmt.Errorf("%w: memory address %08x beyond %08x", riscv.ErrOutOfRange, addr, len(d.data))
	}
	size := d.accessType.Size()
	if size == 0 {
		return 0, fmt.Errorf("%w: dram access type %s not properly set", riscv.ErrInternal, d.accessType)
	}
	if addr%size != 0 {
		return 0, fmt.Errorf("%w: unaligned %s access at %08x", riscv.ErrFailedPrecondition, d.accessType, addr)
	}
	return size, nil
}

func (d *DRAM) Read(addr uint32) (uint32, error) {
	size, err := d.check(addr)
	if err != nil {
		return 0, err
	}
	switch size {
	case 1:
		v := uint32(d.data[addr])
		if d.accessType.Signed() && v&0x80 != 0 {
			v |= 0xFFFFFF00
		}
		return v, nil
	case 2:
		v := uint32(binary.LittleEndian.Uint16(d.data[addr:]))
		if d.accessType.Signed() && v&0x8000 != 0 {
			v |= 0xFFFF0000
		}
		return v, nil
	default:
		return binary.LittleEndian.Uint32(d.data[addr:]), nil
	}
}

// Write stores the low bytes of v that fit the current access width.
func (d *DRAM) Write(addr uint32, v uint32) error {
	size, err := d.check(addr)
	if err != nil {
		return err
	}
	switch size {
	case 1:
		d.data[addr] = uint8(v)
	case 2:
		binary.LittleEndian.PutUint16(d.data[addr:], uint16(v))
	default:
		binary.LittleEndian.PutUint32(d.data[addr:], v)
	}
	return nil
}

// Slice exposes a read-only view of [addr, addr+n), clamped to the memory size.
func (d *DRAM) Slice(addr, n uint32) []byte {
	if addr >= uint32(len(d.data)) {
		return nil
	}
	end := uint64(addr) + uint64(n)
	if end > uint64(len(d.data)) {
		end = uint64(len(d.data))
	}
	return d.data[addr:end:end]
}

// Hash is the keccak256 digest of the full memory contents.
func (d *DRAM) Hash() common.Hash {
	return crypto.Keccak256Hash(d.data)
}

func (d *DRAM) Usage() string {
	return fmt.Sprintf("%d KiB", len(d.data)/1024)
}
