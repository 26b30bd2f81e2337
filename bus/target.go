// Package bus implements the 24-bit address-bus decoder and memory gateway:
// a pure-function mapping from a logical (bank, offset) address to a
// physical target (ROM, WRAM, MMIO, DMA register), plus typed read/write
// access to each of those regions.
package bus

import (
	"fmt"

	"snes816/cartridge"
	"snes816/mask"
)

// Region identifies which physical backing store a logical address routes
// to.
type Region int

const (
	RegionROM Region = iota
	RegionWRAM
	RegionMMIO
	RegionDMA
	RegionPPU
	RegionInvalid
)

func (r Region) String() string {
	switch r {
	case RegionROM:
		return "ROM"
	case RegionWRAM:
		return "WRAM"
	case RegionMMIO:
		return "MMIO"
	case RegionDMA:
		return "DMA"
	case RegionPPU:
		return "PPU"
	default:
		return "invalid"
	}
}

// Target is the result of decoding a 24-bit logical address.
type Target struct {
	Region Region
	Offset uint32 // meaningful for RegionROM/RegionWRAM
}

// ErrBadAddress reports that no mapping region owns the given address.
type ErrBadAddress struct {
	Addr uint32
}

func (e *ErrBadAddress) Error() string {
	return fmt.Sprintf("bus: no region owns address $%06X", e.Addr)
}

// ErrOutOfRomBounds reports that the computed ROM offset exceeds the
// loaded image.
type ErrOutOfRomBounds struct {
	Offset  uint32
	RomSize int
}

func (e *ErrOutOfRomBounds) Error() string {
	return fmt.Sprintf("bus: rom offset $%06X exceeds rom size $%06X", e.Offset, e.RomSize)
}

// Decode classifies a 24-bit logical address into a Target. It never
// touches memory; it is a pure function of the address and the cartridge's
// map mode.
func Decode(addr uint32, mode cartridge.MapMode, romSize int) (Target, error) {
	bank := mask.Bank(addr)
	off := mask.Offset(addr)

	// Banks 0x80-0xFF mirror 0x00-0x7F for routing purposes.
	routingBank := bank &^ 0x80

	switch {
	case bank >= 0x7E && bank < 0x80:
		// Direct 128 KiB WRAM window.
		wramOff := mask.Long(bank-0x7E, off)
		return Target{Region: RegionWRAM, Offset: wramOff}, nil

	case routingBank < 0x40 && off < 0x2000:
		// Low 8 KiB WRAM mirror, visible from banks 00-3F and 80-BF.
		return Target{Region: RegionWRAM, Offset: uint32(off)}, nil

	case routingBank < 0x40 && off >= 0x4200 && off < 0x4220:
		return Target{Region: RegionMMIO, Offset: uint32(off)}, nil

	case routingBank < 0x40 && off >= 0x4300 && off < 0x4380:
		return Target{Region: RegionDMA, Offset: uint32(off)}, nil

	case routingBank < 0x40 && off >= 0x2000 && off < 0x8000:
		return Target{Region: RegionPPU, Offset: uint32(off)}, nil
	}

	romOffset, err := romOffsetFor(addr, mode, romSize)
	if err != nil {
		return Target{}, err
	}
	return Target{Region: RegionROM, Offset: romOffset}, nil
}

// romOffsetFor computes the physical ROM offset for a logical address under
// the given cartridge map mode.
func romOffsetFor(addr uint32, mode cartridge.MapMode, romSize int) (uint32, error) {
	bank := mask.Bank(addr)
	off := mask.Offset(addr)
	b := uint32(bank & 0x7F)

	var offset uint32
	switch mode {
	case cartridge.LoROM:
		if off < 0x8000 && b < 0x40 {
			return 0, &ErrBadAddress{Addr: addr}
		}
		// Banks 0x40-0x7D (and their 0xC0-0xFD mirror) have no WRAM/MMIO
		// window carved out of the low half, so the whole 64 KiB bank
		// maps to ROM through the same 32 KiB-bank formula as the upper
		// half of banks below 0x40.
		offset = b*0x8000 + uint32(off) - 0x8000
	case cartridge.HiROM:
		offset = addr & 0x3FFFFF
	case cartridge.ExHiROM:
		offset = (addr & 0x3FFFFF) + (((addr & 0x800000) ^ 0x800000) >> 1)
	default:
		return 0, &ErrBadAddress{Addr: addr}
	}

	if int(offset) >= romSize {
		return 0, &ErrOutOfRomBounds{Offset: offset, RomSize: romSize}
	}
	return offset, nil
}
