package bus

import (
	"fmt"

	"snes816/cartridge"
	"snes816/mask"
)

// WRAMSize is the 128 KiB of on-board work RAM owned by the Gateway.
const WRAMSize = 128 * 1024

// ErrWriteToReadOnly reports a write attempt whose target resolved to ROM.
type ErrWriteToReadOnly struct {
	Addr uint32
}

func (e *ErrWriteToReadOnly) Error() string {
	return fmt.Sprintf("bus: write to read-only rom address $%06X", e.Addr)
}

// ErrUnknownRegister reports a read/write to an MMIO or DMA offset this
// core does not model.
type ErrUnknownRegister struct {
	Addr uint32
}

func (e *ErrUnknownRegister) Error() string {
	return fmt.Sprintf("bus: unknown register at address $%06X", e.Addr)
}

// Gateway is the single point of access to ROM, WRAM, and the MMIO/DMA
// register latches. It owns WRAM and the register banks; the Cartridge it
// wraps is immutable and may be shared.
type Gateway struct {
	Cart *cartridge.Cartridge
	WRAM [WRAMSize]byte
	MMIO MMIORegisters
	DMA  DMARegisters
}

// NewGateway constructs a Gateway over an already-loaded cartridge. WRAM
// starts zeroed, matching real hardware's undefined-but-conventionally-zero
// power-on state closely enough for deterministic tests.
func NewGateway(cart *cartridge.Cartridge) *Gateway {
	return &Gateway{Cart: cart}
}

// Clone returns an independent Gateway sharing the same immutable
// Cartridge but with its own copy of WRAM and register state, so a
// disassembly simulation can execute instructions without touching the
// live machine.
func (g *Gateway) Clone() *Gateway {
	cp := *g
	return &cp
}

func (g *Gateway) decode(addr uint32) (Target, error) {
	return Decode(addr, g.Cart.Header.MapMode, len(g.Cart.Rom))
}

// ReadByte reads one byte from the 24-bit logical address addr. It may
// have side effects on MMIO state in a fuller implementation (read-on-clear
// semantics); this core has none, so Read and Peek share behavior today.
func (g *Gateway) ReadByte(addr uint32) (byte, error) {
	return g.PeekByte(addr)
}

// PeekByte reads one byte without side effects.
func (g *Gateway) PeekByte(addr uint32) (byte, error) {
	t, err := g.decode(addr)
	if err != nil {
		return 0, err
	}
	switch t.Region {
	case RegionROM:
		return g.Cart.Rom[t.Offset], nil
	case RegionWRAM:
		return g.WRAM[t.Offset%WRAMSize], nil
	case RegionMMIO:
		f, ok := g.MMIO.field(uint16(t.Offset))
		if !ok {
			return 0, &ErrUnknownRegister{Addr: addr}
		}
		return *f, nil
	case RegionDMA:
		ch, reg, ok := dmaChannelReg(uint16(t.Offset))
		if !ok {
			return 0, &ErrUnknownRegister{Addr: addr}
		}
		f, ok := g.DMA.Channels[ch].field(reg)
		if !ok {
			return 0, &ErrUnknownRegister{Addr: addr}
		}
		return *f, nil
	case RegionPPU:
		// The PPU window is not modeled, so reads fail rather than
		// return a fabricated value.
		return 0, &ErrUnknownRegister{Addr: addr}
	default:
		return 0, &ErrBadAddress{Addr: addr}
	}
}

// ReadWord reads a little-endian word at addr, addr+1 with no page wrap
// (address arithmetic is 24-bit).
func (g *Gateway) ReadWord(addr uint32) (uint16, error) {
	lo, err := g.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	hi, err := g.ReadByte((addr + 1) & 0xFFFFFF)
	if err != nil {
		return 0, err
	}
	return mask.Word(lo, hi), nil
}

// PeekWord is the side-effect-free counterpart of ReadWord.
func (g *Gateway) PeekWord(addr uint32) (uint16, error) {
	lo, err := g.PeekByte(addr)
	if err != nil {
		return 0, err
	}
	hi, err := g.PeekByte((addr + 1) & 0xFFFFFF)
	if err != nil {
		return 0, err
	}
	return mask.Word(lo, hi), nil
}

// WriteByte writes one byte to the 24-bit logical address addr.
func (g *Gateway) WriteByte(addr uint32, v byte) error {
	t, err := g.decode(addr)
	if err != nil {
		return err
	}
	switch t.Region {
	case RegionROM:
		return &ErrWriteToReadOnly{Addr: addr}
	case RegionWRAM:
		g.WRAM[t.Offset%WRAMSize] = v
		return nil
	case RegionMMIO:
		f, ok := g.MMIO.field(uint16(t.Offset))
		if !ok {
			return &ErrUnknownRegister{Addr: addr}
		}
		*f = v
		return nil
	case RegionDMA:
		ch, reg, ok := dmaChannelReg(uint16(t.Offset))
		if !ok {
			return &ErrUnknownRegister{Addr: addr}
		}
		f, ok := g.DMA.Channels[ch].field(reg)
		if !ok {
			return &ErrUnknownRegister{Addr: addr}
		}
		*f = v
		return nil
	case RegionPPU:
		// Writes accepted as no-ops in this core.
		return nil
	default:
		return &ErrBadAddress{Addr: addr}
	}
}

// WriteWord writes a little-endian word at addr, addr+1. A word write to a
// DMA register at channel offsets 2/5/8 decomposes into a byte pair
// populating the matching field's low byte then high byte.
func (g *Gateway) WriteWord(addr uint32, v uint16) error {
	t, err := g.decode(addr)
	if err == nil && t.Region == RegionDMA {
		if _, reg, ok := dmaChannelReg(uint16(t.Offset)); ok && isWordRegister(reg) {
			if err := g.WriteByte(addr, byte(v)); err != nil {
				return err
			}
			return g.WriteByte((addr+1)&0xFFFFFF, byte(v>>8))
		}
	}
	if err := g.WriteByte(addr, byte(v)); err != nil {
		return err
	}
	return g.WriteByte((addr+1)&0xFFFFFF, byte(v>>8))
}

// dmaChannelReg splits a DMA register offset ($4300-$437F) into its
// channel index and per-channel register index: channel = (off>>4)&7,
// register = off&0xF.
func dmaChannelReg(off uint16) (channel int, reg uint16, ok bool) {
	if off < 0x4300 || off >= 0x4380 {
		return 0, 0, false
	}
	rel := off - 0x4300
	return int((rel >> 4) & 7), rel & 0xF, true
}
