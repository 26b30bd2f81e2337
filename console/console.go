// Package console wires a cartridge, the address-bus gateway, and a
// 65C816 CPU into the single aggregate the debugger and disassembler
// operate against.
package console

import (
	"snes816/bus"
	"snes816/cartridge"
	"snes816/cpu"
)

// Console exclusively owns CPU state, WRAM, the MMIO/DMA register banks
// (via Bus), and the immutable Cartridge.
type Console struct {
	CPU *cpu.State
	Bus *bus.Gateway
}

// New constructs a Console over cart, with the CPU reset into emulation
// mode and PC loaded from the RESET vector.
func New(cart *cartridge.Cartridge) *Console {
	c := &Console{
		CPU: cpu.NewState(),
		Bus: bus.NewGateway(cart),
	}
	c.Reset()
	return c
}

// Reset loads PC from the cartridge's RESET vector and re-establishes the
// emulation-mode invariants.
func (c *Console) Reset() {
	c.CPU.P.E = true
	c.CPU.P.M = true
	c.CPU.P.X = true
	c.CPU.S = (c.CPU.S & 0x00FF) | 0x0100
	c.CPU.X &= 0x00FF
	c.CPU.Y &= 0x00FF
	c.CPU.PC = c.Bus.Cart.Vector(cartridge.VecRESET, true)
	c.CPU.K = 0
}

// Clone returns a Console with an independent CPU and WRAM/register state
// but a shared, still-immutable Cartridge, so a disassembly simulation can
// run ahead of the live machine without mutating it.
func (c *Console) Clone() *Console {
	return &Console{CPU: c.CPU.Clone(), Bus: c.Bus.Clone()}
}

// Decode returns the InstructionContext at the CPU's current PC.
func (c *Console) Decode() (cpu.InstructionContext, error) {
	return cpu.Decode(c.CPU, c.Bus)
}

// Step executes one instruction.
func (c *Console) Step() (cpu.Result, int, error) {
	return cpu.Step(c.CPU, c.Bus, c.Bus.Cart)
}

// NMI raises the non-maskable interrupt.
func (c *Console) NMI() error {
	return cpu.NMI(c.CPU, c.Bus, c.Bus.Cart)
}

// IRQ raises a maskable interrupt.
func (c *Console) IRQ() error {
	return cpu.IRQ(c.CPU, c.Bus, c.Bus.Cart)
}

// PeekByte/PeekWord/ReadByte/ReadWord expose the gateway to the UI without
// requiring it to import bus directly.
func (c *Console) PeekByte(addr uint32) (byte, error)   { return c.Bus.PeekByte(addr) }
func (c *Console) PeekWord(addr uint32) (uint16, error) { return c.Bus.PeekWord(addr) }
func (c *Console) ReadByte(addr uint32) (byte, error)   { return c.Bus.ReadByte(addr) }
func (c *Console) ReadWord(addr uint32) (uint16, error) { return c.Bus.ReadWord(addr) }
