package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snes816/cartridge"
	"snes816/console"
	"snes816/cpu"
)

func buildLoROM(t *testing.T, code ...byte) *cartridge.Cartridge {
	t.Helper()
	rom := make([]byte, 1<<18)
	rom[0x7FC0+0x15] = 0x20
	rom[0x7FC0+0x17] = 0x08
	// LoROM $00:8000 is ROM offset 0.
	copy(rom, code)
	// Write a checksum pair matching the image so Load detects the LoROM
	// header; any pair adds 0x1FE to the byte sum, so pre-fill $FFFF/$0000.
	rom[0x7FC0+0x1C], rom[0x7FC0+0x1D] = 0xFF, 0xFF
	var sum uint16
	for _, b := range rom {
		sum += uint16(b)
	}
	rom[0x7FC0+0x1C], rom[0x7FC0+0x1D] = byte(^sum), byte(^sum>>8)
	rom[0x7FC0+0x1E], rom[0x7FC0+0x1F] = byte(sum), byte(sum>>8)
	cart, err := cartridge.Load(rom, true)
	require.NoError(t, err)
	return cart
}

// Disassembling REP #$30; LDA #$1234 produces a second line whose length
// is 3 (16-bit immediate) with the prefetched data 0x1234.
func TestREPThenLDAImmediateWidensOperand(t *testing.T) {
	cart := buildLoROM(t, 0xC2, 0x30, 0xA9, 0x34, 0x12)
	c := console.New(cart)
	c.CPU.K = 0
	c.CPU.PC = 0x8000
	c.CPU.P.E = false
	c.CPU.P.M = true
	c.CPU.P.X = true

	ctx, err := Disassemble(c, 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(ctx.Lines), 2)
	assert.Equal(t, cpu.REP, ctx.Lines[0].Decoded.Instruction.Mnemonic)
	second := ctx.Lines[1].Decoded
	assert.Equal(t, cpu.LDA, second.Instruction.Mnemonic)
	assert.Equal(t, 3, second.Instruction.Length)
	assert.Equal(t, uint16(0x1234), second.Data)
}

func TestDisassembleStopsAtRTS(t *testing.T) {
	cart := buildLoROM(t, 0xEA, 0x60, 0xEA, 0xEA) // NOP, RTS, NOP, NOP
	c := console.New(cart)
	c.CPU.K = 0
	c.CPU.PC = 0x8000
	c.CPU.P.E = false

	ctx, err := Disassemble(c, 10)
	require.NoError(t, err)
	assert.Len(t, ctx.Lines, 2)
	assert.Equal(t, cpu.RTS, ctx.Lines[1].Decoded.Instruction.Mnemonic)
}

func TestBranchAnnotationMarksStartAndEnd(t *testing.T) {
	// BEQ +2, NOP, NOP, then a BRK (zero-filled ROM tail) at the branch
	// target, which also ends the window per the BRK stop condition.
	cart := buildLoROM(t, 0xF0, 0x02, 0xEA, 0xEA)
	c := console.New(cart)
	c.CPU.K = 0
	c.CPU.PC = 0x8000
	c.CPU.P.E = false

	ctx, err := Disassemble(c, 4)
	require.NoError(t, err)
	require.Len(t, ctx.BranchTable, 1)

	startLine := ctx.Lines[0]
	foundStart := false
	for _, f := range startLine.Flags {
		if f.Kind == BranchStart {
			foundStart = true
		}
	}
	assert.True(t, foundStart)
	assert.GreaterOrEqual(t, ctx.BranchDepth, 1)
}
