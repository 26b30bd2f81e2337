package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMemory is a flat, unbounded address space backing cpu-package unit
// tests in isolation from the bus package.
type testMemory map[uint32]byte

func (m testMemory) ReadByte(addr uint32) (byte, error)  { return m[addr&0xFFFFFF], nil }
func (m testMemory) PeekByte(addr uint32) (byte, error)  { return m[addr&0xFFFFFF], nil }
func (m testMemory) WriteByte(addr uint32, v byte) error { m[addr&0xFFFFFF] = v; return nil }
func (m testMemory) ReadWord(addr uint32) (uint16, error) {
	lo := m[addr&0xFFFFFF]
	hi := m[(addr+1)&0xFFFFFF]
	return uint16(lo) | uint16(hi)<<8, nil
}
func (m testMemory) PeekWord(addr uint32) (uint16, error) { return m.ReadWord(addr) }
func (m testMemory) WriteWord(addr uint32, v uint16) error {
	m[addr&0xFFFFFF] = byte(v)
	m[(addr+1)&0xFFFFFF] = byte(v >> 8)
	return nil
}

func (m testMemory) loadAt(addr uint32, bytes ...byte) {
	for i, b := range bytes {
		m[addr+uint32(i)] = b
	}
}

type fakeVectors struct {
	vectors [14]uint16
}

func (v *fakeVectors) Vector(index int, emulation bool) uint16 { return v.vectors[index] }

// ADC #$00 with A=0x10, M=1, C=0 leaves A unchanged and all arithmetic
// flags clear.
func TestADCImmediate8BitNoOverflow(t *testing.T) {
	mem := testMemory{}
	mem.loadAt(0x008000, 0x69, 0x00)
	s := NewState()
	s.P.E = false
	s.A = 0x10
	s.P.M = true
	s.P.C = false
	s.PC = 0x8000

	_, _, err := Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x10), s.A)
	assert.False(t, s.P.Z)
	assert.False(t, s.P.N)
	assert.False(t, s.P.C)
	assert.False(t, s.P.V)
}

// INX wraps X from 0xFFFF to 0x0000 in 16-bit index mode.
func TestINXWraps16BitToZero(t *testing.T) {
	mem := testMemory{}
	mem.loadAt(0x008000, 0xE8)
	s := NewState()
	s.P.E = false
	s.P.X = false
	s.X = 0xFFFF
	s.PC = 0x8000

	_, _, err := Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0000), s.X)
	assert.True(t, s.P.Z)
	assert.False(t, s.P.N)
}

// PHA in emulation mode writes A's low byte to $0001FF and decrements S
// by one.
func TestPHAInEmulationModePushesToPage1(t *testing.T) {
	mem := testMemory{}
	mem.loadAt(0x008000, 0x48)
	s := NewState()
	s.P.E = true
	s.S = 0x01FF
	s.A = 0x00AB
	s.PC = 0x8000

	_, _, err := Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), mem[0x0001FF])
	assert.Equal(t, uint16(0x01FE), s.S)
}

// XCE from emulation mode with C=0 swaps the two: E is cleared and C takes
// the old E (set), while M/X/S keep the values the emulation invariant
// already forced.
func TestXCELeavesEmulationMode(t *testing.T) {
	mem := testMemory{}
	mem.loadAt(0x008000, 0xFB)
	s := NewState()
	s.P.E = true
	s.P.C = false
	s.PC = 0x8000

	_, _, err := Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	assert.False(t, s.P.E)
	assert.True(t, s.P.C)
}

// BEQ with Z=0 does not branch; PC advances by the instruction's 2-byte
// length.
func TestBEQNotTakenAdvancesPastOperand(t *testing.T) {
	mem := testMemory{}
	mem.loadAt(0x008000, 0xF0, 0x10)
	s := NewState()
	s.P.E = false
	s.P.Z = false
	s.PC = 0x8000

	result, _, err := Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	assert.Equal(t, ResultNormal, result)
	assert.Equal(t, uint16(0x8002), s.PC)
}

func TestDecodeAddrModeCoversAllOpcodes(t *testing.T) {
	for b := 0; b <= 0xFF; b++ {
		_, err := DecodeAddrMode(byte(b))
		assert.NoError(t, err, "opcode $%02X has no addressing mode", b)
	}
}

func TestImmediateLengthMatchesWidth(t *testing.T) {
	assert.Equal(t, 2, Immediate.Length(true, true))
	assert.Equal(t, 3, Immediate.Length(false, true))
	assert.Equal(t, 3, Immediate.Length(true, false))
}

func TestEmulationModeInvariantHoldsAfterXCE(t *testing.T) {
	mem := testMemory{}
	mem.loadAt(0x008000, 0xFB) // XCE, E=0 -> E=1
	s := NewState()
	s.P.E = false
	s.P.C = true
	s.P.M = false
	s.P.X = false
	s.S = 0x1234
	s.PC = 0x8000

	_, _, err := Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	require.True(t, s.P.E)
	assert.True(t, s.P.M)
	assert.True(t, s.P.X)
	assert.Equal(t, byte(0x01), byte(s.S>>8))
}

func TestPHAThenPLARestoresAccumulator(t *testing.T) {
	mem := testMemory{}
	mem.loadAt(0x008000, 0x48, 0x68) // PHA, PLA
	s := NewState()
	s.P.E = false
	s.P.M = true
	s.A = 0x42
	s.PC = 0x8000
	s.S = 0x01FF

	_, _, err := Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	sAfterPush := s.S
	_, _, err = Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x42), s.A&0xFF)
	assert.Equal(t, sAfterPush+1, s.S)
}

func TestJSRThenRTSRoundTrips(t *testing.T) {
	mem := testMemory{}
	mem.loadAt(0x008000, 0x20, 0x10, 0x80) // JSR $8010
	mem.loadAt(0x008010, 0x60)             // RTS
	s := NewState()
	s.P.E = false
	s.PC = 0x8000
	s.S = 0x01FF

	result, _, err := Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	assert.Equal(t, ResultSubroutine, result)
	assert.Equal(t, uint16(0x8010), s.PC)

	result, _, err = Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	assert.Equal(t, ResultReturn, result)
	assert.Equal(t, uint16(0x8003), s.PC)
}

func TestDecimalModeADCIsUnimplemented(t *testing.T) {
	mem := testMemory{}
	mem.loadAt(0x008000, 0x69, 0x01)
	s := NewState()
	s.P.E = false
	s.P.D = true
	s.PC = 0x8000

	_, _, err := Step(s, mem, &fakeVectors{})
	require.Error(t, err)
	var unimpl *ErrUnimplemented
	assert.ErrorAs(t, err, &unimpl)
}

func TestREPClearsRequestedFlagsAndForcesIndexWidth(t *testing.T) {
	mem := testMemory{}
	mem.loadAt(0x008000, 0xC2, 0x30) // REP #$30
	s := NewState()
	s.P.E = false
	s.P.M = true
	s.P.X = true
	s.X = 0x1234
	s.Y = 0x5678
	s.PC = 0x8000

	_, _, err := Step(s, mem, &fakeVectors{})
	require.NoError(t, err)
	assert.False(t, s.P.M)
	assert.False(t, s.P.X)
}
