package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snes816/cartridge"
)

// withValidChecksum writes a checksum pair matching rom (a power-of-two
// image) into the header at base, so cartridge.Load detects that header.
// Any complement/checksum pair adds 0x1FE to the byte sum, so the pair is
// pre-filled with $FFFF/$0000 before summing.
func withValidChecksum(rom []byte, base int) {
	rom[base+0x1C], rom[base+0x1D] = 0xFF, 0xFF
	rom[base+0x1E], rom[base+0x1F] = 0x00, 0x00
	var sum uint16
	for _, b := range rom {
		sum += uint16(b)
	}
	rom[base+0x1C], rom[base+0x1D] = byte(^sum), byte(^sum>>8)
	rom[base+0x1E], rom[base+0x1F] = byte(sum), byte(sum>>8)
}

func loROMCart(t *testing.T, size int) *cartridge.Cartridge {
	t.Helper()
	rom := make([]byte, size)
	rom[0x7FC0+0x15] = 0x20
	rom[0x7FC0+0x17] = 0x08
	withValidChecksum(rom, 0x7FC0)
	cart, err := cartridge.Load(rom, true)
	require.NoError(t, err)
	return cart
}

func hiROMCart(t *testing.T, size int) *cartridge.Cartridge {
	t.Helper()
	rom := make([]byte, size)
	rom[0xFFC0+0x15] = 0x21
	rom[0xFFC0+0x17] = 0x08
	rom[0x100] = 0x77
	withValidChecksum(rom, 0xFFC0)
	cart, err := cartridge.Load(rom, true)
	require.NoError(t, err)
	return cart
}

func TestDecodeWRAMDirectBanks(t *testing.T) {
	tgt, err := Decode(0x7E1234, cartridge.LoROM, 1<<18)
	require.NoError(t, err)
	assert.Equal(t, RegionWRAM, tgt.Region)
	assert.Equal(t, uint32(0x1234), tgt.Offset)

	tgt, err = Decode(0x7F0001, cartridge.LoROM, 1<<18)
	require.NoError(t, err)
	assert.Equal(t, RegionWRAM, tgt.Region)
	assert.Equal(t, uint32(0x10001), tgt.Offset)
}

func TestDecodeWRAMMirrorAndMirroredBanks(t *testing.T) {
	for _, bank := range []uint32{0x00, 0x3F, 0x80, 0xBF} {
		tgt, err := Decode(bank<<16|0x0100, cartridge.LoROM, 1<<18)
		require.NoError(t, err)
		assert.Equal(t, RegionWRAM, tgt.Region)
		assert.Equal(t, uint32(0x0100), tgt.Offset)
	}
}

func TestDecodeExcludesBank0x40And0xC0FromMirror(t *testing.T) {
	tgt, err := Decode(0x400100, cartridge.HiROM, 1<<21)
	require.NoError(t, err)
	assert.Equal(t, RegionROM, tgt.Region)

	tgt, err = Decode(0xC00100, cartridge.HiROM, 1<<21)
	require.NoError(t, err)
	assert.Equal(t, RegionROM, tgt.Region)
}

func TestDecodeMMIOAndDMAAndPPUWindows(t *testing.T) {
	tgt, err := Decode(0x004200, cartridge.LoROM, 1<<18)
	require.NoError(t, err)
	assert.Equal(t, RegionMMIO, tgt.Region)

	tgt, err = Decode(0x804300, cartridge.LoROM, 1<<18)
	require.NoError(t, err)
	assert.Equal(t, RegionDMA, tgt.Region)

	tgt, err = Decode(0x002100, cartridge.LoROM, 1<<18)
	require.NoError(t, err)
	assert.Equal(t, RegionPPU, tgt.Region)
}

func TestDecodeLoROMOffset(t *testing.T) {
	tgt, err := Decode(0x018000, cartridge.LoROM, 1<<18)
	require.NoError(t, err)
	assert.Equal(t, RegionROM, tgt.Region)
	assert.Equal(t, uint32(0x8000), tgt.Offset)
}

func TestDecodeLoROMBank1Offset0x100IsWRAMMirrorNotROM(t *testing.T) {
	tgt, err := Decode(0x010100, cartridge.LoROM, 1<<18)
	require.NoError(t, err)
	assert.Equal(t, RegionWRAM, tgt.Region)
	assert.Equal(t, uint32(0x0100), tgt.Offset)
}

func TestRomOffsetForRejectsLowHalfBelowBank0x40(t *testing.T) {
	_, err := romOffsetFor(0x010100, cartridge.LoROM, 1<<18)
	require.Error(t, err)
}

func TestDecodeLoROMBank0x40LowHalfIsROM(t *testing.T) {
	tgt, err := Decode(0x400000, cartridge.LoROM, 1<<22)
	require.NoError(t, err)
	assert.Equal(t, RegionROM, tgt.Region)
	assert.Equal(t, uint32(0x1F8000), tgt.Offset)

	tgt, err = Decode(0x407FFF, cartridge.LoROM, 1<<22)
	require.NoError(t, err)
	assert.Equal(t, RegionROM, tgt.Region)
	assert.Equal(t, uint32(0x1FFFFF), tgt.Offset)
}

func TestDecodeExHiROMSplitsBanks(t *testing.T) {
	tgt, err := Decode(0xC00100, cartridge.ExHiROM, 1<<22)
	require.NoError(t, err)
	assert.Equal(t, RegionROM, tgt.Region)
	assert.Equal(t, uint32(0x100), tgt.Offset)
}

func TestGatewayReadWriteWRAM(t *testing.T) {
	cart := loROMCart(t, 1<<18)
	g := NewGateway(cart)

	require.NoError(t, g.WriteByte(0x7E0042, 0xAB))
	v, err := g.ReadByte(0x7E0042)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), v)

	require.NoError(t, g.WriteByte(0x000010, 0xCD))
	v, err = g.ReadByte(0x7E0010)
	require.NoError(t, err)
	assert.Equal(t, byte(0xCD), v, "low WRAM mirror should alias direct WRAM")
}

func TestGatewayWriteToROMFails(t *testing.T) {
	cart := loROMCart(t, 1<<18)
	g := NewGateway(cart)

	err := g.WriteByte(0x018000, 0x00)
	require.Error(t, err)
	var roErr *ErrWriteToReadOnly
	assert.ErrorAs(t, err, &roErr)
}

func TestGatewayReadROMViaHiROMBank(t *testing.T) {
	cart := hiROMCart(t, 1<<21)
	g := NewGateway(cart)

	v, err := g.ReadByte(0xC00100)
	require.NoError(t, err)
	assert.Equal(t, byte(0x77), v)
}

func TestGatewayMMIORoundTrip(t *testing.T) {
	cart := loROMCart(t, 1<<18)
	g := NewGateway(cart)

	require.NoError(t, g.WriteByte(0x004200, 0x81))
	v, err := g.ReadByte(0x004200)
	require.NoError(t, err)
	assert.Equal(t, byte(0x81), v)
	assert.Equal(t, byte(0x81), g.MMIO.NMITIMEN)
}

func TestGatewayUnknownMMIOOffsetFails(t *testing.T) {
	cart := loROMCart(t, 1<<18)
	g := NewGateway(cart)

	_, err := g.ReadByte(0x00420E)
	require.Error(t, err)
	var unk *ErrUnknownRegister
	assert.ErrorAs(t, err, &unk)
}

func TestGatewayDMAChannelRouting(t *testing.T) {
	cart := loROMCart(t, 1<<18)
	g := NewGateway(cart)

	require.NoError(t, g.WriteByte(0x004300, 0x01)) // channel 0 DMAP
	require.NoError(t, g.WriteByte(0x004310, 0x02)) // channel 1 DMAP
	assert.Equal(t, byte(0x01), g.DMA.Channels[0].DMAP)
	assert.Equal(t, byte(0x02), g.DMA.Channels[1].DMAP)
}

func TestGatewayDMAWordRegisterDecomposition(t *testing.T) {
	cart := loROMCart(t, 1<<18)
	g := NewGateway(cart)

	require.NoError(t, g.WriteWord(0x004302, 0xBEEF)) // channel 0 A1T (reg 2)
	assert.Equal(t, byte(0xEF), g.DMA.Channels[0].A1TL)
	assert.Equal(t, byte(0xBE), g.DMA.Channels[0].A1TH)
}

func TestGatewayPPUWritesAreNoOpsReadsFail(t *testing.T) {
	cart := loROMCart(t, 1<<18)
	g := NewGateway(cart)

	require.NoError(t, g.WriteByte(0x002105, 0xFF))
	_, err := g.ReadByte(0x002105)
	require.Error(t, err)
}

func TestGatewayReadWordCrossesAddressBoundary(t *testing.T) {
	cart := loROMCart(t, 1<<18)
	g := NewGateway(cart)

	require.NoError(t, g.WriteByte(0x7E00FF, 0x34))
	require.NoError(t, g.WriteByte(0x7E0100, 0x12))
	v, err := g.ReadWord(0x7E00FF)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v)
}
