package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordLongBankOffset(t *testing.T) {
	assert.Equal(t, Word(0x34, 0x12), uint16(0x1234))
	assert.Equal(t, Long(0x7E, 0x1234), uint32(0x7E1234))
	assert.Equal(t, Bank(0x7E1234), byte(0x7E))
	assert.Equal(t, Offset(0x7E1234), uint16(0x1234))

	addr := Long(0x80, Word(0xFC, 0xFF))
	assert.Equal(t, addr, uint32(0x80FFFC))
}

func TestSignExtend8(t *testing.T) {
	assert.Equal(t, SignExtend8(0x7F), int16(127))
	assert.Equal(t, SignExtend8(0x80), int16(-128))
	assert.Equal(t, SignExtend8(0xFF), int16(-1))
	assert.Equal(t, SignExtend8(0x00), int16(0))
}
