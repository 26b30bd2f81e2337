package bus

// MMIORegisters is a record of the named 8-bit CPU I/O latches at
// $4200-$421F. This core never executes device effects on these
// registers: reads return whatever was last latched (zero until
// written), and writes are recorded verbatim.
//
// Field names and offsets are grounded in original_source/registers.rs.
type MMIORegisters struct {
	NMITIMEN byte // $4200
	WRIO     byte // $4201
	WRMPYA   byte // $4202
	WRMPYB   byte // $4203
	WRDIVL   byte // $4204
	WRDIVH   byte // $4205
	WRDIVB   byte // $4206
	HTIMEL   byte // $4207
	HTIMEH   byte // $4208
	VTIMEL   byte // $4209
	VTIMEH   byte // $420A
	MDMAEN   byte // $420B
	HDMAEN   byte // $420C
	MEMSEL   byte // $420D
	RDNMI    byte // $4210
	TIMEUP   byte // $4211
	HVBJOY   byte // $4212
	RDIO     byte // $4213
	RDDIVL   byte // $4214
	RDDIVH   byte // $4215
	RDMPYL   byte // $4216
	RDMPYH   byte // $4217
	JOY1L    byte // $4218
	JOY1H    byte // $4219
	JOY2L    byte // $421A
	JOY2H    byte // $421B
	JOY3L    byte // $421C
	JOY3H    byte // $421D
	JOY4L    byte // $421E
	JOY4H    byte // $421F
}

// field maps a register offset ($4200-$421F) to a pointer into the
// matching MMIORegisters field.
func (m *MMIORegisters) field(off uint16) (*byte, bool) {
	switch off {
	case 0x4200:
		return &m.NMITIMEN, true
	case 0x4201:
		return &m.WRIO, true
	case 0x4202:
		return &m.WRMPYA, true
	case 0x4203:
		return &m.WRMPYB, true
	case 0x4204:
		return &m.WRDIVL, true
	case 0x4205:
		return &m.WRDIVH, true
	case 0x4206:
		return &m.WRDIVB, true
	case 0x4207:
		return &m.HTIMEL, true
	case 0x4208:
		return &m.HTIMEH, true
	case 0x4209:
		return &m.VTIMEL, true
	case 0x420A:
		return &m.VTIMEH, true
	case 0x420B:
		return &m.MDMAEN, true
	case 0x420C:
		return &m.HDMAEN, true
	case 0x420D:
		return &m.MEMSEL, true
	case 0x4210:
		return &m.RDNMI, true
	case 0x4211:
		return &m.TIMEUP, true
	case 0x4212:
		return &m.HVBJOY, true
	case 0x4213:
		return &m.RDIO, true
	case 0x4214:
		return &m.RDDIVL, true
	case 0x4215:
		return &m.RDDIVH, true
	case 0x4216:
		return &m.RDMPYL, true
	case 0x4217:
		return &m.RDMPYH, true
	case 0x4218:
		return &m.JOY1L, true
	case 0x4219:
		return &m.JOY1H, true
	case 0x421A:
		return &m.JOY2L, true
	case 0x421B:
		return &m.JOY2H, true
	case 0x421C:
		return &m.JOY3L, true
	case 0x421D:
		return &m.JOY3H, true
	case 0x421E:
		return &m.JOY4L, true
	case 0x421F:
		return &m.JOY4H, true
	default:
		return nil, false
	}
}

// DMAChannel is a single one of the 8 DMA/HDMA channel register sets at
// $43n0-$43nF.
type DMAChannel struct {
	DMAP   byte // control
	BBAD   byte // B-bus address
	A1TL   byte // A-bus address low
	A1TH   byte // A-bus address high
	A1B    byte // A-bus bank
	DASL   byte // byte count / HDMA table address low
	DASH   byte // byte count / HDMA table address high
	DASB   byte // indirect HDMA bank
	A2TL   byte // HDMA table current address low
	A2TH   byte // HDMA table current address high
	NLTR   byte // HDMA line counter
	Unused byte
}

func (c *DMAChannel) field(reg uint16) (*byte, bool) {
	switch reg {
	case 0x0:
		return &c.DMAP, true
	case 0x1:
		return &c.BBAD, true
	case 0x2:
		return &c.A1TL, true
	case 0x3:
		return &c.A1TH, true
	case 0x4:
		return &c.A1B, true
	case 0x5:
		return &c.DASL, true
	case 0x6:
		return &c.DASH, true
	case 0x7:
		return &c.DASB, true
	case 0x8:
		return &c.A2TL, true
	case 0x9:
		return &c.A2TH, true
	case 0xA:
		return &c.NLTR, true
	case 0xB:
		return &c.Unused, true
	default:
		return nil, false
	}
}

// DMARegisters is the 8-channel DMA/HDMA register bank at $4300-$437F.
type DMARegisters struct {
	Channels [8]DMAChannel
}

// isWordRegister reports whether a DMA channel register offset is one of
// the three 16-bit fields (2: A1T, 5: DAS, 8: A2T), whose word writes
// decompose into a little-endian byte pair populating the low byte then
// the high byte.
func isWordRegister(reg uint16) bool {
	return reg == 0x2 || reg == 0x5 || reg == 0x8
}
