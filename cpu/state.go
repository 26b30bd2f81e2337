package cpu

import "snes816/mask"

// Flags holds the 65C816 processor status flags plus the hidden E
// (emulation) and B (break) bits.
type Flags struct {
	N, V, M, X, D, I, Z, C, E, B bool
}

// String renders the flags in the teacher-familiar upper/lowercase-letter
// form, one character per bit, set bits uppercase.
func (f Flags) String() string {
	bits := []struct {
		set  bool
		name byte
	}{
		{f.N, 'N'}, {f.V, 'V'}, {f.M, 'M'}, {f.X, 'X'}, {f.D, 'D'},
		{f.I, 'I'}, {f.Z, 'Z'}, {f.C, 'C'}, {f.E, 'E'}, {f.B, 'B'},
	}
	out := make([]byte, len(bits))
	for i, b := range bits {
		if b.set {
			out[i] = b.name
		} else {
			out[i] = b.name + ('a' - 'A')
		}
	}
	return string(out)
}

// toByte packs the visible flags into the classic 8-bit P register layout:
// N V M X D I Z C (bit 7 down to bit 0). B occupies the X-flag position
// when E=1, matching 6502-compatible emulation-mode PHP/BRK behavior.
func (f Flags) toByte() byte {
	var p byte
	if f.N {
		p |= 0x80
	}
	if f.V {
		p |= 0x40
	}
	if f.M {
		p |= 0x20
	}
	if f.E {
		if f.B {
			p |= 0x10
		}
	} else if f.X {
		p |= 0x10
	}
	if f.D {
		p |= 0x08
	}
	if f.I {
		p |= 0x04
	}
	if f.Z {
		p |= 0x02
	}
	if f.C {
		p |= 0x01
	}
	return p
}

// fromByte unpacks a pushed P byte, leaving E untouched (E is not part of
// the pushed byte on real hardware).
func (f *Flags) fromByte(p byte) {
	f.N = p&0x80 != 0
	f.V = p&0x40 != 0
	f.M = p&0x20 != 0
	if f.E {
		f.B = p&0x10 != 0
		f.X = true
	} else {
		f.X = p&0x10 != 0
	}
	f.D = p&0x08 != 0
	f.I = p&0x04 != 0
	f.Z = p&0x02 != 0
	f.C = p&0x01 != 0
}

// State is the 65C816 register file.
type State struct {
	A, X, Y uint16
	S       uint16
	D       uint16
	DBR     byte
	K       byte
	PC      uint16
	P       Flags
}

// NewState returns a CPU reset into emulation mode with S forced to page 1,
// matching real hardware power-on behavior.
func NewState() *State {
	return &State{
		S: 0x01FF,
		P: Flags{E: true, M: true, X: true, I: true},
	}
}

// Clone returns an independent copy, used by the disassembler to simulate
// without mutating the live machine.
func (s *State) Clone() *State {
	cp := *s
	return &cp
}

// LongPC returns the 24-bit logical program counter, K<<16 | PC.
func (s *State) LongPC() uint32 {
	return mask.Long(s.K, s.PC)
}

// forceEmulationInvariants restores the invariants emulation mode holds
// at all times: M=1, X=1, S high byte = 0x01.
func (s *State) forceEmulationInvariants() {
	s.P.M = true
	s.P.X = true
	s.S = (s.S & 0x00FF) | 0x0100
	s.X &= 0x00FF
	s.Y &= 0x00FF
}

// forceIndexWidth zeroes the high byte of X and Y when the index-width
// flag is 1, matching REP/SEP/PLP/RTI's effect on register width. In
// emulation mode it restores the emulation invariants instead, so those
// instructions cannot clear M or X while E=1.
func (s *State) forceIndexWidth() {
	if s.P.E {
		s.forceEmulationInvariants()
		return
	}
	if s.P.X {
		s.X &= 0x00FF
		s.Y &= 0x00FF
	}
}

func setNZ8(f *Flags, v byte) {
	f.Z = v == 0
	f.N = v&0x80 != 0
}

func setNZ16(f *Flags, v uint16) {
	f.Z = v == 0
	f.N = v&0x8000 != 0
}
